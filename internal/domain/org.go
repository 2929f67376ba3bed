package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Org is a province-level organization that owns reports.
type Org struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// County is an administrative subdivision users and county reports belong to.
type County struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type OrgRepository interface {
	Create(ctx context.Context, o *Org) error
	GetByID(ctx context.Context, id uuid.UUID) (*Org, error)
	List(ctx context.Context) ([]*Org, error)
}

type CountyRepository interface {
	Create(ctx context.Context, c *County) error
	GetByID(ctx context.Context, id uuid.UUID) (*County, error)
	List(ctx context.Context) ([]*County, error)
}
