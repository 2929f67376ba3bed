package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hydrocodeir/Sazegari/internal/domain"
)

type OrgRepo struct {
	pool *pgxpool.Pool
}

func NewOrgRepo(pool *pgxpool.Pool) *OrgRepo {
	return &OrgRepo{pool: pool}
}

func (r *OrgRepo) Create(ctx context.Context, o *domain.Org) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO orgs (id, name, created_at) VALUES ($1, $2, $3)`,
		o.ID, o.Name, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("orgRepo.Create: %w", err)
	}

	return nil
}

func (r *OrgRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Org, error) {
	var o domain.Org

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM orgs WHERE id = $1`, id,
	).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("orgRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("orgRepo.GetByID: %w", err)
	}

	return &o, nil
}

func (r *OrgRepo) List(ctx context.Context) ([]*domain.Org, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM orgs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("orgRepo.List: %w", err)
	}
	defer rows.Close()

	var orgs []*domain.Org
	for rows.Next() {
		var o domain.Org
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("orgRepo.List: scan: %w", err)
		}
		orgs = append(orgs, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orgRepo.List: rows: %w", err)
	}

	return orgs, nil
}

type CountyRepo struct {
	pool *pgxpool.Pool
}

func NewCountyRepo(pool *pgxpool.Pool) *CountyRepo {
	return &CountyRepo{pool: pool}
}

func (r *CountyRepo) Create(ctx context.Context, c *domain.County) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO counties (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("countyRepo.Create: %w", err)
	}

	return nil
}

func (r *CountyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.County, error) {
	var c domain.County

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM counties WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("countyRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("countyRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *CountyRepo) List(ctx context.Context) ([]*domain.County, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM counties ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("countyRepo.List: %w", err)
	}
	defer rows.Close()

	var counties []*domain.County
	for rows.Next() {
		var c domain.County
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("countyRepo.List: scan: %w", err)
		}
		counties = append(counties, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("countyRepo.List: rows: %w", err)
	}

	return counties, nil
}
