package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role identifies one of the six fixed workflow roles.
type Role string

const (
	RoleCountyExpert     Role = "county_expert"
	RoleCountyManager    Role = "county_manager"
	RoleProvinceExpert   Role = "province_expert"
	RoleProvinceManager  Role = "province_manager"
	RoleSecretariatUser  Role = "secretariat_user"
	RoleSecretariatAdmin Role = "secretariat_admin"
)

// Roles lists every valid role, in chain order (county level first).
func Roles() []Role {
	return []Role{
		RoleCountyExpert,
		RoleCountyManager,
		RoleProvinceExpert,
		RoleProvinceManager,
		RoleSecretariatUser,
		RoleSecretariatAdmin,
	}
}

// ScopeKind is the organizational partition a role's authority applies to.
type ScopeKind string

const (
	// ScopeGlobal roles act on any report (secretariat).
	ScopeGlobal ScopeKind = "global"
	// ScopeOrg roles act within their own org (province level).
	ScopeOrg ScopeKind = "org"
	// ScopeOrgCounty roles act within their own org and county.
	ScopeOrgCounty ScopeKind = "org_county"
)

// Scope returns the scope kind of a role.
func (r Role) Scope() ScopeKind {
	switch r {
	case RoleCountyExpert, RoleCountyManager:
		return ScopeOrgCounty
	case RoleProvinceExpert, RoleProvinceManager:
		return ScopeOrg
	default:
		return ScopeGlobal
	}
}

// Valid reports whether r is one of the six known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCountyExpert, RoleCountyManager,
		RoleProvinceExpert, RoleProvinceManager,
		RoleSecretariatUser, RoleSecretariatAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string // argon2id
	FullName     string
	Role         Role
	OrgID        *uuid.UUID // nil for secretariat roles
	CountyID     *uuid.UUID // set only for county-scoped roles
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context) ([]*User, error)

	// FindByRole is the user directory used for recipient resolution.
	// orgID / countyID narrow the result; nil means no filter on that axis.
	FindByRole(ctx context.Context, role Role, orgID, countyID *uuid.UUID) ([]*User, error)
}
