package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/hydrocodeir/Sazegari/internal/domain"
	"github.com/hydrocodeir/Sazegari/internal/workflow"
)

type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserRole contextKey = "role"
	ContextKeyOrgID    contextKey = "org_id"
	ContextKeyCountyID contextKey = "county_id"
)

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	v, ok := ctx.Value(ContextKeyUserRole).(domain.Role)
	return v, ok
}

// OrgIDFromContext returns the caller's org scope; nil for secretariat users.
func OrgIDFromContext(ctx context.Context) *uuid.UUID {
	v, ok := ctx.Value(ContextKeyOrgID).(uuid.UUID)
	if !ok {
		return nil
	}
	return &v
}

// CountyIDFromContext returns the caller's county scope; nil unless the
// caller holds a county-level role.
func CountyIDFromContext(ctx context.Context) *uuid.UUID {
	v, ok := ctx.Value(ContextKeyCountyID).(uuid.UUID)
	if !ok {
		return nil
	}
	return &v
}

// ActorFromContext assembles the workflow actor for the authenticated caller.
func ActorFromContext(ctx context.Context) (workflow.Actor, bool) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return workflow.Actor{}, false
	}
	role, ok := RoleFromContext(ctx)
	if !ok {
		return workflow.Actor{}, false
	}

	return workflow.Actor{
		ID:       userID,
		Role:     role,
		OrgID:    OrgIDFromContext(ctx),
		CountyID: CountyIDFromContext(ctx),
	}, true
}

// UserFromContext rebuilds a minimal domain user from the token claims, for
// code paths that take a *domain.User rather than a workflow actor.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, false
	}
	role, ok := RoleFromContext(ctx)
	if !ok {
		return nil, false
	}

	return &domain.User{
		ID:       userID,
		Role:     role,
		OrgID:    OrgIDFromContext(ctx),
		CountyID: CountyIDFromContext(ctx),
	}, true
}
