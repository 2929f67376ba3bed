package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hydrocodeir/Sazegari/internal/domain"
)

// Directory is the external user-directory collaborator the recipient
// resolver queries. *postgres.UserRepo satisfies it.
type Directory interface {
	FindByRole(ctx context.Context, role domain.Role, orgID, countyID *uuid.UUID) ([]*domain.User, error)
}

// RecipientResolver maps a transition's recipient role to the concrete users
// who must act next, filtered by the report's organizational scope.
type RecipientResolver struct {
	dir Directory
}

func NewRecipientResolver(dir Directory) *RecipientResolver {
	return &RecipientResolver{dir: dir}
}

// Resolve returns the users eligible to act next. The scope filter follows
// the recipient role, not the actor: global roles see every secretariat
// member, org roles every member of the report's org, county roles the
// report's county (or, for provincial reports without a county, all county
// staff of the org).
//
// An empty result is not an error here; callers treat it as the NoRecipient
// condition and raise an operator alert while the transition stands.
func (r *RecipientResolver) Resolve(ctx context.Context, report *domain.Report, recipient domain.Role) ([]*domain.User, error) {
	var orgID, countyID *uuid.UUID

	switch recipient.Scope() {
	case domain.ScopeGlobal:
		// no filter
	case domain.ScopeOrg:
		orgID = &report.OrgID
	case domain.ScopeOrgCounty:
		orgID = &report.OrgID
		countyID = report.CountyID
	}

	users, err := r.dir.FindByRole(ctx, recipient, orgID, countyID)
	if err != nil {
		return nil, fmt.Errorf("recipients.Resolve: %w", err)
	}
	return users, nil
}
