package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/hydrocodeir/Sazegari/internal/auth"
	"github.com/hydrocodeir/Sazegari/internal/domain"
)

type CreateUserInput struct {
	Body struct {
		Username string     `json:"username" minLength:"1" maxLength:"64" doc:"Login name"`
		Password string     `json:"password" minLength:"8" maxLength:"128" doc:"Initial password"` //nolint:gosec // G117: provisioning DTO
		FullName string     `json:"full_name" minLength:"1" maxLength:"255" doc:"Display name"`
		Role     string     `json:"role" doc:"One of the six workflow roles"`
		OrgID    *uuid.UUID `json:"org_id,omitempty" doc:"Org scope, required for non-secretariat roles"`
		CountyID *uuid.UUID `json:"county_id,omitempty" doc:"County scope, required for county roles"`
	}
}

type CreateUserOutput struct {
	Body *domain.User
}

type ListUsersOutput struct {
	Body []*domain.User
}

type GetUserInput struct {
	ID uuid.UUID `path:"id" doc:"User ID"`
}

type GetUserOutput struct {
	Body *domain.User
}

// RegisterUserRoutes wires account provisioning. Routes are mounted behind
// the masterdata.manage permission gate.
func RegisterUserRoutes(api huma.API, store DataStore, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-user",
		Method:      http.MethodPost,
		Path:        "/users",
		Summary:     "Provision a user account",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *CreateUserInput) (*CreateUserOutput, error) {
		role := domain.Role(input.Body.Role)
		if !role.Valid() {
			return nil, huma.Error400BadRequest("unknown role: " + input.Body.Role)
		}

		switch role.Scope() {
		case domain.ScopeGlobal:
			if input.Body.OrgID != nil || input.Body.CountyID != nil {
				return nil, huma.Error400BadRequest("secretariat roles carry no org or county scope")
			}
		case domain.ScopeOrg:
			if input.Body.OrgID == nil {
				return nil, huma.Error400BadRequest("role requires org_id")
			}
			if input.Body.CountyID != nil {
				return nil, huma.Error400BadRequest("province roles carry no county scope")
			}
		case domain.ScopeOrgCounty:
			if input.Body.OrgID == nil || input.Body.CountyID == nil {
				return nil, huma.Error400BadRequest("role requires org_id and county_id")
			}
		}

		if input.Body.OrgID != nil {
			if _, err := store.Orgs().GetByID(ctx, *input.Body.OrgID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("org not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate org", err)
			}
		}
		if input.Body.CountyID != nil {
			if _, err := store.Counties().GetByID(ctx, *input.Body.CountyID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("county not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate county", err)
			}
		}

		user, err := authSvc.CreateUser(ctx, input.Body.Username, input.Body.Password,
			input.Body.FullName, role, input.Body.OrgID, input.Body.CountyID)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("username already taken")
			}
			return nil, huma.Error500InternalServerError("failed to create user", err)
		}

		user.PasswordHash = ""
		return &CreateUserOutput{Body: user}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List user accounts",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
		users, err := store.Users().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}

		for _, u := range users {
			u.PasswordHash = ""
		}

		return &ListUsersOutput{Body: users}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get a user by ID",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *GetUserInput) (*GetUserOutput, error) {
		user, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		user.PasswordHash = ""
		return &GetUserOutput{Body: user}, nil
	})
}
