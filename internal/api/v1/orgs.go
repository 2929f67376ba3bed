package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/hydrocodeir/Sazegari/internal/domain"
)

type CreateOrgInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"255" doc:"Organization name"`
	}
}

type CreateOrgOutput struct {
	Body *domain.Org
}

type ListOrgsOutput struct {
	Body []*domain.Org
}

type GetOrgInput struct {
	ID uuid.UUID `path:"id" doc:"Org ID"`
}

type GetOrgOutput struct {
	Body *domain.Org
}

type CreateCountyInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"255" doc:"County name"`
	}
}

type CreateCountyOutput struct {
	Body *domain.County
}

type ListCountiesOutput struct {
	Body []*domain.County
}

type GetCountyInput struct {
	ID uuid.UUID `path:"id" doc:"County ID"`
}

type GetCountyOutput struct {
	Body *domain.County
}

// RegisterMasterdataRoutes wires org and county administration. Routes are
// mounted behind the masterdata.manage permission gate; list endpoints are
// additionally exposed read-only on the authenticated group.
func RegisterMasterdataRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-org",
		Method:      http.MethodPost,
		Path:        "/orgs",
		Summary:     "Create an organization",
		Tags:        []string{"Masterdata"},
	}, func(ctx context.Context, input *CreateOrgInput) (*CreateOrgOutput, error) {
		o := &domain.Org{
			ID:        uuid.New(),
			Name:      input.Body.Name,
			CreatedAt: time.Now(),
		}

		if err := store.Orgs().Create(ctx, o); err != nil {
			return nil, huma.Error500InternalServerError("failed to create org", err)
		}

		return &CreateOrgOutput{Body: o}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-county",
		Method:      http.MethodPost,
		Path:        "/counties",
		Summary:     "Create a county",
		Tags:        []string{"Masterdata"},
	}, func(ctx context.Context, input *CreateCountyInput) (*CreateCountyOutput, error) {
		c := &domain.County{
			ID:        uuid.New(),
			Name:      input.Body.Name,
			CreatedAt: time.Now(),
		}

		if err := store.Counties().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create county", err)
		}

		return &CreateCountyOutput{Body: c}, nil
	})
}

// RegisterMasterdataReadRoutes wires the read-only org and county lookups
// available to every authenticated user.
func RegisterMasterdataReadRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-orgs",
		Method:      http.MethodGet,
		Path:        "/orgs",
		Summary:     "List organizations",
		Tags:        []string{"Masterdata"},
	}, func(ctx context.Context, _ *struct{}) (*ListOrgsOutput, error) {
		orgs, err := store.Orgs().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list orgs", err)
		}

		return &ListOrgsOutput{Body: orgs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-org",
		Method:      http.MethodGet,
		Path:        "/orgs/{id}",
		Summary:     "Get an organization by ID",
		Tags:        []string{"Masterdata"},
	}, func(ctx context.Context, input *GetOrgInput) (*GetOrgOutput, error) {
		o, err := store.Orgs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("org not found")
			}
			return nil, huma.Error500InternalServerError("failed to get org", err)
		}

		return &GetOrgOutput{Body: o}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-counties",
		Method:      http.MethodGet,
		Path:        "/counties",
		Summary:     "List counties",
		Tags:        []string{"Masterdata"},
	}, func(ctx context.Context, _ *struct{}) (*ListCountiesOutput, error) {
		counties, err := store.Counties().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list counties", err)
		}

		return &ListCountiesOutput{Body: counties}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-county",
		Method:      http.MethodGet,
		Path:        "/counties/{id}",
		Summary:     "Get a county by ID",
		Tags:        []string{"Masterdata"},
	}, func(ctx context.Context, input *GetCountyInput) (*GetCountyOutput, error) {
		c, err := store.Counties().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("county not found")
			}
			return nil, huma.Error500InternalServerError("failed to get county", err)
		}

		return &GetCountyOutput{Body: c}, nil
	})
}
