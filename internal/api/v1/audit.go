package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/hydrocodeir/Sazegari/internal/domain"
	"github.com/hydrocodeir/Sazegari/internal/rbac"
	"github.com/hydrocodeir/Sazegari/internal/server/middleware"
)

type ReportAuditInput struct {
	ID uuid.UUID `path:"id" doc:"Report ID"`
}

type ReportAuditOutput struct {
	Body []*domain.AuditRecord
}

type ActorAuditInput struct {
	ID     uuid.UUID `path:"id" doc:"Actor user ID"`
	Limit  int       `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Page size"`
	Offset int       `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ActorAuditOutput struct {
	Body []*domain.AuditRecord
}

// RegisterAuditRoutes wires the ledger read API. The per-report timeline
// follows report visibility; the actor history is secretariat-only.
func RegisterAuditRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-report-audit",
		Method:      http.MethodGet,
		Path:        "/reports/{id}/audit",
		Summary:     "Full audit timeline for a report",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ReportAuditInput) (*ReportAuditOutput, error) {
		user, ok := middleware.UserFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if _, err := fetchVisibleReport(ctx, store, user, input.ID); err != nil {
			return nil, err
		}

		records, err := store.Audit().ListByReport(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load audit records", err)
		}

		return &ReportAuditOutput{Body: records}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-report-workflow-log",
		Method:      http.MethodGet,
		Path:        "/reports/{id}/workflow-log",
		Summary:     "Workflow transitions for a report",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ReportAuditInput) (*ReportAuditOutput, error) {
		user, ok := middleware.UserFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if _, err := fetchVisibleReport(ctx, store, user, input.ID); err != nil {
			return nil, err
		}

		records, err := store.Audit().WorkflowLog(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load workflow log", err)
		}

		return &ReportAuditOutput{Body: records}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-actor-audit",
		Method:      http.MethodGet,
		Path:        "/audit/actors/{id}",
		Summary:     "Audit history produced by one actor",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ActorAuditInput) (*ActorAuditOutput, error) {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}
		if !rbac.Has(role, rbac.AuditViewAll) {
			return nil, huma.Error403Forbidden("role may not read the full ledger")
		}

		records, err := store.Audit().ListByActor(ctx, input.ID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load audit records", err)
		}

		return &ActorAuditOutput{Body: records}, nil
	})
}
