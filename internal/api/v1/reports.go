package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hydrocodeir/Sazegari/internal/domain"
	"github.com/hydrocodeir/Sazegari/internal/rbac"
	"github.com/hydrocodeir/Sazegari/internal/server/middleware"
	"github.com/hydrocodeir/Sazegari/internal/workflow"
)

type CreateReportInput struct {
	Body struct {
		Kind    string          `json:"kind" enum:"county,provincial" doc:"Report kind"`
		Title   string          `json:"title" minLength:"1" maxLength:"500" doc:"Report title"`
		Content json.RawMessage `json:"content,omitempty" doc:"Opaque report payload"`
	}
}

type CreateReportOutput struct {
	Body *domain.Report
}

type ListReportsInput struct {
	Kind      string `query:"kind" doc:"Filter by kind"`
	State     string `query:"state" doc:"Filter by state"`
	CreatedBy string `query:"created_by" doc:"Filter by creator user ID"`
}

type ListReportsOutput struct {
	Body []*domain.Report
}

type GetReportInput struct {
	ID uuid.UUID `path:"id" doc:"Report ID"`
}

type GetReportOutput struct {
	Body *domain.Report
}

type UpdateReportContentInput struct {
	ID   uuid.UUID `path:"id" doc:"Report ID"`
	Body struct {
		Content         json.RawMessage `json:"content" doc:"New report payload"`
		ExpectedVersion int64           `json:"expected_version" minimum:"0" doc:"Version the caller last observed"`
	}
}

type UpdateReportContentOutput struct {
	Body *domain.Report
}

type ReportPermissionsOutput struct {
	Body struct {
		AllowedActions []workflow.Action `json:"allowed_actions"`
		CanEdit        bool              `json:"can_edit"`
		CanDelete      bool              `json:"can_delete"`
	}
}

type ApplyActionInput struct {
	ID   uuid.UUID `path:"id" doc:"Report ID"`
	Body struct {
		Action          string `json:"action" minLength:"1" doc:"Workflow action"`
		ExpectedVersion int64  `json:"expected_version" minimum:"0" doc:"Version the caller last observed"`
		Note            string `json:"note,omitempty" maxLength:"2000" doc:"Revision reason or remark"`
	}
}

type ApplyActionOutput struct {
	Body struct {
		State       domain.State `json:"state"`
		Version     int64        `json:"version"`
		NoRecipient bool         `json:"no_recipient,omitempty"`
	}
}

type DeleteReportInput struct {
	ID   uuid.UUID `path:"id" doc:"Report ID"`
	Body struct {
		ExpectedVersion int64  `json:"expected_version" minimum:"0" doc:"Version the caller last observed"`
		Note            string `json:"note,omitempty" maxLength:"2000" doc:"Deletion justification"`
	}
}

func RegisterReportRoutes(api huma.API, store DataStore, engine *workflow.Engine, notifier Notifier) {
	resolver := workflow.NewRecipientResolver(store.Users())

	huma.Register(api, huma.Operation{
		OperationID: "create-report",
		Method:      http.MethodPost,
		Path:        "/reports",
		Summary:     "Create a draft report",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *CreateReportInput) (*CreateReportOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if !rbac.CanCreateReport(actor.Role) {
			return nil, huma.Error403Forbidden("role may not create reports")
		}

		kind := domain.ReportKind(input.Body.Kind)
		if actor.Role != engine.Table().EntryRole(kind) {
			return nil, huma.Error403Forbidden(
				fmt.Sprintf("role %s is not the entry role for %s reports", actor.Role, kind))
		}
		if actor.OrgID == nil {
			return nil, huma.Error403Forbidden("creator has no org scope")
		}

		var countyID *uuid.UUID
		if kind == domain.KindCounty {
			if actor.CountyID == nil {
				return nil, huma.Error403Forbidden("county reports require county scope")
			}
			countyID = actor.CountyID
		}

		content := input.Body.Content
		if len(content) == 0 {
			content = json.RawMessage("{}")
		}

		now := time.Now()
		report := &domain.Report{
			ID:        uuid.New(),
			Kind:      kind,
			OrgID:     *actor.OrgID,
			CountyID:  countyID,
			Title:     input.Body.Title,
			Content:   content,
			State:     domain.StateDraft,
			Version:   0,
			CreatedBy: actor.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		rec := &domain.AuditRecord{
			ID:        uuid.New(),
			ReportID:  report.ID,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Kind:      domain.AuditWorkflow,
			Action:    "create",
			ToState:   domain.StateDraft,
			CreatedAt: now,
		}

		if err := store.Reports().Create(ctx, report, rec); err != nil {
			return nil, huma.Error500InternalServerError("failed to create report", err)
		}

		return &CreateReportOutput{Body: report}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-reports",
		Method:      http.MethodGet,
		Path:        "/reports",
		Summary:     "List reports visible to the caller",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *ListReportsInput) (*ListReportsOutput, error) {
		user, ok := middleware.UserFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		filter := domain.ReportFilter{}

		// The visibility ladder narrows the query up front; county users
		// still need org-wide rows for the queue-own rung (a bounced
		// provincial report carries no county), so the county and
		// queue-own filtering is applied per row below.
		switch {
		case rbac.Has(user.Role, rbac.ReportsViewAll):
			// no scope filter
		case rbac.Has(user.Role, rbac.ReportsViewOrg), rbac.Has(user.Role, rbac.ReportsViewCounty):
			if user.OrgID == nil {
				return nil, huma.Error403Forbidden("caller has no org scope")
			}
			filter.OrgID = user.OrgID
		default:
			return nil, huma.Error403Forbidden("role may not list reports")
		}

		if input.Kind != "" {
			kind := domain.ReportKind(input.Kind)
			filter.Kind = &kind
		}
		if input.State != "" {
			state := domain.State(input.State)
			filter.State = &state
		}
		if input.CreatedBy != "" {
			creator, err := uuid.Parse(input.CreatedBy)
			if err != nil {
				return nil, huma.Error400BadRequest("invalid created_by")
			}
			filter.CreatedBy = &creator
		}

		reports, err := store.Reports().List(ctx, filter)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list reports", err)
		}

		visible := make([]*domain.Report, 0, len(reports))
		for _, r := range reports {
			if rbac.CanViewReport(user, r) {
				visible = append(visible, r)
			}
		}

		return &ListReportsOutput{Body: visible}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-report",
		Method:      http.MethodGet,
		Path:        "/reports/{id}",
		Summary:     "Get a report by ID",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *GetReportInput) (*GetReportOutput, error) {
		user, ok := middleware.UserFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		report, err := fetchVisibleReport(ctx, store, user, input.ID)
		if err != nil {
			return nil, err
		}

		return &GetReportOutput{Body: report}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-report-permissions",
		Method:      http.MethodGet,
		Path:        "/reports/{id}/permissions",
		Summary:     "Get the caller's allowed actions on a report",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *GetReportInput) (*ReportPermissionsOutput, error) {
		user, ok := middleware.UserFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		report, err := fetchVisibleReport(ctx, store, user, input.ID)
		if err != nil {
			return nil, err
		}

		actor, _ := middleware.ActorFromContext(ctx)

		out := &ReportPermissionsOutput{}
		out.Body.AllowedActions = engine.AllowedActions(report, actor)
		out.Body.CanEdit = engine.CanEdit(report, actor)
		out.Body.CanDelete = engine.CanDelete(report, actor)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-report-content",
		Method:      http.MethodPatch,
		Path:        "/reports/{id}/content",
		Summary:     "Replace the report payload",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *UpdateReportContentInput) (*UpdateReportContentOutput, error) {
		user, ok := middleware.UserFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		report, err := fetchVisibleReport(ctx, store, user, input.ID)
		if err != nil {
			return nil, err
		}

		actor, _ := middleware.ActorFromContext(ctx)
		if !engine.CanEdit(report, actor) {
			return nil, huma.Error403Forbidden("report is not editable by the caller in its current state")
		}

		rec := engine.EditRecord(report, actor, "content", string(report.Content), string(input.Body.Content))

		err = store.Reports().UpdateContent(ctx, report.ID, input.Body.ExpectedVersion, input.Body.Content, rec)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("report was modified concurrently; refetch and retry")
			}
			return nil, huma.Error500InternalServerError("failed to update content", err)
		}

		report.Content = input.Body.Content
		report.Version = input.Body.ExpectedVersion + 1
		report.UpdatedAt = time.Now()

		return &UpdateReportContentOutput{Body: report}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "apply-report-action",
		Method:      http.MethodPost,
		Path:        "/reports/{id}/actions",
		Summary:     "Apply a workflow action to a report",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *ApplyActionInput) (*ApplyActionOutput, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		report, err := store.Reports().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("report not found")
			}
			return nil, huma.Error500InternalServerError("failed to load report", err)
		}

		outcome, err := engine.Apply(report, actor, workflow.Action(input.Body.Action), input.Body.ExpectedVersion, input.Body.Note)
		if err != nil {
			return nil, workflowError(err)
		}

		err = store.Reports().CommitTransition(ctx, report.ID, input.Body.ExpectedVersion, outcome.NextState, outcome.Record)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("report was modified concurrently; refetch and retry")
			}
			return nil, huma.Error500InternalServerError("failed to commit transition", err)
		}

		committed := *report
		committed.State = outcome.NextState
		committed.Version = outcome.NewVersion

		out := &ApplyActionOutput{}
		out.Body.State = outcome.NextState
		out.Body.Version = outcome.NewVersion

		if outcome.Recipient != "" {
			recipients, resolveErr := resolver.Resolve(ctx, &committed, outcome.Recipient)
			if resolveErr != nil {
				// The transition stands; recipient resolution is best effort.
				log.Error().Err(resolveErr).
					Str("report_id", report.ID.String()).
					Msg("api: resolving transition recipients")
				out.Body.NoRecipient = true
				return out, nil
			}
			out.Body.NoRecipient = len(recipients) == 0
			notifier.NotifyTransition(ctx, &committed,
				recipients, transitionMessage(&committed, input.Body.Action))
		}

		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-report",
		Method:      http.MethodDelete,
		Path:        "/reports/{id}",
		Summary:     "Delete a report",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *DeleteReportInput) (*struct{}, error) {
		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		report, err := store.Reports().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("report not found")
			}
			return nil, huma.Error500InternalServerError("failed to load report", err)
		}

		outcome, err := engine.Discard(report, actor, input.Body.ExpectedVersion, input.Body.Note)
		if err != nil {
			return nil, workflowError(err)
		}

		// A creator's own draft is removed outright; anything further along
		// the chain keeps its row and flips to the terminal deleted marker.
		if report.State == domain.StateDraft && report.CreatedBy == actor.ID {
			if err := store.Reports().HardDelete(ctx, report.ID, outcome.Record); err != nil {
				return nil, huma.Error500InternalServerError("failed to delete report", err)
			}
			return nil, nil
		}

		err = store.Reports().CommitTransition(ctx, report.ID, input.Body.ExpectedVersion, outcome.NextState, outcome.Record)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("report was modified concurrently; refetch and retry")
			}
			return nil, huma.Error500InternalServerError("failed to delete report", err)
		}

		notifier.NotifyUser(ctx, report.CreatedBy, &report.ID,
			fmt.Sprintf("report %q was removed by the secretariat", report.Title))

		return nil, nil
	})
}

// fetchVisibleReport loads a report and applies the visibility ladder,
// hiding both missing and out-of-scope reports behind the same 404.
func fetchVisibleReport(ctx context.Context, store DataStore, user *domain.User, id uuid.UUID) (*domain.Report, error) {
	report, err := store.Reports().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("report not found")
		}
		return nil, huma.Error500InternalServerError("failed to load report", err)
	}

	if !rbac.CanViewReport(user, report) {
		return nil, huma.Error404NotFound("report not found")
	}

	return report, nil
}

// workflowError maps the engine's error taxonomy onto HTTP statuses:
// scope 403, illegal transition 422, stale version 409.
func workflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrScopeMismatch):
		return huma.Error403Forbidden("report is outside the caller's jurisdiction")
	case errors.Is(err, workflow.ErrIllegalTransition):
		return huma.Error422UnprocessableEntity("action is not legal for this report, state and role")
	case errors.Is(err, workflow.ErrStaleVersion):
		return huma.Error409Conflict("report was modified concurrently; refetch and retry")
	default:
		return huma.Error500InternalServerError("workflow evaluation failed", err)
	}
}

func transitionMessage(report *domain.Report, action string) string {
	switch workflow.Action(action) {
	case workflow.ActionRequestRevision:
		return fmt.Sprintf("report %q was returned for revision", report.Title)
	case workflow.ActionUnlock:
		return fmt.Sprintf("report %q was unlocked for re-review", report.Title)
	default:
		return fmt.Sprintf("report %q awaits your review", report.Title)
	}
}
