package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/hydrocodeir/Sazegari/internal/api/v1"
	"github.com/hydrocodeir/Sazegari/internal/domain"
	"github.com/hydrocodeir/Sazegari/internal/workflow"
)

func testEngine() *workflow.Engine {
	return workflow.NewEngine(workflow.DefaultTable())
}

func draftCountyReport(orgID, countyID, creator uuid.UUID) *domain.Report {
	now := time.Now()
	return &domain.Report{
		ID:        uuid.New(),
		Kind:      domain.KindCounty,
		OrgID:     orgID,
		CountyID:  &countyID,
		Title:     "quarterly water quality",
		Content:   json.RawMessage(`{"summary":"ok"}`),
		State:     domain.StateDraft,
		Version:   1,
		CreatedBy: creator,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ---------------------------------------------------------------------------
// TestCreateReport
// ---------------------------------------------------------------------------

func TestCreateReport(t *testing.T) {
	t.Parallel()

	orgID, countyID := uuid.New(), uuid.New()
	expertID := uuid.New()

	t.Run("county_expert_creates_draft", func(t *testing.T) {
		t.Parallel()

		var createCalled bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				createFunc: func(_ context.Context, r *domain.Report, rec *domain.AuditRecord) error {
					createCalled = true
					assert.Equal(t, domain.KindCounty, r.Kind)
					assert.Equal(t, orgID, r.OrgID)
					require.NotNil(t, r.CountyID)
					assert.Equal(t, countyID, *r.CountyID)
					assert.Equal(t, domain.StateDraft, r.State)
					assert.EqualValues(t, 0, r.Version, "drafts start unversioned; each transition adds one")
					assert.Equal(t, expertID, r.CreatedBy)
					assert.Equal(t, "create", rec.Action)
					assert.Equal(t, domain.StateDraft, rec.ToState)
					return nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PostCtx(ctx, "/reports", map[string]any{
			"kind":    "county",
			"title":   "quarterly water quality",
			"content": map[string]any{"summary": "ok"},
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, createCalled, "store.Reports().Create must be invoked")
	})

	t.Run("provincial_report_has_no_county", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				createFunc: func(_ context.Context, r *domain.Report, _ *domain.AuditRecord) error {
					assert.Equal(t, domain.KindProvincial, r.Kind)
					assert.Nil(t, r.CountyID)
					return nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(uuid.New(), domain.RoleProvinceExpert, &orgID, nil)
		resp := api.PostCtx(ctx, "/reports", map[string]any{
			"kind":  "provincial",
			"title": "annual provincial summary",
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("manager_cannot_create", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{reports: &mockReportRepo{}}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(uuid.New(), domain.RoleCountyManager, &orgID, &countyID)
		resp := api.PostCtx(ctx, "/reports", map[string]any{
			"kind":  "county",
			"title": "should not exist",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("county_expert_cannot_create_provincial", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{reports: &mockReportRepo{}}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PostCtx(ctx, "/reports", map[string]any{
			"kind":  "provincial",
			"title": "wrong entry role",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestApplyReportAction
// ---------------------------------------------------------------------------

func TestApplyReportAction(t *testing.T) {
	t.Parallel()

	orgID, countyID := uuid.New(), uuid.New()
	expertID := uuid.New()

	t.Run("submit_commits_and_notifies_county_manager", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)
		manager := &domain.User{ID: uuid.New(), Role: domain.RoleCountyManager, OrgID: &orgID, CountyID: &countyID}

		var committed bool
		_, api := humatest.New(t)
		notifier := &mockNotifier{}
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Report, error) {
					assert.Equal(t, report.ID, id)
					return report, nil
				},
				commitTransitionFunc: func(_ context.Context, id uuid.UUID, expectedVersion int64, newState domain.State, rec *domain.AuditRecord) error {
					committed = true
					assert.Equal(t, report.ID, id)
					assert.EqualValues(t, 1, expectedVersion)
					assert.Equal(t, domain.StatePendingCountyManager, newState)
					assert.Equal(t, "submit", rec.Action)
					assert.Equal(t, domain.StateDraft, rec.FromState)
					return nil
				},
			},
			users: &mockUserRepo{
				findByRoleFunc: func(_ context.Context, role domain.Role, oid, cid *uuid.UUID) ([]*domain.User, error) {
					assert.Equal(t, domain.RoleCountyManager, role)
					require.NotNil(t, oid)
					assert.Equal(t, orgID, *oid)
					require.NotNil(t, cid)
					assert.Equal(t, countyID, *cid)
					return []*domain.User{manager}, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), notifier)

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PostCtx(ctx, "/reports/"+report.ID.String()+"/actions", map[string]any{
			"action":           "submit",
			"expected_version": 1,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, committed)

		var body struct {
			State       domain.State `json:"state"`
			Version     int64        `json:"version"`
			NoRecipient bool         `json:"no_recipient"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, domain.StatePendingCountyManager, body.State)
		assert.EqualValues(t, 2, body.Version)
		assert.False(t, body.NoRecipient)

		require.Len(t, notifier.transitions, 1)
		require.Len(t, notifier.transitions[0].recipients, 1)
		assert.Equal(t, manager.ID, notifier.transitions[0].recipients[0].ID)
	})

	t.Run("empty_recipient_set_flags_no_recipient", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)

		_, api := humatest.New(t)
		notifier := &mockNotifier{}
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
				commitTransitionFunc: func(_ context.Context, _ uuid.UUID, _ int64, _ domain.State, _ *domain.AuditRecord) error {
					return nil
				},
			},
			users: &mockUserRepo{
				findByRoleFunc: func(_ context.Context, _ domain.Role, _, _ *uuid.UUID) ([]*domain.User, error) {
					return nil, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), notifier)

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PostCtx(ctx, "/reports/"+report.ID.String()+"/actions", map[string]any{
			"action":           "submit",
			"expected_version": 1,
		})

		require.Equal(t, http.StatusOK, resp.Code, "transition must stand despite empty recipient set")

		var body struct {
			NoRecipient bool `json:"no_recipient"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.NoRecipient)
		require.Len(t, notifier.transitions, 1, "notifier still fans out so admins get the unresolved alert")
		assert.Empty(t, notifier.transitions[0].recipients)
	})

	t.Run("illegal_transition_is_422", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PostCtx(ctx, "/reports/"+report.ID.String()+"/actions", map[string]any{
			"action":           "approve",
			"expected_version": 1,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("scope_mismatch_is_403_even_with_bad_action", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)
		otherOrg := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(uuid.New(), domain.RoleCountyExpert, &otherOrg, &countyID)
		resp := api.PostCtx(ctx, "/reports/"+report.ID.String()+"/actions", map[string]any{
			"action":           "approve",
			"expected_version": 1,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("stale_version_is_409", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)
		report.Version = 3

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PostCtx(ctx, "/reports/"+report.ID.String()+"/actions", map[string]any{
			"action":           "submit",
			"expected_version": 2,
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("commit_conflict_is_409", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
				commitTransitionFunc: func(_ context.Context, _ uuid.UUID, _ int64, _ domain.State, _ *domain.AuditRecord) error {
					return domain.ErrConflict
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PostCtx(ctx, "/reports/"+report.ID.String()+"/actions", map[string]any{
			"action":           "submit",
			"expected_version": 1,
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("missing_report_is_404", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PostCtx(ctx, "/reports/"+uuid.New().String()+"/actions", map[string]any{
			"action":           "submit",
			"expected_version": 1,
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestGetReportPermissions
// ---------------------------------------------------------------------------

func TestGetReportPermissions(t *testing.T) {
	t.Parallel()

	orgID, countyID := uuid.New(), uuid.New()
	expertID := uuid.New()

	report := draftCountyReport(orgID, countyID, expertID)

	_, api := humatest.New(t)
	store := &mockDataStore{
		reports: &mockReportRepo{
			getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
				return report, nil
			},
		},
	}
	v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

	ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
	resp := api.GetCtx(ctx, "/reports/"+report.ID.String()+"/permissions")

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		AllowedActions []string `json:"allowed_actions"`
		CanEdit        bool     `json:"can_edit"`
		CanDelete      bool     `json:"can_delete"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.ElementsMatch(t, []string{"submit", "delete"}, body.AllowedActions)
	assert.True(t, body.CanEdit)
	assert.True(t, body.CanDelete)
}

// ---------------------------------------------------------------------------
// TestUpdateReportContent
// ---------------------------------------------------------------------------

func TestUpdateReportContent(t *testing.T) {
	t.Parallel()

	orgID, countyID := uuid.New(), uuid.New()
	expertID := uuid.New()

	t.Run("creator_edits_draft", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)

		var updated bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
				updateContentFunc: func(_ context.Context, id uuid.UUID, expectedVersion int64, content json.RawMessage, rec *domain.AuditRecord) error {
					updated = true
					assert.Equal(t, report.ID, id)
					assert.EqualValues(t, 1, expectedVersion)
					assert.JSONEq(t, `{"summary":"revised"}`, string(content))
					assert.Equal(t, domain.AuditContent, rec.Kind)
					assert.Equal(t, "content", rec.Field)
					assert.JSONEq(t, `{"summary":"ok"}`, rec.Before)
					assert.JSONEq(t, `{"summary":"revised"}`, rec.After)
					return nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PatchCtx(ctx, "/reports/"+report.ID.String()+"/content", map[string]any{
			"content":          map[string]any{"summary": "revised"},
			"expected_version": 1,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, updated)
	})

	t.Run("pending_report_is_not_editable", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)
		report.State = domain.StatePendingCountyManager

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PatchCtx(ctx, "/reports/"+report.ID.String()+"/content", map[string]any{
			"content":          map[string]any{"summary": "sneaky"},
			"expected_version": 1,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("version_conflict_is_409", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
				updateContentFunc: func(_ context.Context, _ uuid.UUID, _ int64, _ json.RawMessage, _ *domain.AuditRecord) error {
					return domain.ErrConflict
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.PatchCtx(ctx, "/reports/"+report.ID.String()+"/content", map[string]any{
			"content":          map[string]any{"summary": "late"},
			"expected_version": 1,
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestDeleteReport
// ---------------------------------------------------------------------------

func TestDeleteReport(t *testing.T) {
	t.Parallel()

	orgID, countyID := uuid.New(), uuid.New()
	expertID := uuid.New()

	t.Run("creator_hard_deletes_own_draft", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)

		var hardDeleted bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
				hardDeleteFunc: func(_ context.Context, id uuid.UUID, rec *domain.AuditRecord) error {
					hardDeleted = true
					assert.Equal(t, report.ID, id)
					require.NotNil(t, rec, "deletion must carry its ledger entry into the transaction")
					assert.Equal(t, "delete", rec.Action)
					assert.Equal(t, domain.StateDeleted, rec.ToState)
					return nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.DeleteCtx(ctx, "/reports/"+report.ID.String(), map[string]any{
			"expected_version": 1,
		})

		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, hardDeleted)
	})

	t.Run("admin_soft_deletes_pending_report", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)
		report.State = domain.StatePendingProvinceExpert
		report.Version = 4

		var committed bool
		_, api := humatest.New(t)
		notifier := &mockNotifier{}
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
				commitTransitionFunc: func(_ context.Context, _ uuid.UUID, expectedVersion int64, newState domain.State, rec *domain.AuditRecord) error {
					committed = true
					assert.EqualValues(t, 4, expectedVersion)
					assert.Equal(t, domain.StateDeleted, newState)
					assert.Equal(t, "removed for duplicate submission", rec.Note)
					return nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), notifier)

		resp := api.DeleteCtx(adminCtx(uuid.New()), "/reports/"+report.ID.String(), map[string]any{
			"expected_version": 4,
			"note":             "removed for duplicate submission",
		})

		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, committed)
		assert.Equal(t, []uuid.UUID{expertID}, notifier.userNotices, "creator must be told their report was removed")
	})

	t.Run("non_creator_cannot_delete", func(t *testing.T) {
		t.Parallel()

		report := draftCountyReport(orgID, countyID, expertID)

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(uuid.New(), domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.DeleteCtx(ctx, "/reports/"+report.ID.String(), map[string]any{
			"expected_version": 1,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestListReports
// ---------------------------------------------------------------------------

func TestListReports(t *testing.T) {
	t.Parallel()

	orgID, countyID, otherCounty := uuid.New(), uuid.New(), uuid.New()
	expertID := uuid.New()

	ownCounty := draftCountyReport(orgID, countyID, expertID)
	foreignCounty := draftCountyReport(orgID, otherCounty, uuid.New())
	provincial := &domain.Report{
		ID: uuid.New(), Kind: domain.KindProvincial, OrgID: orgID,
		Title: "annual summary", State: domain.StatePendingProvinceManager, Version: 2,
	}
	bouncedProvincial := &domain.Report{
		ID: uuid.New(), Kind: domain.KindProvincial, OrgID: orgID,
		Title: "bounced summary", State: domain.StateNeedsRevisionCountyExpert, Version: 3,
	}

	t.Run("county_expert_sees_own_county_and_own_queue", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				listFunc: func(_ context.Context, f domain.ReportFilter) ([]*domain.Report, error) {
					require.NotNil(t, f.OrgID)
					assert.Equal(t, orgID, *f.OrgID)
					return []*domain.Report{ownCounty, foreignCounty, provincial, bouncedProvincial}, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.GetCtx(ctx, "/reports")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.Report
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 2)
		ids := []uuid.UUID{body[0].ID, body[1].ID}
		assert.Contains(t, ids, ownCounty.ID)
		assert.Contains(t, ids, bouncedProvincial.ID, "provincial report parked in the expert's queue")
		assert.NotContains(t, ids, foreignCounty.ID)
		assert.NotContains(t, ids, provincial.ID, "pending provincial belongs to the province chain")
	})

	t.Run("secretariat_lists_without_scope_filter", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				listFunc: func(_ context.Context, f domain.ReportFilter) ([]*domain.Report, error) {
					assert.Nil(t, f.OrgID)
					return []*domain.Report{ownCounty, foreignCounty, provincial}, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(uuid.New(), domain.RoleSecretariatUser, nil, nil)
		resp := api.GetCtx(ctx, "/reports")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.Report
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body, 3)
	})

	t.Run("state_filter_is_passed_through", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				listFunc: func(_ context.Context, f domain.ReportFilter) ([]*domain.Report, error) {
					require.NotNil(t, f.State)
					assert.Equal(t, domain.StateDraft, *f.State)
					require.NotNil(t, f.Kind)
					assert.Equal(t, domain.KindCounty, *f.Kind)
					return nil, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(expertID, domain.RoleCountyExpert, &orgID, &countyID)
		resp := api.GetCtx(ctx, "/reports?kind=county&state=draft")

		require.Equal(t, http.StatusOK, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestGetReport
// ---------------------------------------------------------------------------

func TestGetReport(t *testing.T) {
	t.Parallel()

	orgID, countyID := uuid.New(), uuid.New()
	report := draftCountyReport(orgID, countyID, uuid.New())

	t.Run("out_of_scope_report_is_hidden_as_404", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		otherOrg := uuid.New()
		ctx := identityCtx(uuid.New(), domain.RoleProvinceExpert, &otherOrg, nil)
		resp := api.GetCtx(ctx, "/reports/"+report.ID.String())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("bounced_provincial_report_is_visible_to_county_expert", func(t *testing.T) {
		t.Parallel()

		// The province manager's request_revision on a provincial report
		// lands with the county expert. The report carries no county, so
		// visibility comes from the queue-own rung, not the county rung.
		bounced := &domain.Report{
			ID: uuid.New(), Kind: domain.KindProvincial, OrgID: orgID,
			Title:   "annual provincial summary",
			Content: json.RawMessage(`{"summary":"wrong figures"}`),
			State:   domain.StateNeedsRevisionCountyExpert, Version: 3,
		}

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return bounced, nil
				},
				updateContentFunc: func(_ context.Context, id uuid.UUID, expectedVersion int64, content json.RawMessage, _ *domain.AuditRecord) error {
					assert.Equal(t, bounced.ID, id)
					assert.EqualValues(t, 3, expectedVersion)
					assert.JSONEq(t, `{"summary":"corrected"}`, string(content))
					return nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		expert := identityCtx(uuid.New(), domain.RoleCountyExpert, &orgID, &countyID)

		resp := api.GetCtx(expert, "/reports/"+bounced.ID.String())
		require.Equal(t, http.StatusOK, resp.Code, "bounced county expert must be able to read the report")

		resp = api.GetCtx(expert, "/reports/"+bounced.ID.String()+"/permissions")
		require.Equal(t, http.StatusOK, resp.Code)

		var perms struct {
			AllowedActions []string `json:"allowed_actions"`
			CanEdit        bool     `json:"can_edit"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&perms))
		assert.True(t, perms.CanEdit)
		assert.Contains(t, perms.AllowedActions, "resubmit")

		resp = api.PatchCtx(expert, "/reports/"+bounced.ID.String()+"/content", map[string]any{
			"content":          map[string]any{"summary": "corrected"},
			"expected_version": 3,
		})
		require.Equal(t, http.StatusOK, resp.Code, "bounced county expert must be able to revise the report")
	})

	t.Run("in_scope_report_is_returned", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			reports: &mockReportRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Report, error) {
					return report, nil
				},
			},
		}
		v1.RegisterReportRoutes(api, store, testEngine(), &mockNotifier{})

		ctx := identityCtx(uuid.New(), domain.RoleProvinceExpert, &orgID, nil)
		resp := api.GetCtx(ctx, "/reports/"+report.ID.String())

		require.Equal(t, http.StatusOK, resp.Code)
	})
}
