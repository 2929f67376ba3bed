package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReportKind selects which workflow graph applies to a report.
type ReportKind string

const (
	KindCounty     ReportKind = "county"
	KindProvincial ReportKind = "provincial"
)

// Valid reports whether k is a known report kind.
func (k ReportKind) Valid() bool {
	return k == KindCounty || k == KindProvincial
}

// State is a workflow node. States are kind-scoped: the same label may carry
// different edges under county and provincial graphs.
type State string

const (
	StateDraft State = "draft"

	StatePendingCountyManager    State = "pending_county_manager"
	StatePendingProvinceExpert   State = "pending_province_expert"
	StatePendingProvinceManager  State = "pending_province_manager"
	StatePendingSecretariatUser  State = "pending_secretariat_user"
	StatePendingSecretariatAdmin State = "pending_secretariat_admin"

	StateNeedsRevisionCountyExpert    State = "needs_revision_county_expert"
	StateNeedsRevisionCountyManager   State = "needs_revision_county_manager"
	StateNeedsRevisionProvinceExpert  State = "needs_revision_province_expert"
	StateNeedsRevisionProvinceManager State = "needs_revision_province_manager"
	StateNeedsRevisionSecretariatUser State = "needs_revision_secretariat_user"

	StateFinalApproved State = "final_approved"
	StateDeleted       State = "deleted"
)

// NeedsRevisionState returns the bounce-back state owned by the given role,
// or "" when no such state exists (final approvers are never bounced to).
func NeedsRevisionState(r Role) State {
	switch r {
	case RoleCountyExpert:
		return StateNeedsRevisionCountyExpert
	case RoleCountyManager:
		return StateNeedsRevisionCountyManager
	case RoleProvinceExpert:
		return StateNeedsRevisionProvinceExpert
	case RoleProvinceManager:
		return StateNeedsRevisionProvinceManager
	case RoleSecretariatUser:
		return StateNeedsRevisionSecretariatUser
	}
	return ""
}

// Terminal reports whether no ordinary workflow edge leaves s.
func (s State) Terminal() bool {
	return s == StateFinalApproved || s == StateDeleted
}

// Report is the workflow subject. The engine only ever sees a snapshot; the
// persistence layer owns the record and enforces the version guard on writes.
type Report struct {
	ID        uuid.UUID
	Kind      ReportKind
	OrgID     uuid.UUID
	CountyID  *uuid.UUID // nil for provincial reports
	Title     string
	Content   json.RawMessage // opaque to the workflow engine
	State     State
	Version   int64
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReportFilter narrows List results. Nil fields are ignored.
type ReportFilter struct {
	OrgID     *uuid.UUID
	CountyID  *uuid.UUID
	Kind      *ReportKind
	State     *State
	CreatedBy *uuid.UUID
}

type ReportRepository interface {
	// Create stores a new draft report together with its creation audit
	// record in one transaction.
	Create(ctx context.Context, r *Report, rec *AuditRecord) error

	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, f ReportFilter) ([]*Report, error)

	// CommitTransition applies a validated workflow transition: the state
	// write, the version bump and the audit append happen in a single
	// transaction. Returns ErrConflict when the stored version no longer
	// matches expectedVersion.
	CommitTransition(ctx context.Context, id uuid.UUID, expectedVersion int64, newState State, rec *AuditRecord) error

	// UpdateContent replaces the content payload under the same version
	// guard, appending the content audit record atomically.
	UpdateContent(ctx context.Context, id uuid.UUID, expectedVersion int64, content json.RawMessage, rec *AuditRecord) error

	// HardDelete physically removes a report, appending its deletion audit
	// record in the same transaction. Only legal for drafts that have never
	// left their creator; gated by the permission resolver.
	HardDelete(ctx context.Context, id uuid.UUID, rec *AuditRecord) error
}
