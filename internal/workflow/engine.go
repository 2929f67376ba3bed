package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hydrocodeir/Sazegari/internal/domain"
)

// Workflow error taxonomy. All four are caller-recoverable business
// conditions, never process failures.
var (
	// ErrScopeMismatch: the actor lacks jurisdiction over the report.
	// Rejected outright, never worth retrying.
	ErrScopeMismatch = errors.New("workflow: actor scope does not match report")
	// ErrIllegalTransition: no edge for (kind, state, role, action).
	ErrIllegalTransition = errors.New("workflow: no such transition")
	// ErrStaleVersion: the caller's observed version is behind the stored
	// one. Benign race; refetch and retry or surface to the user.
	ErrStaleVersion = errors.New("workflow: report version is stale")
	// ErrNoRecipient flags an empty recipient set after a committed
	// transition. Non-fatal: the transition stands, operators are alerted.
	ErrNoRecipient = errors.New("workflow: no recipient resolved")
)

// Actor is the acting identity as seen by the engine: role plus scope.
type Actor struct {
	ID       uuid.UUID
	Role     domain.Role
	OrgID    *uuid.UUID
	CountyID *uuid.UUID
}

// Outcome is the result of a successfully evaluated action. The caller
// commits NextState together with Record as one atomic persistence write,
// then resolves Recipient into concrete users.
type Outcome struct {
	NextState  domain.State
	NewVersion int64
	Recipient  domain.Role // empty for terminal transitions
	Record     *domain.AuditRecord
}

// Engine evaluates workflow actions against a single immutable table. The
// permission resolver methods are derived from the same table, so the UI can
// never offer an action Apply would reject.
//
// The engine is stateless: it operates on report snapshots and never holds
// references between calls. Concurrency is handled entirely by the version
// guard at the persistence layer.
type Engine struct {
	table *Table
}

func NewEngine(table *Table) *Engine {
	return &Engine{table: table}
}

// Table exposes the table the engine was built with.
func (e *Engine) Table() *Table { return e.table }

// Apply validates action against the report snapshot and computes the
// transition. Precondition order: scope, edge existence, version. The first
// failure wins; no side effects occur on any path.
func (e *Engine) Apply(report *domain.Report, actor Actor, action Action, expectedVersion int64, note string) (*Outcome, error) {
	if !scopeMatch(actor, report) {
		return nil, fmt.Errorf("engine.Apply: role %s on report %s: %w", actor.Role, report.ID, ErrScopeMismatch)
	}

	edge, ok := e.table.Lookup(report.Kind, report.State, actor.Role, action)
	if !ok {
		return nil, fmt.Errorf("engine.Apply: (%s, %s, %s, %s): %w",
			report.Kind, report.State, actor.Role, action, ErrIllegalTransition)
	}

	if report.Version != expectedVersion {
		return nil, fmt.Errorf("engine.Apply: observed v%d, stored v%d: %w",
			expectedVersion, report.Version, ErrStaleVersion)
	}

	return &Outcome{
		NextState:  edge.To,
		NewVersion: report.Version + 1,
		Recipient:  edge.Recipient,
		Record: &domain.AuditRecord{
			ID:        uuid.New(),
			ReportID:  report.ID,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Kind:      domain.AuditWorkflow,
			Action:    string(action),
			FromState: report.State,
			ToState:   edge.To,
			Note:      note,
			CreatedAt: time.Now(),
		},
	}, nil
}

// Discard evaluates a deletion. Deletion is permission-gated rather than
// table-driven: drafts are hard-deleted by their creator, anything later is
// a logged transition to the terminal deleted marker, reserved for the
// secretariat admin. Either way exactly one audit record is produced.
func (e *Engine) Discard(report *domain.Report, actor Actor, expectedVersion int64, note string) (*Outcome, error) {
	if !scopeMatch(actor, report) {
		return nil, fmt.Errorf("engine.Discard: role %s on report %s: %w", actor.Role, report.ID, ErrScopeMismatch)
	}
	if !e.CanDelete(report, actor) {
		return nil, fmt.Errorf("engine.Discard: role %s in state %s: %w", actor.Role, report.State, ErrIllegalTransition)
	}
	if report.Version != expectedVersion {
		return nil, fmt.Errorf("engine.Discard: observed v%d, stored v%d: %w",
			expectedVersion, report.Version, ErrStaleVersion)
	}

	return &Outcome{
		NextState:  domain.StateDeleted,
		NewVersion: report.Version + 1,
		Record: &domain.AuditRecord{
			ID:        uuid.New(),
			ReportID:  report.ID,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Kind:      domain.AuditWorkflow,
			Action:    string(ActionDelete),
			FromState: report.State,
			ToState:   domain.StateDeleted,
			Note:      note,
			CreatedAt: time.Now(),
		},
	}, nil
}

// EditRecord builds the content-edit audit record for a permitted edit.
// Callers must have checked CanEdit; the record is committed atomically with
// the content write by the report repository.
func (e *Engine) EditRecord(report *domain.Report, actor Actor, field, before, after string) *domain.AuditRecord {
	return &domain.AuditRecord{
		ID:        uuid.New(),
		ReportID:  report.ID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Kind:      domain.AuditContent,
		Action:    "update",
		Field:     field,
		Before:    before,
		After:     after,
		CreatedAt: time.Now(),
	}
}

// scopeMatch checks the actor's jurisdiction over the report. Secretariat
// roles are global; province roles need the same org; county roles need the
// same org and, when the report carries one, the same county. A provincial
// report has no county, so any county staff of the org pass the county axis
// (this is what lets the irregular provincial bounce land with the county
// expert).
func scopeMatch(actor Actor, report *domain.Report) bool {
	switch actor.Role.Scope() {
	case domain.ScopeGlobal:
		return true
	case domain.ScopeOrg:
		return actor.OrgID != nil && *actor.OrgID == report.OrgID
	case domain.ScopeOrgCounty:
		if actor.OrgID == nil || *actor.OrgID != report.OrgID {
			return false
		}
		if report.CountyID == nil {
			return true
		}
		return actor.CountyID != nil && *actor.CountyID == *report.CountyID
	}
	return false
}
