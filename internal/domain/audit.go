package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditKind separates workflow transitions from content edits in the ledger.
type AuditKind string

const (
	AuditWorkflow AuditKind = "workflow"
	AuditContent  AuditKind = "content"
)

// AuditRecord is one append-only ledger entry. Exactly one record is written
// per committed transition or content edit; records are never mutated.
type AuditRecord struct {
	ID        uuid.UUID
	ReportID  uuid.UUID
	ActorID   uuid.UUID
	ActorRole Role // role at the time of the action
	Kind      AuditKind
	Action    string
	FromState State  // workflow entries only
	ToState   State  // workflow entries only
	Field     string // content entries only
	Before    string // content entries only, JSON text
	After     string // content entries only, JSON text
	Note      string // revision reasons, deletion justification
	CreatedAt time.Time
}

type AuditRepository interface {
	// Append writes a standalone record. Records accompanying a report
	// write (creation, transitions, content edits, hard deletes) are
	// appended by the report repository inside its own transaction; this is
	// for entries with no report write at all.
	Append(ctx context.Context, rec *AuditRecord) error

	// ListByReport returns all records for a report ordered by time.
	ListByReport(ctx context.Context, reportID uuid.UUID) ([]*AuditRecord, error)

	// ListByActor returns records produced by one actor, newest first.
	ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*AuditRecord, error)

	// WorkflowLog is the ListByReport view restricted to workflow entries,
	// used to reconstruct "who touched this report and when".
	WorkflowLog(ctx context.Context, reportID uuid.UUID) ([]*AuditRecord, error)
}
