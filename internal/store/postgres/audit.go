package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hydrocodeir/Sazegari/internal/domain"
)

// AuditRepo is append-only: records are inserted and read, never updated
// or deleted.
type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

const auditColumns = `id, report_id, actor_id, actor_role, kind, action, from_state, to_state, field, before, after, note, created_at`

const auditInsert = `INSERT INTO report_audit_log
	(id, report_id, actor_id, actor_role, kind, action, from_state, to_state, field, before, after, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func (r *AuditRepo) Append(ctx context.Context, rec *domain.AuditRecord) error {
	_, err := r.pool.Exec(ctx, auditInsert,
		rec.ID, rec.ReportID, rec.ActorID, rec.ActorRole, rec.Kind, rec.Action,
		rec.FromState, rec.ToState, rec.Field, rec.Before, rec.After,
		rec.Note, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditRepo.Append: %w", err)
	}

	return nil
}

// appendTx inserts a record inside a caller-owned transaction, so state
// writes and their ledger entries commit or roll back together.
func (r *AuditRepo) appendTx(ctx context.Context, tx pgx.Tx, rec *domain.AuditRecord) error {
	_, err := tx.Exec(ctx, auditInsert,
		rec.ID, rec.ReportID, rec.ActorID, rec.ActorRole, rec.Kind, rec.Action,
		rec.FromState, rec.ToState, rec.Field, rec.Before, rec.After,
		rec.Note, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditRepo.appendTx: %w", err)
	}

	return nil
}

func (r *AuditRepo) ListByReport(ctx context.Context, reportID uuid.UUID) ([]*domain.AuditRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+auditColumns+` FROM report_audit_log
		 WHERE report_id = $1 ORDER BY created_at, id`,
		reportID,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListByReport: %w", err)
	}
	defer rows.Close()

	return scanAuditRecords(rows, "auditRepo.ListByReport")
}

func (r *AuditRepo) ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*domain.AuditRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+auditColumns+` FROM report_audit_log
		 WHERE actor_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		actorID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListByActor: %w", err)
	}
	defer rows.Close()

	return scanAuditRecords(rows, "auditRepo.ListByActor")
}

func (r *AuditRepo) WorkflowLog(ctx context.Context, reportID uuid.UUID) ([]*domain.AuditRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+auditColumns+` FROM report_audit_log
		 WHERE report_id = $1 AND kind = $2
		 ORDER BY created_at, id`,
		reportID, domain.AuditWorkflow,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.WorkflowLog: %w", err)
	}
	defer rows.Close()

	return scanAuditRecords(rows, "auditRepo.WorkflowLog")
}

func scanAuditRecords(rows pgx.Rows, caller string) ([]*domain.AuditRecord, error) {
	var records []*domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		if err := rows.Scan(
			&rec.ID, &rec.ReportID, &rec.ActorID, &rec.ActorRole, &rec.Kind,
			&rec.Action, &rec.FromState, &rec.ToState, &rec.Field,
			&rec.Before, &rec.After, &rec.Note, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return records, nil
}
