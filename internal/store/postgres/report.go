package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hydrocodeir/Sazegari/internal/domain"
)

type ReportRepo struct {
	pool  *pgxpool.Pool
	audit *AuditRepo
}

func NewReportRepo(pool *pgxpool.Pool, audit *AuditRepo) *ReportRepo {
	return &ReportRepo{pool: pool, audit: audit}
}

const reportColumns = `id, kind, org_id, county_id, title, content, state, version, created_by, created_at, updated_at`

func (r *ReportRepo) Create(ctx context.Context, rep *domain.Report, rec *domain.AuditRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reportRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO reports (id, kind, org_id, county_id, title, content, state, version, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rep.ID, rep.Kind, rep.OrgID, rep.CountyID, rep.Title, rep.Content,
		rep.State, rep.Version, rep.CreatedBy, rep.CreatedAt, rep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("reportRepo.Create: %w", err)
	}

	if err := r.audit.appendTx(ctx, tx, rec); err != nil {
		return fmt.Errorf("reportRepo.Create: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reportRepo.Create: commit: %w", err)
	}

	return nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)

	rep, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reportRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}

	return rep, nil
}

func (r *ReportRepo) List(ctx context.Context, f domain.ReportFilter) ([]*domain.Report, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reportColumns+` FROM reports
		 WHERE ($1::uuid IS NULL OR org_id = $1)
		   AND ($2::uuid IS NULL OR county_id = $2)
		   AND ($3::text IS NULL OR kind = $3)
		   AND ($4::text IS NULL OR state = $4)
		   AND ($5::uuid IS NULL OR created_by = $5)
		 ORDER BY updated_at DESC, id
		 LIMIT 500`,
		f.OrgID, f.CountyID, f.Kind, f.State, f.CreatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.List: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("reportRepo.List: scan: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reportRepo.List: rows: %w", err)
	}

	return reports, nil
}

// CommitTransition writes the new state and the audit record in one
// transaction. The UPDATE is guarded on the stored version: zero rows
// affected means another writer got there first, reported as ErrConflict.
func (r *ReportRepo) CommitTransition(ctx context.Context, id uuid.UUID, expectedVersion int64, newState domain.State, rec *domain.AuditRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reportRepo.CommitTransition: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE reports SET state = $1, version = version + 1, updated_at = now()
		 WHERE id = $2 AND version = $3`,
		newState, id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("reportRepo.CommitTransition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reportRepo.CommitTransition: %w", domain.ErrConflict)
	}

	if err := r.audit.appendTx(ctx, tx, rec); err != nil {
		return fmt.Errorf("reportRepo.CommitTransition: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reportRepo.CommitTransition: commit: %w", err)
	}

	return nil
}

// UpdateContent replaces the payload under the same version guard as
// CommitTransition, appending the content audit record atomically.
func (r *ReportRepo) UpdateContent(ctx context.Context, id uuid.UUID, expectedVersion int64, content json.RawMessage, rec *domain.AuditRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reportRepo.UpdateContent: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE reports SET content = $1, version = version + 1, updated_at = now()
		 WHERE id = $2 AND version = $3`,
		content, id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("reportRepo.UpdateContent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reportRepo.UpdateContent: %w", domain.ErrConflict)
	}

	if err := r.audit.appendTx(ctx, tx, rec); err != nil {
		return fmt.Errorf("reportRepo.UpdateContent: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reportRepo.UpdateContent: commit: %w", err)
	}

	return nil
}

// HardDelete removes the row and appends the deletion audit record in one
// transaction, so a partial failure can never leave a deletion entry in the
// ledger for a report that still exists.
func (r *ReportRepo) HardDelete(ctx context.Context, id uuid.UUID, rec *domain.AuditRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reportRepo.HardDelete: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.audit.appendTx(ctx, tx, rec); err != nil {
		return fmt.Errorf("reportRepo.HardDelete: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("reportRepo.HardDelete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reportRepo.HardDelete: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reportRepo.HardDelete: commit: %w", err)
	}

	return nil
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var rep domain.Report
	err := row.Scan(&rep.ID, &rep.Kind, &rep.OrgID, &rep.CountyID, &rep.Title,
		&rep.Content, &rep.State, &rep.Version, &rep.CreatedBy,
		&rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &rep, nil
}
