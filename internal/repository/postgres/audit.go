package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.AuditStore = (*AuditRepository)(nil)

// AuditRepository writes through the pool, never through a caller's
// transaction, so entries persist when the guarded operation rolls back.
type AuditRepository struct {
	db *Connection
}

func NewAuditRepository(db *Connection) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

func (r *AuditRepository) RecordAttempt(ctx context.Context, attempt model.AuditAttempt) (model.AuditEntry, error) {
	query := `INSERT INTO audit_log (audit_id, method, path, user_id)
			  VALUES (nextval('audit_seq'), $1, $2, $3)
			  RETURNING audit_id, method, path, user_id, status, audit_time`

	row := r.db.Pool.QueryRow(ctx, query, attempt.Method, attempt.Path, attempt.UserID)
	entry, err := scanAuditEntry(row)
	if err != nil {
		return model.AuditEntry{}, wrapError(err, "record audit attempt")
	}

	return entry, nil
}

func (r *AuditRepository) RecordOutcome(ctx context.Context, handle model.AuditHandle, status int) error {
	query := `UPDATE audit_log SET status = $2 WHERE audit_id = $1 AND status IS NULL`

	tag, err := r.db.Pool.Exec(ctx, query, int64(handle), status)
	if err != nil {
		return wrapError(err, "record audit outcome")
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var closed bool
	err = r.db.Pool.QueryRow(ctx, `SELECT status IS NOT NULL FROM audit_log WHERE audit_id = $1`, int64(handle)).Scan(&closed)
	if err != nil {
		return wrapError(err, "check audit entry")
	}
	if closed {
		return model.ErrAuditEntryClosed
	}

	return wrapError(pgx.ErrNoRows, "record audit outcome")
}

func (r *AuditRepository) List(ctx context.Context, filter model.AuditFilter) ([]model.AuditEntry, error) {
	query := `SELECT audit_id, method, path, user_id, status, audit_time
			  FROM audit_log
			  WHERE audit_id > $1
			    AND ($2::varchar IS NULL OR user_id = $2)
			  ORDER BY audit_id ASC
			  LIMIT $3`

	rows, err := r.db.Pool.Query(ctx, query, int64(filter.AfterSeq), filter.UserID, filter.Limit)
	if err != nil {
		return nil, wrapError(err, "list audit entries")
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, wrapError(err, "scan audit entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "iterate audit entries")
	}

	return entries, nil
}

func scanAuditEntry(row pgx.Row) (model.AuditEntry, error) {
	var (
		entry  model.AuditEntry
		seq    int64
		status *int16
	)
	if err := row.Scan(&seq, &entry.Method, &entry.Path, &entry.UserID, &status, &entry.CreatedAt); err != nil {
		return model.AuditEntry{}, err
	}
	entry.Seq = model.AuditHandle(seq)
	if status != nil {
		s := int(*status)
		entry.Status = &s
	}

	return entry, nil
}
