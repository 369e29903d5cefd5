package memory

import (
	"context"
	"time"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.AuditStore = (*AuditRepository)(nil)

// AuditRepository keeps entries under their own lock: they are never part of a
// transaction and never rolled back.
type AuditRepository struct {
	db *DB
}

func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) RecordAttempt(ctx context.Context, attempt model.AuditAttempt) (model.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return model.AuditEntry{}, err
	}

	r.db.auditMu.Lock()
	defer r.db.auditMu.Unlock()

	r.db.auditSeq++
	entry := model.AuditEntry{
		Seq:       model.AuditHandle(r.db.auditSeq),
		Method:    attempt.Method,
		Path:      attempt.Path,
		CreatedAt: time.Now(),
	}
	if attempt.UserID != nil {
		userID := *attempt.UserID
		entry.UserID = &userID
	}
	r.db.auditIdx[entry.Seq] = len(r.db.audit)
	r.db.audit = append(r.db.audit, entry)

	return entry, nil
}

func (r *AuditRepository) RecordOutcome(ctx context.Context, handle model.AuditHandle, status int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.auditMu.Lock()
	defer r.db.auditMu.Unlock()

	i, ok := r.db.auditIdx[handle]
	if !ok {
		return model.ErrNotFound
	}
	if r.db.audit[i].Closed() {
		return model.ErrAuditEntryClosed
	}
	s := status
	r.db.audit[i].Status = &s
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter model.AuditFilter) ([]model.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.auditMu.Lock()
	defer r.db.auditMu.Unlock()

	entries := make([]model.AuditEntry, 0)
	for _, e := range r.db.audit {
		if e.Seq <= filter.AfterSeq {
			continue
		}
		if filter.UserID != nil && (e.UserID == nil || *e.UserID != *filter.UserID) {
			continue
		}
		entries = append(entries, e)
		if filter.Limit > 0 && len(entries) == filter.Limit {
			break
		}
	}
	return entries, nil
}
