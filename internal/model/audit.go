package model

import (
	"context"
	"time"
)

// AuditHandle identifies an audit entry between its attempt and outcome writes.
type AuditHandle int64

// AuditStore defines persistence operations for the audit log.
// Writes never join the caller's transaction so entries survive a rollback.
type AuditStore interface {
	RecordAttempt(ctx context.Context, attempt AuditAttempt) (AuditEntry, error)
	// RecordOutcome closes an open entry. It returns ErrAuditEntryClosed when the
	// entry already has a status and ErrNotFound when there is no such entry.
	RecordOutcome(ctx context.Context, handle AuditHandle, status int) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, error)
}

// AuditAttempt is the first phase of an audit write.
type AuditAttempt struct {
	Method string
	Path   string
	UserID *string
}

// AuditEntry is one recorded request.
type AuditEntry struct {
	Seq       AuditHandle `json:"seq"`
	Method    string      `json:"method"`
	Path      string      `json:"path"`
	UserID    *string     `json:"user_id"`
	Status    *int        `json:"status"`
	CreatedAt time.Time   `json:"time"`
}

// Closed reports whether the outcome has been recorded.
func (e AuditEntry) Closed() bool {
	return e.Status != nil
}

// AuditFilter selects entries with a sequence number above AfterSeq, ascending.
type AuditFilter struct {
	AfterSeq AuditHandle
	UserID   *string
	Limit    int
}
