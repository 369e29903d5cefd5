package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

const (
	maxAuditMethodLength = 10
	maxAuditPathLength   = 100

	defaultAuditListLimit = 100
	maxAuditListLimit     = 1000
)

// Audit is the two-phase request log. RecordAttempt runs before the guarded
// operation and RecordOutcome closes the returned handle once the status is
// known. An attempt that is never closed keeps a null status.
type Audit struct {
	store    model.AuditStore
	auditors []string
	logger   *logger.Logger
}

func NewAudit(store model.AuditStore, auditors []string, logger *logger.Logger) *Audit {
	return &Audit{store: store, auditors: auditors, logger: logger}
}

func (a *Audit) RecordAttempt(ctx context.Context, method, path string, userID *string) (model.AuditHandle, error) {
	entry, err := a.store.RecordAttempt(ctx, model.AuditAttempt{
		Method: truncate(sanitize(method), maxAuditMethodLength),
		Path:   truncate(sanitize(path), maxAuditPathLength),
		UserID: userID,
	})
	if err != nil {
		a.logger.Error("Audit service: failed to record attempt",
			"method", method,
			"path", path,
			"error", err.Error())
		return 0, fmt.Errorf("failed to record audit attempt: %w", err)
	}
	return entry.Seq, nil
}

func (a *Audit) RecordOutcome(ctx context.Context, handle model.AuditHandle, status int) error {
	if err := a.store.RecordOutcome(ctx, handle, status); err != nil {
		a.logger.Error("Audit service: failed to record outcome",
			"seq", int64(handle),
			"status", status,
			"error", err.Error())
		return fmt.Errorf("failed to record audit outcome: %w", err)
	}
	return nil
}

// List returns entries after filter.AfterSeq to a configured auditor.
func (a *Audit) List(ctx context.Context, caller string, filter model.AuditFilter) ([]model.AuditEntry, error) {
	if !slices.Contains(a.auditors, caller) {
		return nil, model.ErrPermissionDenied
	}
	switch {
	case filter.Limit < 0:
		return nil, model.NewValidationError("limit", "limit must not be negative")
	case filter.Limit == 0:
		filter.Limit = defaultAuditListLimit
	case filter.Limit > maxAuditListLimit:
		filter.Limit = maxAuditListLimit
	}

	entries, err := a.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// sanitize makes a request string storable as text: invalid UTF-8 and NUL
// bytes become U+FFFD.
func sanitize(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	return strings.ReplaceAll(s, "\x00", "\uFFFD")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
