package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/gophspace-server/internal/api/http/response"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

// AuditService reads the audit log.
type AuditService interface {
	List(ctx context.Context, caller string, filter model.AuditFilter) ([]model.AuditEntry, error)
}

// Audit handles the audit read endpoint.
type Audit struct {
	audit          AuditService
	contextManager ContextManager
	logger         *logger.Logger
}

// NewAudit creates a new Audit handler.
func NewAudit(audit AuditService, contextManager ContextManager, logger *logger.Logger) *Audit {
	return &Audit{
		audit:          audit,
		contextManager: contextManager,
		logger:         logger,
	}
}

type auditResponse struct {
	Entries []model.AuditEntry `json:"entries"`
}

// List returns entries after the `after` sequence number.
func (h *Audit) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := h.contextManager.GetUserIDFromContext(r.Context())

	after, err := queryInt(r, "after")
	if err == nil && after < 0 {
		err = model.NewValidationError("after", "after must not be negative")
	}
	if err != nil {
		response.WriteError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		response.WriteError(w, err)
		return
	}

	filter := model.AuditFilter{AfterSeq: model.AuditHandle(after), Limit: limit}
	if user := r.URL.Query().Get("user"); user != "" {
		filter.UserID = &user
	}

	entries, err := h.audit.List(r.Context(), caller, filter)
	if err != nil {
		fail(w, h.logger, "Audit handler: list failed", err, "caller", caller)
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}

	response.WriteJSON(w, http.StatusOK, auditResponse{Entries: entries})
}
