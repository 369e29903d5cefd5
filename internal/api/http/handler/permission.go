package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/gophspace-server/internal/api/http/response"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

// PermissionService defines grant lifecycle operations.
type PermissionService interface {
	Grant(ctx context.Context, spaceID int64, grantor, grantee string, caps model.CapabilitySet) (model.Grant, error)
	Revoke(ctx context.Context, spaceID int64, actor, grantee string) error
	List(ctx context.Context, spaceID int64, actor string) ([]model.Grant, error)
	Get(ctx context.Context, spaceID int64, actor, userID string) (model.Grant, error)
}

// Permission handles grant endpoints of a space.
type Permission struct {
	permissions    PermissionService
	contextManager ContextManager
	logger         *logger.Logger
}

// NewPermission creates a new Permission handler.
func NewPermission(permissions PermissionService, contextManager ContextManager, logger *logger.Logger) *Permission {
	return &Permission{
		permissions:    permissions,
		contextManager: contextManager,
		logger:         logger,
	}
}

type grantRequest struct {
	Capabilities []string `json:"capabilities"`
}

type grantResponse struct {
	SpaceID      int64    `json:"space_id"`
	UserID       string   `json:"user_id"`
	Capabilities []string `json:"capabilities"`
	UpdatedAt    string   `json:"updated_at"`
}

type grantsResponse struct {
	Grants []grantResponse `json:"grants"`
}

func newGrantResponse(g model.Grant) grantResponse {
	return grantResponse{
		SpaceID:      g.SpaceID,
		UserID:       g.UserID,
		Capabilities: g.Capabilities.Names(),
		UpdatedAt:    g.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Grant sets the capabilities of a user in the space.
func (h *Permission) Grant(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.contextManager.GetUserIDFromContext(r.Context())

	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		response.WriteError(w, err)
		return
	}
	grantee := chi.URLParam(r, "userID")

	var req grantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.WriteError(w, err)
		return
	}
	caps, err := model.ParseCapabilitySet(req.Capabilities)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	grant, err := h.permissions.Grant(r.Context(), spaceID, actor, grantee, caps)
	if err != nil {
		fail(w, h.logger, "Permission handler: grant failed", err, "space_id", spaceID, "grantee", grantee)
		return
	}

	h.logger.Info("Permission handler: capabilities granted",
		"space_id", spaceID,
		"grantor", actor,
		"grantee", grantee,
		"capabilities", caps.String())
	response.WriteJSON(w, http.StatusOK, newGrantResponse(grant))
}

// Revoke removes a user's grant.
func (h *Permission) Revoke(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.contextManager.GetUserIDFromContext(r.Context())

	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		response.WriteError(w, err)
		return
	}
	grantee := chi.URLParam(r, "userID")

	if err := h.permissions.Revoke(r.Context(), spaceID, actor, grantee); err != nil {
		fail(w, h.logger, "Permission handler: revoke failed", err, "space_id", spaceID, "grantee", grantee)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns every grant of the space.
func (h *Permission) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.contextManager.GetUserIDFromContext(r.Context())

	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		response.WriteError(w, err)
		return
	}

	grants, err := h.permissions.List(r.Context(), spaceID, actor)
	if err != nil {
		fail(w, h.logger, "Permission handler: list failed", err, "space_id", spaceID)
		return
	}

	resp := grantsResponse{Grants: make([]grantResponse, 0, len(grants))}
	for _, g := range grants {
		resp.Grants = append(resp.Grants, newGrantResponse(g))
	}
	response.WriteJSON(w, http.StatusOK, resp)
}

// Get returns one user's grant.
func (h *Permission) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.contextManager.GetUserIDFromContext(r.Context())

	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		response.WriteError(w, err)
		return
	}
	userID := chi.URLParam(r, "userID")

	grant, err := h.permissions.Get(r.Context(), spaceID, actor, userID)
	if err != nil {
		fail(w, h.logger, "Permission handler: get failed", err, "space_id", spaceID, "user_id", userID)
		return
	}

	response.WriteJSON(w, http.StatusOK, newGrantResponse(grant))
}
