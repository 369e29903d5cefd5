package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/gophspace-server/internal/api/http/response"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

// SpaceService defines space registry operations.
type SpaceService interface {
	Create(ctx context.Context, name, owner string) (model.Space, error)
	Get(ctx context.Context, spaceID int64, userID string) (model.Space, error)
}

// Space handles space endpoints.
type Space struct {
	spaces         SpaceService
	contextManager ContextManager
	logger         *logger.Logger
}

// NewSpace creates a new Space handler.
func NewSpace(spaces SpaceService, contextManager ContextManager, logger *logger.Logger) *Space {
	return &Space{
		spaces:         spaces,
		contextManager: contextManager,
		logger:         logger,
	}
}

type createSpaceRequest struct {
	Name string `json:"name"`
}

type spaceResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
	URI   string `json:"uri"`
}

func newSpaceResponse(s model.Space) spaceResponse {
	return spaceResponse{ID: s.ID, Name: s.Name, Owner: s.Owner, URI: spaceURI(s.ID)}
}

// Create registers a space owned by the caller.
func (h *Space) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.contextManager.GetUserIDFromContext(r.Context())

	var req createSpaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	space, err := h.spaces.Create(r.Context(), req.Name, userID)
	if err != nil {
		fail(w, h.logger, "Space handler: create failed", err, "user_id", userID)
		return
	}

	resp := newSpaceResponse(space)
	w.Header().Set("Location", resp.URI)
	response.WriteJSON(w, http.StatusCreated, resp)
}

// Get returns a space the caller may read.
func (h *Space) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.contextManager.GetUserIDFromContext(r.Context())

	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		response.WriteError(w, err)
		return
	}

	space, err := h.spaces.Get(r.Context(), spaceID, userID)
	if err != nil {
		fail(w, h.logger, "Space handler: get failed", err, "space_id", spaceID)
		return
	}

	response.WriteJSON(w, http.StatusOK, newSpaceResponse(space))
}
