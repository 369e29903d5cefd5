package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/gophspace-server/internal/api/http/response"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
	"github.com/dtroode/gophspace-server/internal/service"
)

// IdentityService defines account operations.
type IdentityService interface {
	Register(ctx context.Context, username, password string) (model.User, error)
	RotatePassword(ctx context.Context, userID, current, next string) error
}

// SessionService exchanges credentials for access tokens.
type SessionService interface {
	Login(ctx context.Context, username, password string) (service.Session, error)
}

// User handles account and session endpoints.
type User struct {
	identity       IdentityService
	sessions       SessionService
	contextManager ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(identity IdentityService, sessions SessionService, contextManager ContextManager, logger *logger.Logger) *User {
	return &User{
		identity:       identity,
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	Username string `json:"username"`
}

// Register creates an account.
func (h *User) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	user, err := h.identity.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		fail(w, h.logger, "User handler: registration failed", err, "username", req.Username)
		return
	}

	h.logger.Info("User handler: user registered", "user_id", user.ID)
	response.WriteJSON(w, http.StatusCreated, userResponse{Username: user.ID})
}

type rotatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// RotatePassword replaces the caller's password.
func (h *User) RotatePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.contextManager.GetUserIDFromContext(r.Context())

	var req rotatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	if err := h.identity.RotatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		fail(w, h.logger, "User handler: password rotation failed", err, "user_id", userID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// CreateSession issues an access token for valid credentials.
func (h *User) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	session, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		fail(w, h.logger, "User handler: login failed", err, "username", req.Username)
		return
	}

	response.WriteJSON(w, http.StatusCreated, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
