// Package response writes JSON bodies and maps domain errors to HTTP statuses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/gophspace-server/internal/model"
)

const (
	MessageNotFound        = "resource not found"
	MessageConflict        = "resource already exists"
	MessageForbidden       = "permission denied"
	MessageUnauthenticated = "authentication required"
	MessageUnavailable     = "service temporarily unavailable"
	MessageInternal        = "internal server error"
	MessageBadRequest      = "invalid request body"
	MessageTooManyRequests = "too many requests"
	MessageContentType     = "only support application/json content type"
	MessageNotAllowed      = "method not allowed"

	authenticateChallenge = `Basic realm="/", charset="UTF-8"`
)

// Error is the body of every error response.
type Error struct {
	Message string `json:"message"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes an error body with a fixed message.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", authenticateChallenge)
	}
	WriteJSON(w, status, Error{Message: message})
}

// WriteError maps err to a status and writes it. Denials carry one message
// whatever their reason, so a response never reveals whether a grant exists.
func WriteError(w http.ResponseWriter, err error) {
	status, message := Status(err)
	WriteMessage(w, status, message)
}

// Status returns the HTTP status and public message for err.
func Status(err error) (int, string) {
	var validation *model.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, MessageBadRequest
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized, MessageUnauthenticated
	case errors.Is(err, model.ErrPermissionDenied):
		return http.StatusForbidden, MessageForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, MessageNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, MessageConflict
	case errors.Is(err, model.ErrUnavailable):
		return http.StatusServiceUnavailable, MessageUnavailable
	default:
		return http.StatusInternalServerError, MessageInternal
	}
}
