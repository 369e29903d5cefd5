package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/gophspace-server/internal/api/http/response"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

const maxBodyBytes = 64 << 10

// ContextManager reads the authenticated user from request context.
type ContextManager interface {
	GetUserIDFromContext(ctx context.Context) (string, bool)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", model.ErrValidation, err)
	}
	return nil
}

// pathID parses a numeric route parameter. Identifiers that cannot exist
// are reported as missing resources.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.ErrNotFound
	}
	return id, nil
}

func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, model.NewValidationError(name, name+" must be an RFC 3339 timestamp")
	}
	return &t, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError(name, name+" must be an integer")
	}
	return n, nil
}

func spaceURI(id int64) string {
	return fmt.Sprintf("/spaces/%d", id)
}

func messageURI(spaceID, id int64) string {
	return fmt.Sprintf("/spaces/%d/messages/%d", spaceID, id)
}

// fail writes err, logging it when it is not the caller's fault.
func fail(w http.ResponseWriter, log *logger.Logger, msg string, err error, args ...any) {
	status, _ := response.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error(msg, append(args, "error", err.Error())...)
	}
	response.WriteError(w, err)
}
