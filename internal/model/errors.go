package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced space, user, grant, message or audit entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrPermissionDenied is returned when a capability check fails.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnavailable marks a transient datastore failure that the caller may retry.
	ErrUnavailable = errors.New("store unavailable")
	// ErrUnauthenticated is returned when credentials are missing or wrong.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrAuditEntryClosed is returned when an outcome is recorded twice for the same entry.
	ErrAuditEntryClosed = errors.New("audit entry already closed")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// AccessDeniedError carries the diagnostic reason of a denied capability check.
type AccessDeniedError struct {
	Reason DenyReason
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Reason)
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrPermissionDenied
}
