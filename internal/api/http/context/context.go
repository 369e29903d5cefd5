package context

import (
	"context"
)

type contextKey int

const (
	userIDKey contextKey = iota
	authErrorKey
	throttledKey
)

// Manager stores the authenticated user of an HTTP request in its context.
type Manager struct{}

// NewManager creates a new HTTP context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a copy of ctx carrying userID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext returns the user ID set by SetUserIDToContext.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// SetAuthErrorToContext records why presented credentials were rejected.
// The request goes on anonymously so it can still be audited.
func (m *Manager) SetAuthErrorToContext(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, authErrorKey, err)
}

// GetAuthErrorFromContext returns the error set by SetAuthErrorToContext.
func (m *Manager) GetAuthErrorFromContext(ctx context.Context) error {
	err, _ := ctx.Value(authErrorKey).(error)
	return err
}

// SetThrottledToContext marks the request as over its client address budget.
func (m *Manager) SetThrottledToContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, throttledKey, true)
}

// IsThrottled reports whether SetThrottledToContext marked ctx.
func (m *Manager) IsThrottled(ctx context.Context) bool {
	throttled, _ := ctx.Value(throttledKey).(bool)
	return throttled
}
