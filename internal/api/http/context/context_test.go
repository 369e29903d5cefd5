package context

import (
	stdctx "context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_SetAndGetUserID(t *testing.T) {
	t.Parallel()

	m := NewManager()
	ctx := m.SetUserIDToContext(stdctx.Background(), "alice")

	got, ok := m.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice", got)
}

func TestManager_GetUserID_NotFound(t *testing.T) {
	t.Parallel()

	m := NewManager()
	_, ok := m.GetUserIDFromContext(stdctx.Background())
	assert.False(t, ok)

	_, ok = m.GetUserIDFromContext(m.SetUserIDToContext(stdctx.Background(), ""))
	assert.False(t, ok)
}

func TestManager_AuthError(t *testing.T) {
	t.Parallel()

	m := NewManager()
	assert.NoError(t, m.GetAuthErrorFromContext(stdctx.Background()))

	want := errors.New("bad token")
	ctx := m.SetAuthErrorToContext(stdctx.Background(), want)
	assert.Equal(t, want, m.GetAuthErrorFromContext(ctx))
}

func TestManager_Throttled(t *testing.T) {
	t.Parallel()

	m := NewManager()
	assert.False(t, m.IsThrottled(stdctx.Background()))
	assert.True(t, m.IsThrottled(m.SetThrottledToContext(stdctx.Background())))
}
