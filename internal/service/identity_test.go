package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophspace-server/internal/model"
)

func TestIdentity_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "ok", username: "alice", password: "password1"},
		{name: "digits after letter", username: "a1", password: "password1"},
		{name: "too short username", username: "a", password: "password1", wantErr: model.ErrValidation},
		{name: "leading digit", username: "1alice", password: "password1", wantErr: model.ErrValidation},
		{name: "underscore", username: "al_ice", password: "password1", wantErr: model.ErrValidation},
		{name: "too long username", username: "a" + strings.Repeat("b", 30), password: "password1", wantErr: model.ErrValidation},
		{name: "short password", username: "alice", password: "short", wantErr: model.ErrValidation},
		{name: "long password", username: "alice", password: strings.Repeat("p", 73), wantErr: model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)

			user, err := env.identity.Register(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.username, user.ID)
			assert.NotEqual(t, []byte(tt.password), user.PasswordHash)
		})
	}
}

func TestIdentity_Register_Duplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.identity.Register(ctx, "alice", "password1")
	require.NoError(t, err)
	_, err = env.identity.Register(ctx, "alice", "password2")
	require.ErrorIs(t, err, model.ErrConflict)
}

func TestIdentity_Authenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.identity.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	userID, err := env.identity.Authenticate(ctx, "alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)

	_, err = env.identity.Authenticate(ctx, "alice", "password2")
	require.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = env.identity.Authenticate(ctx, "nobody", "password1")
	require.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestIdentity_RotatePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.identity.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	err = env.identity.RotatePassword(ctx, "alice", "wrong-pass", "password2")
	require.ErrorIs(t, err, model.ErrUnauthenticated)

	err = env.identity.RotatePassword(ctx, "alice", "password1", "short")
	require.ErrorIs(t, err, model.ErrValidation)

	require.NoError(t, env.identity.RotatePassword(ctx, "alice", "password1", "password2"))

	_, err = env.identity.Authenticate(ctx, "alice", "password1")
	require.ErrorIs(t, err, model.ErrUnauthenticated)
	_, err = env.identity.Authenticate(ctx, "alice", "password2")
	require.NoError(t, err)
}
