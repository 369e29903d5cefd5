package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecision_Err(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Allow().Err())
	assert.ErrorIs(t, Deny(ReasonNotFound).Err(), ErrNotFound)

	for _, reason := range []DenyReason{ReasonNoGrant, ReasonInsufficientCapability} {
		err := Deny(reason).Err()
		require.ErrorIs(t, err, ErrPermissionDenied)

		var denied *AccessDeniedError
		require.True(t, errors.As(err, &denied))
		assert.Equal(t, reason, denied.Reason)
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewValidationError("name", "space name is required")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "space name is required", err.Error())
}
