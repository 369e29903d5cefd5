package model

import (
	"context"
	"time"
)

// SpaceStore defines persistence operations for spaces.
type SpaceStore interface {
	// Create inserts a space and returns ErrConflict when the name is taken.
	Create(ctx context.Context, space Space) (Space, error)
	GetByID(ctx context.Context, id int64) (Space, error)
}

// Space is a named, owned container of messages and grants.
type Space struct {
	ID        int64
	Name      string
	Owner     string
	CreatedAt time.Time
}
