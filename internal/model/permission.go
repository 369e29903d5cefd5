package model

import (
	"context"
	"time"
)

// PermissionStore defines persistence operations for grants.
type PermissionStore interface {
	// Upsert inserts the grant or replaces the capability set of the existing one.
	Upsert(ctx context.Context, grant Grant) (Grant, error)
	// Get reads a grant. Inside a transaction the row stays share-locked until commit.
	Get(ctx context.Context, spaceID int64, userID string) (Grant, error)
	Delete(ctx context.Context, spaceID int64, userID string) error
	ListBySpace(ctx context.Context, spaceID int64) ([]Grant, error)
}

// Grant is the capability set a user holds in a space.
type Grant struct {
	SpaceID      int64
	UserID       string
	Capabilities CapabilitySet
	UpdatedAt    time.Time
}
