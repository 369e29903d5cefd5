// Package cache holds read-through caches in front of model stores.
package cache

import (
	"context"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.SpaceStore = (*SpaceRepository)(nil)

// SpaceRepository caches spaces by id. Spaces are never renamed, reassigned or
// deleted, so a cached entry cannot go stale. Misses are not cached.
type SpaceRepository struct {
	next  model.SpaceStore
	cache *lru.Cache[int64, model.Space]
	group singleflight.Group
}

func NewSpaceRepository(next model.SpaceStore, size int) (*SpaceRepository, error) {
	c, err := lru.New[int64, model.Space](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create space cache: %w", err)
	}
	return &SpaceRepository{next: next, cache: c}, nil
}

// Create is not cached: the insert may belong to a transaction that rolls back.
func (r *SpaceRepository) Create(ctx context.Context, space model.Space) (model.Space, error) {
	return r.next.Create(ctx, space)
}

func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (model.Space, error) {
	if space, ok := r.cache.Get(id); ok {
		return space, nil
	}

	// Inside a transaction the row may be uncommitted, and joining a shared
	// load could wait on a reader blocked by this very transaction.
	if model.InTx(ctx) {
		return r.next.GetByID(ctx, id)
	}

	v, err, _ := r.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		space, err := r.next.GetByID(ctx, id)
		if err != nil {
			return model.Space{}, err
		}
		r.cache.Add(id, space)
		return space, nil
	})
	if err != nil {
		return model.Space{}, err
	}

	return v.(model.Space), nil
}
