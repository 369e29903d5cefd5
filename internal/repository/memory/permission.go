package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.PermissionStore = (*PermissionRepository)(nil)

type PermissionRepository struct {
	db *DB
}

func NewPermissionRepository(db *DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Upsert(ctx context.Context, grant model.Grant) (model.Grant, error) {
	if !grant.Capabilities.Valid() {
		return model.Grant{}, model.NewValidationError("capabilities", "malformed capability set")
	}

	var saved model.Grant
	err := r.db.do(ctx, func(s *state) error {
		if _, ok := s.spaces[grant.SpaceID]; !ok {
			return model.ErrNotFound
		}
		if _, ok := s.users[grant.UserID]; !ok {
			return model.ErrNotFound
		}
		saved = model.Grant{
			SpaceID:      grant.SpaceID,
			UserID:       grant.UserID,
			Capabilities: grant.Capabilities,
			UpdatedAt:    time.Now(),
		}
		s.grants[grantKey{spaceID: grant.SpaceID, userID: grant.UserID}] = saved
		return nil
	})
	return saved, err
}

func (r *PermissionRepository) Get(ctx context.Context, spaceID int64, userID string) (model.Grant, error) {
	var grant model.Grant
	err := r.db.do(ctx, func(s *state) error {
		g, ok := s.grants[grantKey{spaceID: spaceID, userID: userID}]
		if !ok {
			return model.ErrNotFound
		}
		grant = g
		return nil
	})
	return grant, err
}

func (r *PermissionRepository) Delete(ctx context.Context, spaceID int64, userID string) error {
	return r.db.do(ctx, func(s *state) error {
		key := grantKey{spaceID: spaceID, userID: userID}
		if _, ok := s.grants[key]; !ok {
			return model.ErrNotFound
		}
		delete(s.grants, key)
		return nil
	})
}

func (r *PermissionRepository) ListBySpace(ctx context.Context, spaceID int64) ([]model.Grant, error) {
	grants := make([]model.Grant, 0)
	err := r.db.do(ctx, func(s *state) error {
		for key, g := range s.grants {
			if key.spaceID == spaceID {
				grants = append(grants, g)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(grants, func(i, j int) bool { return grants[i].UserID < grants[j].UserID })
	return grants, nil
}
