package memory

import (
	"context"
	"time"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.SpaceStore = (*SpaceRepository)(nil)

type SpaceRepository struct {
	db *DB
}

func NewSpaceRepository(db *DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

func (r *SpaceRepository) Create(ctx context.Context, space model.Space) (model.Space, error) {
	var saved model.Space
	err := r.db.do(ctx, func(s *state) error {
		if _, ok := s.spaceNames[space.Name]; ok {
			return model.ErrConflict
		}
		r.db.spaceSeq++
		saved = model.Space{
			ID:        r.db.spaceSeq,
			Name:      space.Name,
			Owner:     space.Owner,
			CreatedAt: time.Now(),
		}
		s.spaces[saved.ID] = saved
		s.spaceNames[saved.Name] = saved.ID
		return nil
	})
	return saved, err
}

func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (model.Space, error) {
	var space model.Space
	err := r.db.do(ctx, func(s *state) error {
		sp, ok := s.spaces[id]
		if !ok {
			return model.ErrNotFound
		}
		space = sp
		return nil
	})
	return space, err
}
