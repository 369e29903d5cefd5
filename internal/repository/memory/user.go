package memory

import (
	"context"
	"time"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	var saved model.User
	err := r.db.do(ctx, func(s *state) error {
		if _, ok := s.users[user.ID]; ok {
			return model.ErrConflict
		}
		now := time.Now()
		saved = model.User{
			ID:           user.ID,
			PasswordHash: append([]byte(nil), user.PasswordHash...),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		s.users[user.ID] = saved
		return nil
	})
	return saved, err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := r.db.do(ctx, func(s *state) error {
		u, ok := s.users[id]
		if !ok {
			return model.ErrNotFound
		}
		user = u
		return nil
	})
	return user, err
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id string, hash []byte) error {
	return r.db.do(ctx, func(s *state) error {
		u, ok := s.users[id]
		if !ok {
			return model.ErrNotFound
		}
		u.PasswordHash = append([]byte(nil), hash...)
		u.UpdatedAt = time.Now()
		s.users[id] = u
		return nil
	})
}
