package postgres

import (
	"context"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (user_id, pw_hash)
			  VALUES ($1, $2)
			  RETURNING user_id, pw_hash, created_at, updated_at`

	var saved model.User
	err := r.db.conn(ctx).QueryRow(ctx, query, user.ID, user.PasswordHash).Scan(
		&saved.ID, &saved.PasswordHash, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.User{}, wrapError(err, "create user")
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	query := `SELECT user_id, pw_hash, created_at, updated_at FROM users WHERE user_id = $1`

	var user model.User
	err := r.db.conn(ctx).QueryRow(ctx, query, id).Scan(
		&user.ID, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, wrapError(err, "get user by id")
	}

	return user, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id string, hash []byte) error {
	query := `UPDATE users SET pw_hash = $2, updated_at = now() WHERE user_id = $1`

	tag, err := r.db.conn(ctx).Exec(ctx, query, id, hash)
	if err != nil {
		return wrapError(err, "update password hash")
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
