package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.SpaceStore = (*SpaceRepository)(nil)

type SpaceRepository struct {
	db *Connection
}

func NewSpaceRepository(db *Connection) *SpaceRepository {
	return &SpaceRepository{
		db: db,
	}
}

// Create relies on the unique index over name: of two concurrent inserts of the
// same name the second one waits for the first and then inserts nothing.
func (r *SpaceRepository) Create(ctx context.Context, space model.Space) (model.Space, error) {
	query := `INSERT INTO spaces (name, owner)
			  VALUES ($1, $2)
			  ON CONFLICT (name) DO NOTHING
			  RETURNING space_id, name, owner, created_at`

	var saved model.Space
	err := r.db.conn(ctx).QueryRow(ctx, query, space.Name, space.Owner).Scan(
		&saved.ID, &saved.Name, &saved.Owner, &saved.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Space{}, model.ErrConflict
		}
		return model.Space{}, wrapError(err, "create space")
	}

	return saved, nil
}

func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (model.Space, error) {
	query := `SELECT space_id, name, owner, created_at FROM spaces WHERE space_id = $1`

	var space model.Space
	err := r.db.conn(ctx).QueryRow(ctx, query, id).Scan(
		&space.ID, &space.Name, &space.Owner, &space.CreatedAt,
	)
	if err != nil {
		return model.Space{}, wrapError(err, "get space by id")
	}

	return space, nil
}
