package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.PermissionStore = (*PermissionRepository)(nil)

type PermissionRepository struct {
	db *Connection
}

func NewPermissionRepository(db *Connection) *PermissionRepository {
	return &PermissionRepository{
		db: db,
	}
}

func (r *PermissionRepository) Upsert(ctx context.Context, grant model.Grant) (model.Grant, error) {
	if !grant.Capabilities.Valid() {
		return model.Grant{}, model.NewValidationError("capabilities", "malformed capability set")
	}

	query := `INSERT INTO permissions (space_id, user_id, perms, updated_at)
			  VALUES ($1, $2, $3, now())
			  ON CONFLICT (space_id, user_id)
			  DO UPDATE SET perms = EXCLUDED.perms, updated_at = EXCLUDED.updated_at
			  RETURNING space_id, user_id, perms, updated_at`

	row := r.db.conn(ctx).QueryRow(ctx, query, grant.SpaceID, grant.UserID, grant.Capabilities.Code())
	saved, err := scanGrant(row)
	if err != nil {
		return model.Grant{}, wrapError(err, "upsert grant")
	}

	return saved, nil
}

// Get locks the row FOR SHARE: a concurrent revoke blocks until the reading
// transaction commits, so a guarded effect never outlives its grant.
func (r *PermissionRepository) Get(ctx context.Context, spaceID int64, userID string) (model.Grant, error) {
	query := `SELECT space_id, user_id, perms, updated_at
			  FROM permissions
			  WHERE space_id = $1 AND user_id = $2
			  FOR SHARE`

	grant, err := scanGrant(r.db.conn(ctx).QueryRow(ctx, query, spaceID, userID))
	if err != nil {
		return model.Grant{}, wrapError(err, "get grant")
	}

	return grant, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, spaceID int64, userID string) error {
	query := `DELETE FROM permissions WHERE space_id = $1 AND user_id = $2`

	tag, err := r.db.conn(ctx).Exec(ctx, query, spaceID, userID)
	if err != nil {
		return wrapError(err, "delete grant")
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *PermissionRepository) ListBySpace(ctx context.Context, spaceID int64) ([]model.Grant, error) {
	query := `SELECT space_id, user_id, perms, updated_at
			  FROM permissions
			  WHERE space_id = $1
			  ORDER BY user_id`

	rows, err := r.db.conn(ctx).Query(ctx, query, spaceID)
	if err != nil {
		return nil, wrapError(err, "list grants")
	}
	defer rows.Close()

	grants := make([]model.Grant, 0)
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, wrapError(err, "scan grant")
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "iterate grants")
	}

	return grants, nil
}

func scanGrant(row pgx.Row) (model.Grant, error) {
	var (
		grant model.Grant
		code  int16
	)
	if err := row.Scan(&grant.SpaceID, &grant.UserID, &code, &grant.UpdatedAt); err != nil {
		return model.Grant{}, err
	}

	caps, err := model.CapabilitySetFromCode(code)
	if err != nil {
		return model.Grant{}, fmt.Errorf("space %d user %s: %w", grant.SpaceID, grant.UserID, err)
	}
	grant.Capabilities = caps

	return grant, nil
}
