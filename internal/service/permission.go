package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

// Permission manages grants. Every operation runs in one transaction so the
// grantor's own capabilities are checked against the state it writes to.
type Permission struct {
	tx     model.Transactor
	spaces model.SpaceStore
	users  model.UserStore
	grants model.PermissionStore
	logger *logger.Logger
}

func NewPermission(tx model.Transactor, spaces model.SpaceStore, users model.UserStore, grants model.PermissionStore, logger *logger.Logger) *Permission {
	return &Permission{
		tx:     tx,
		spaces: spaces,
		users:  users,
		grants: grants,
		logger: logger,
	}
}

// Grant sets the capability set of grantee in the space, replacing any
// previous set. The owner may grant anything. Anyone else must hold every
// requested capability and every capability the grantee holds now, so a
// grant can neither escalate nor strip rights beyond the grantor's own.
func (p *Permission) Grant(ctx context.Context, spaceID int64, grantor, grantee string, caps model.CapabilitySet) (model.Grant, error) {
	if !caps.Valid() {
		return model.Grant{}, model.NewValidationError("capabilities", "capability set must be a non-empty combination of read, write and delete")
	}

	var result model.Grant
	err := p.tx.WithinTx(ctx, func(ctx context.Context) error {
		space, err := p.space(ctx, spaceID)
		if err != nil {
			return err
		}
		if grantee == space.Owner {
			return model.NewValidationError("user", "the owner holds every capability implicitly")
		}

		if grantor != space.Owner {
			own, err := p.grantOf(ctx, spaceID, grantor)
			if err != nil {
				return err
			}
			if own == nil {
				return model.Deny(model.ReasonNoGrant).Err()
			}
			if !own.Capabilities.Contains(caps) {
				return model.Deny(model.ReasonInsufficientCapability).Err()
			}
			current, err := p.grantOf(ctx, spaceID, grantee)
			if err != nil {
				return err
			}
			if current != nil && !own.Capabilities.Contains(current.Capabilities) {
				return model.Deny(model.ReasonInsufficientCapability).Err()
			}
		}

		if _, err := p.users.GetByID(ctx, grantee); err != nil {
			return fmt.Errorf("failed to get grantee: %w", err)
		}

		result, err = p.grants.Upsert(ctx, model.Grant{SpaceID: spaceID, UserID: grantee, Capabilities: caps})
		if err != nil {
			return fmt.Errorf("failed to upsert grant: %w", err)
		}
		return nil
	})
	if err != nil {
		p.logger.Debug("Permission service: grant rejected",
			"space_id", spaceID,
			"grantor", grantor,
			"grantee", grantee,
			"error", err.Error())
		return model.Grant{}, err
	}

	p.logger.Info("Permission service: grant stored",
		"space_id", spaceID,
		"grantor", grantor,
		"grantee", grantee,
		"capabilities", caps.String())

	return result, nil
}

// Revoke deletes the grant of grantee. Only the owner may revoke.
func (p *Permission) Revoke(ctx context.Context, spaceID int64, actor, grantee string) error {
	err := p.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := p.requireOwner(ctx, spaceID, actor); err != nil {
			return err
		}
		if err := p.grants.Delete(ctx, spaceID, grantee); err != nil {
			return fmt.Errorf("failed to delete grant: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.logger.Info("Permission service: grant revoked",
		"space_id", spaceID,
		"actor", actor,
		"grantee", grantee)

	return nil
}

// List returns every grant of the space. Only the owner may list.
func (p *Permission) List(ctx context.Context, spaceID int64, actor string) ([]model.Grant, error) {
	var grants []model.Grant
	err := p.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := p.requireOwner(ctx, spaceID, actor); err != nil {
			return err
		}
		var err error
		grants, err = p.grants.ListBySpace(ctx, spaceID)
		if err != nil {
			return fmt.Errorf("failed to list grants: %w", err)
		}
		return nil
	})
	return grants, err
}

// Get returns the grant of userID. The owner may read any grant, other users
// only their own.
func (p *Permission) Get(ctx context.Context, spaceID int64, actor, userID string) (model.Grant, error) {
	var grant model.Grant
	err := p.tx.WithinTx(ctx, func(ctx context.Context) error {
		space, err := p.space(ctx, spaceID)
		if err != nil {
			return err
		}
		if actor != space.Owner && actor != userID {
			if err := p.denyNonOwner(ctx, spaceID, actor); err != nil {
				return err
			}
		}
		grant, err = p.grants.Get(ctx, spaceID, userID)
		if err != nil {
			return fmt.Errorf("failed to get grant: %w", err)
		}
		return nil
	})
	return grant, err
}

func (p *Permission) space(ctx context.Context, spaceID int64) (model.Space, error) {
	space, err := p.spaces.GetByID(ctx, spaceID)
	if err != nil {
		return model.Space{}, fmt.Errorf("failed to get space: %w", err)
	}
	return space, nil
}

func (p *Permission) requireOwner(ctx context.Context, spaceID int64, actor string) error {
	space, err := p.space(ctx, spaceID)
	if err != nil {
		return err
	}
	if actor == space.Owner {
		return nil
	}
	return p.denyNonOwner(ctx, spaceID, actor)
}

// denyNonOwner builds the denial for an owner-only operation, with the reason
// taken from the actor's own grant.
func (p *Permission) denyNonOwner(ctx context.Context, spaceID int64, actor string) error {
	own, err := p.grantOf(ctx, spaceID, actor)
	if err != nil {
		return err
	}
	if own == nil {
		return model.Deny(model.ReasonNoGrant).Err()
	}
	return model.Deny(model.ReasonInsufficientCapability).Err()
}

func (p *Permission) grantOf(ctx context.Context, spaceID int64, userID string) (*model.Grant, error) {
	g, err := p.grants.Get(ctx, spaceID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}
	return &g, nil
}
