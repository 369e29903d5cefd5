package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

// DecisionObserver receives every access decision, e.g. for metrics.
type DecisionObserver interface {
	ObserveDecision(capability model.Capability, decision model.Decision)
}

// AccessControl decides whether a user may exercise a capability in a space.
// Called with a transactional context it reads the grant under a share lock,
// so check and effect of a guarded operation see the same grant.
type AccessControl struct {
	spaces   model.SpaceStore
	grants   model.PermissionStore
	observer DecisionObserver
	logger   *logger.Logger
}

func NewAccessControl(spaces model.SpaceStore, grants model.PermissionStore, observer DecisionObserver, logger *logger.Logger) *AccessControl {
	return &AccessControl{
		spaces:   spaces,
		grants:   grants,
		observer: observer,
		logger:   logger,
	}
}

// CheckAccess returns the decision for (space, user, capability). The error is
// only set when the stores fail; denials are reported through the decision.
func (a *AccessControl) CheckAccess(ctx context.Context, spaceID int64, userID string, capability model.Capability) (model.Decision, error) {
	_, decision, err := a.check(ctx, spaceID, userID, capability)
	return decision, err
}

// Authorize is CheckAccess for guarded operations: a denial becomes an error
// and the space is returned on success.
func (a *AccessControl) Authorize(ctx context.Context, spaceID int64, userID string, capability model.Capability) (model.Space, error) {
	space, decision, err := a.check(ctx, spaceID, userID, capability)
	if err != nil {
		return model.Space{}, err
	}
	if err := decision.Err(); err != nil {
		return model.Space{}, err
	}
	return *space, nil
}

func (a *AccessControl) check(ctx context.Context, spaceID int64, userID string, capability model.Capability) (*model.Space, model.Decision, error) {
	var space *model.Space
	s, err := a.spaces.GetByID(ctx, spaceID)
	switch {
	case err == nil:
		space = &s
	case errors.Is(err, model.ErrNotFound):
	default:
		return nil, model.Decision{}, fmt.Errorf("failed to get space: %w", err)
	}

	var grant *model.Grant
	if space != nil && space.Owner != userID {
		g, err := a.grants.Get(ctx, spaceID, userID)
		switch {
		case err == nil:
			grant = &g
		case errors.Is(err, model.ErrNotFound):
		default:
			return nil, model.Decision{}, fmt.Errorf("failed to get grant: %w", err)
		}
	}

	decision := Evaluate(space, grant, userID, capability)
	if a.observer != nil {
		a.observer.ObserveDecision(capability, decision)
	}
	if !decision.Allowed {
		a.logger.Debug("Access control: denied",
			"space_id", spaceID,
			"user_id", userID,
			"capability", capability.String(),
			"reason", decision.Reason.String())
	}

	return space, decision, nil
}

// Evaluate is the decision function. space is nil when it does not exist and
// grant is nil when the user holds none.
func Evaluate(space *model.Space, grant *model.Grant, userID string, capability model.Capability) model.Decision {
	if space == nil {
		return model.Deny(model.ReasonNotFound)
	}
	if space.Owner == userID {
		return model.Allow()
	}
	if grant == nil {
		return model.Deny(model.ReasonNoGrant)
	}
	if !grant.Capabilities.Has(capability) {
		return model.Deny(model.ReasonInsufficientCapability)
	}
	return model.Allow()
}
