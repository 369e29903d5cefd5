package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

type Space struct {
	spaces        model.SpaceStore
	users         model.UserStore
	access        *AccessControl
	maxNameLength int
	logger        *logger.Logger
}

func NewSpace(spaces model.SpaceStore, users model.UserStore, access *AccessControl, maxNameLength int, logger *logger.Logger) *Space {
	return &Space{
		spaces:        spaces,
		users:         users,
		access:        access,
		maxNameLength: maxNameLength,
		logger:        logger,
	}
}

// Create registers a space named name owned by owner. Names are compared
// exactly; a taken name yields model.ErrConflict.
func (s *Space) Create(ctx context.Context, name, owner string) (model.Space, error) {
	if strings.TrimSpace(name) == "" {
		return model.Space{}, model.NewValidationError("name", "space name must not be empty")
	}
	if strings.ContainsRune(name, 0) || !utf8.ValidString(name) {
		return model.Space{}, model.NewValidationError("name", "space name must be valid UTF-8 without NUL characters")
	}
	if utf8.RuneCountInString(name) > s.maxNameLength {
		return model.Space{}, model.NewValidationError("name",
			fmt.Sprintf("space name must be at most %d characters", s.maxNameLength))
	}

	if _, err := s.users.GetByID(ctx, owner); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Space{}, model.NewValidationError("owner", "owner is not a known user")
		}
		return model.Space{}, fmt.Errorf("failed to get owner: %w", err)
	}

	space, err := s.spaces.Create(ctx, model.Space{Name: name, Owner: owner})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			s.logger.Info("Space service: name already taken",
				"name", name,
				"owner", owner)
			return model.Space{}, err
		}
		s.logger.Error("Space service: failed to create space",
			"name", name,
			"error", err.Error())
		return model.Space{}, fmt.Errorf("failed to create space: %w", err)
	}

	s.logger.Info("Space service: space created",
		"space_id", space.ID,
		"name", space.Name,
		"owner", space.Owner)

	return space, nil
}

// Get returns the space when userID may read it.
func (s *Space) Get(ctx context.Context, spaceID int64, userID string) (model.Space, error) {
	return s.access.Authorize(ctx, spaceID, userID, model.CapabilityRead)
}
