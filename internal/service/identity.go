package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]{1,29}$`)

// Identity registers users and verifies their credentials.
type Identity struct {
	users  model.UserStore
	cost   int
	dummy  []byte
	logger *logger.Logger
}

func NewIdentity(users model.UserStore, cost int, logger *logger.Logger) (*Identity, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("gophspace-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &Identity{users: users, cost: cost, dummy: dummy, logger: logger}, nil
}

func validatePassword(field, password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return model.NewValidationError(field, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return model.NewValidationError(field, fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

func (i *Identity) Register(ctx context.Context, username, password string) (model.User, error) {
	if !usernamePattern.MatchString(username) {
		return model.User{}, model.NewValidationError("username",
			"username must start with a letter and contain 2 to 30 letters or digits")
	}
	if err := validatePassword("password", password); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), i.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := i.users.Create(ctx, model.User{ID: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			i.logger.Info("Identity service: username already taken",
				"username", username)
			return model.User{}, err
		}
		i.logger.Error("Identity service: failed to create user",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	i.logger.Info("Identity service: user registered",
		"username", username)

	return user, nil
}

// Authenticate returns the user id for valid credentials and
// model.ErrUnauthenticated otherwise. Unknown users cost one bcrypt
// comparison like known ones.
func (i *Identity) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := i.users.GetByID(ctx, username)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	hash := user.PasswordHash
	if err != nil {
		hash = i.dummy
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil || err != nil {
		return "", model.ErrUnauthenticated
	}

	return user.ID, nil
}

// RotatePassword replaces the credential of userID after checking the current one.
func (i *Identity) RotatePassword(ctx context.Context, userID, current, next string) error {
	if err := validatePassword("new_password", next); err != nil {
		return err
	}
	if _, err := i.Authenticate(ctx, userID, current); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), i.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := i.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	i.logger.Info("Identity service: password rotated",
		"user_id", userID)

	return nil
}
