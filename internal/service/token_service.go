package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

// Authenticator verifies credentials and returns the user id.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// Session is an issued access token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService exchanges credentials for access tokens and resolves tokens
// back to users. It composes an Authenticator and the TokenManager.
type TokenService struct {
	auth    Authenticator
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(auth Authenticator, manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{auth: auth, manager: manager, logger: logger}
}

func (s *TokenService) Login(ctx context.Context, username, password string) (Session, error) {
	userID, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return Session{}, err
	}
	return s.Issue(userID)
}

func (s *TokenService) Issue(userID string) (Session, error) {
	token, expiresAt, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		s.logger.Error("Token service: failed to issue access token",
			"user_id", userID,
			"error", err.Error())
		return Session{}, fmt.Errorf("issue access: %w", err)
	}
	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

// GetUserID resolves an access token. Invalid tokens yield model.ErrUnauthenticated.
func (s *TokenService) GetUserID(ctx context.Context, token string) (string, error) {
	userID, err := s.manager.ParseAccessToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrUnauthenticated, err)
	}
	return userID, nil
}
