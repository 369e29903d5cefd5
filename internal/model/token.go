package model

import "time"

// TokenManager generates and validates access tokens.
type TokenManager interface {
	GenerateAccessToken(userID string) (token string, expiresAt time.Time, err error)
	ParseAccessToken(token string) (string, error)
}
