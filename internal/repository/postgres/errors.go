package postgres

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/gophspace-server/internal/model"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeTooManyConnections   = "53300"
	codeAdminShutdown        = "57P01"
	classConnectionException = "08"
)

// wrapError maps driver errors onto model errors, keeping the original in the chain.
func wrapError(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("failed to %s: %w: %w", action, model.ErrConflict, err)
		case pgErr.Code == codeForeignKeyViolation:
			return fmt.Errorf("failed to %s: %w: %w", action, model.ErrNotFound, err)
		case pgErr.Code == codeSerializationFailure,
			pgErr.Code == codeDeadlockDetected,
			pgErr.Code == codeTooManyConnections,
			pgErr.Code == codeAdminShutdown,
			strings.HasPrefix(pgErr.Code, classConnectionException):
			return fmt.Errorf("failed to %s: %w: %w", action, model.ErrUnavailable, err)
		}
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	if isTransient(err) {
		return fmt.Errorf("failed to %s: %w: %w", action, model.ErrUnavailable, err)
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}

func isTransient(err error) bool {
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
