package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	httpctx "github.com/dtroode/gophspace-server/internal/api/http/context"
	"github.com/dtroode/gophspace-server/internal/api/http/response"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

// Authenticator verifies Basic credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (string, error)
}

// Identify resolves the Authorization header to a user. It never rejects a
// request: rejected credentials are kept in the context for RequireAuth, so
// the audit log still sees the request. Throttled requests stay anonymous.
type Identify struct {
	authenticator  Authenticator
	tokenService   TokenService
	contextManager *httpctx.Manager
	logger         *logger.Logger
}

func NewIdentify(authenticator Authenticator, tokenService TokenService, contextManager *httpctx.Manager, logger *logger.Logger) *Identify {
	return &Identify{
		authenticator:  authenticator,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (m *Identify) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" || m.contextManager.IsThrottled(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		userID, err := m.resolve(r)
		if err != nil {
			if !errors.Is(err, model.ErrUnauthenticated) {
				m.logger.Error("HTTP identify: failed to verify credentials",
					"path", r.URL.Path,
					"error", err.Error())
			}
			ctx = m.contextManager.SetAuthErrorToContext(ctx, err)
		} else {
			ctx = m.contextManager.SetUserIDToContext(ctx, userID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Identify) resolve(r *http.Request) (string, error) {
	if username, password, ok := r.BasicAuth(); ok {
		return m.authenticator.Authenticate(r.Context(), username, password)
	}

	scheme, token, _ := strings.Cut(r.Header.Get("Authorization"), " ")
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", model.ErrUnauthenticated
	}
	return m.tokenService.GetUserID(r.Context(), token)
}

// RequireAuth rejects requests without an identified user.
type RequireAuth struct {
	contextManager *httpctx.Manager
}

func NewRequireAuth(contextManager *httpctx.Manager) *RequireAuth {
	return &RequireAuth{contextManager: contextManager}
}

func (m *RequireAuth) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := m.contextManager.GetUserIDFromContext(ctx); ok {
			next.ServeHTTP(w, r)
			return
		}

		// A store failure while checking credentials is not the caller's fault.
		if err := m.contextManager.GetAuthErrorFromContext(ctx); err != nil && !errors.Is(err, model.ErrUnauthenticated) {
			response.WriteError(w, err)
			return
		}
		response.WriteMessage(w, http.StatusUnauthorized, response.MessageUnauthenticated)
	})
}
