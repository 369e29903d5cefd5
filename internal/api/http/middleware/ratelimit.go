package middleware

import (
	"context"
	"net"
	"net/http"

	httpctx "github.com/dtroode/gophspace-server/internal/api/http/context"
	"github.com/dtroode/gophspace-server/internal/api/http/response"
)

const retryAfterSeconds = "2"

// Limiter decides whether a request keyed by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimitObserver is notified of rejected requests.
type RateLimitObserver interface {
	ObserveRateLimited()
}

// RateLimit rejects requests over the limiter's budget with 429.
// Authenticated callers are keyed by user ID, others by client address.
//
// Admit runs ahead of Identify and charges the client address alone, so a
// flooding client is refused before its credentials are hashed. It only marks
// the request: the rejection happens in Handle, after the audit attempt.
type RateLimit struct {
	limiter        Limiter
	contextManager *httpctx.Manager
	observer       RateLimitObserver
}

func NewRateLimit(limiter Limiter, contextManager *httpctx.Manager, observer RateLimitObserver) *RateLimit {
	return &RateLimit{
		limiter:        limiter,
		contextManager: contextManager,
		observer:       observer,
	}
}

func (m *RateLimit) Admit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter.Allow(r.Context(), "addr:"+clientHost(r)) {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(m.contextManager.SetThrottledToContext(r.Context())))
	})
}

func (m *RateLimit) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.contextManager.IsThrottled(r.Context()) && m.limiter.Allow(r.Context(), m.key(r)) {
			next.ServeHTTP(w, r)
			return
		}

		if m.observer != nil {
			m.observer.ObserveRateLimited()
		}
		w.Header().Set("Retry-After", retryAfterSeconds)
		response.WriteMessage(w, http.StatusTooManyRequests, response.MessageTooManyRequests)
	})
}

func (m *RateLimit) key(r *http.Request) string {
	if userID, ok := m.contextManager.GetUserIDFromContext(r.Context()); ok {
		return "user:" + userID
	}
	return "ip:" + clientHost(r)
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
