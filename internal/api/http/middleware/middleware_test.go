package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/gophspace-server/internal/api/http/context"
	"github.com/dtroode/gophspace-server/internal/model"
	"github.com/dtroode/gophspace-server/internal/testutil"
)

type stubAuthenticator struct {
	users map[string]string
	err   error
}

func (s stubAuthenticator) Authenticate(_ context.Context, username, password string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if p, ok := s.users[username]; ok && p == password {
		return username, nil
	}
	return "", model.ErrUnauthenticated
}

type stubTokens struct {
	tokens map[string]string
}

func (s stubTokens) GetUserID(_ context.Context, token string) (string, error) {
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return "", model.ErrUnauthenticated
}

type recordingAuditor struct {
	mu         sync.Mutex
	attempts   []model.AuditAttempt
	outcomes   map[model.AuditHandle]int
	attemptErr error
	outcomeErr error
}

func (a *recordingAuditor) RecordAttempt(_ context.Context, method, path string, userID *string) (model.AuditHandle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.attemptErr != nil {
		return 0, a.attemptErr
	}
	a.attempts = append(a.attempts, model.AuditAttempt{Method: method, Path: path, UserID: userID})
	return model.AuditHandle(len(a.attempts)), nil
}

func (a *recordingAuditor) RecordOutcome(_ context.Context, handle model.AuditHandle, status int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.outcomeErr != nil {
		return a.outcomeErr
	}
	if a.outcomes == nil {
		a.outcomes = make(map[model.AuditHandle]int)
	}
	a.outcomes[handle] = status
	return nil
}

type countingObserver struct {
	rateLimited int
	failures    []string
}

func (o *countingObserver) ObserveRateLimited() {
	o.rateLimited++
}

func (o *countingObserver) ObserveAuditFailure(phase string) {
	o.failures = append(o.failures, phase)
}

type denyAfter struct {
	mu    sync.Mutex
	limit int
	seen  map[string]int
}

func (d *denyAfter) Allow(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = make(map[string]int)
	}
	d.seen[key]++
	return d.seen[key] <= d.limit
}

func userEcho(cm *httpctx.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := cm.GetUserIDFromContext(r.Context())
		_, _ = w.Write([]byte(id))
	})
}

func TestIdentify_Handle(t *testing.T) {
	t.Parallel()

	cm := httpctx.NewManager()
	auth := stubAuthenticator{users: map[string]string{"alice": "password1"}}
	tokens := stubTokens{tokens: map[string]string{"tok-bob": "bob"}}

	tests := []struct {
		name       string
		header     func(r *http.Request)
		wantUser   string
		wantAuthEr bool
	}{
		{
			name:   "no header",
			header: func(r *http.Request) {},
		},
		{
			name:     "basic credentials",
			header:   func(r *http.Request) { r.SetBasicAuth("alice", "password1") },
			wantUser: "alice",
		},
		{
			name:       "wrong basic password",
			header:     func(r *http.Request) { r.SetBasicAuth("alice", "nope") },
			wantAuthEr: true,
		},
		{
			name:     "bearer token",
			header:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer tok-bob") },
			wantUser: "bob",
		},
		{
			name:       "unknown scheme",
			header:     func(r *http.Request) { r.Header.Set("Authorization", "Digest abc") },
			wantAuthEr: true,
		},
		{
			name:       "empty bearer",
			header:     func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") },
			wantAuthEr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotUser string
			var gotErr error
			h := NewIdentify(auth, tokens, cm, testutil.MakeNoopLogger()).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = cm.GetUserIDFromContext(r.Context())
				gotErr = cm.GetAuthErrorFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/spaces/1", nil)
			tt.header(req)
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantUser, gotUser)
			if tt.wantAuthEr {
				assert.ErrorIs(t, gotErr, model.ErrUnauthenticated)
			} else {
				assert.NoError(t, gotErr)
			}
		})
	}
}

func TestRequireAuth_Handle(t *testing.T) {
	t.Parallel()

	cm := httpctx.NewManager()
	h := NewRequireAuth(cm).Handle(userEcho(cm))

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/spaces/1", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, `Basic realm="/", charset="UTF-8"`, rec.Header().Get("WWW-Authenticate"))
		assert.JSONEq(t, `{"message":"authentication required"}`, rec.Body.String())
	})

	t.Run("identified", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/spaces/1", nil)
		req = req.WithContext(cm.SetUserIDToContext(req.Context(), "alice"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", rec.Body.String())
	})

	t.Run("credential store unavailable", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/spaces/1", nil)
		req = req.WithContext(cm.SetAuthErrorToContext(req.Context(), model.ErrUnavailable))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestAudit_Handle(t *testing.T) {
	t.Parallel()

	cm := httpctx.NewManager()

	t.Run("records attempt and outcome", func(t *testing.T) {
		t.Parallel()

		auditor := &recordingAuditor{}
		h := NewAudit(auditor, cm, nil, testutil.MakeNoopLogger()).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", "/spaces/1")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":1}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/spaces", nil)
		req = req.WithContext(cm.SetUserIDToContext(req.Context(), "alice"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/spaces/1", rec.Header().Get("Location"))
		assert.Equal(t, `{"id":1}`, rec.Body.String())

		require.Len(t, auditor.attempts, 1)
		assert.Equal(t, http.MethodPost, auditor.attempts[0].Method)
		assert.Equal(t, "/spaces", auditor.attempts[0].Path)
		require.NotNil(t, auditor.attempts[0].UserID)
		assert.Equal(t, "alice", *auditor.attempts[0].UserID)
		assert.Equal(t, http.StatusCreated, auditor.outcomes[1])
	})

	t.Run("anonymous request with implicit 200", func(t *testing.T) {
		t.Parallel()

		auditor := &recordingAuditor{}
		h := NewAudit(auditor, cm, nil, testutil.MakeNoopLogger()).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, auditor.attempts, 1)
		assert.Nil(t, auditor.attempts[0].UserID)
		assert.Equal(t, http.StatusOK, auditor.outcomes[1])
	})

	t.Run("attempt failure stops the request", func(t *testing.T) {
		t.Parallel()

		auditor := &recordingAuditor{attemptErr: errors.New("db down")}
		obs := &countingObserver{}
		called := false
		h := NewAudit(auditor, cm, obs, testutil.MakeNoopLogger()).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/spaces/1/messages", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, []string{"attempt"}, obs.failures)
	})

	t.Run("outcome failure discards the response", func(t *testing.T) {
		t.Parallel()

		auditor := &recordingAuditor{outcomeErr: errors.New("db down")}
		obs := &countingObserver{}
		h := NewAudit(auditor, cm, obs, testutil.MakeNoopLogger()).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", "/spaces/1/messages/7")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":7}`))
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/spaces/1/messages", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, rec.Header().Get("Location"))
		assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
		assert.Equal(t, []string{"outcome"}, obs.failures)
	})
}

func TestRecoverer_Handle(t *testing.T) {
	t.Parallel()

	h := NewRecoverer(testutil.MakeNoopLogger()).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("partial"))
		panic("boom")
	}))

	bw := newBufferedWriter()
	h.ServeHTTP(bw, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, bw.status)
	assert.JSONEq(t, `{"message":"internal server error"}`, bw.body.String())
}

func TestRateLimit_Handle(t *testing.T) {
	t.Parallel()

	cm := httpctx.NewManager()
	obs := &countingObserver{}
	limiter := &denyAfter{limit: 1}
	h := NewRateLimit(limiter, cm, obs).Handle(userEcho(cm))

	do := func(remote, user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/spaces/1", nil)
		req.RemoteAddr = remote
		if user != "" {
			req = req.WithContext(cm.SetUserIDToContext(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000", "").Code)

	rec := do("10.0.0.1:5001", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"too many requests"}`, rec.Body.String())

	// Same address, separate budget once identified.
	assert.Equal(t, http.StatusOK, do("10.0.0.1:5002", "alice").Code)
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.9:5003", "alice").Code)

	assert.Equal(t, 2, obs.rateLimited)
	assert.Contains(t, limiter.seen, "ip:10.0.0.1")
	assert.Contains(t, limiter.seen, "user:alice")
}

type countingAuthenticator struct {
	mu    sync.Mutex
	calls int
}

func (a *countingAuthenticator) Authenticate(_ context.Context, username, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return username, nil
}

func TestRateLimit_Admit(t *testing.T) {
	t.Parallel()

	cm := httpctx.NewManager()
	obs := &countingObserver{}
	limiter := &denyAfter{limit: 1}
	auth := &countingAuthenticator{}
	auditor := &recordingAuditor{}
	limit := NewRateLimit(limiter, cm, obs)

	h := limit.Admit(
		NewIdentify(auth, stubTokens{}, cm, testutil.MakeNoopLogger()).Handle(
			NewAudit(auditor, cm, nil, testutil.MakeNoopLogger()).Handle(
				limit.Handle(userEcho(cm)))))

	do := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/spaces/1", nil)
		req.RemoteAddr = "10.0.0.7:4000"
		req.SetBasicAuth(user, "secret")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := do("alice")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())

	// A second user from the same address is refused without hashing.
	rec = do("bob")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, auth.calls)
	assert.Equal(t, 1, obs.rateLimited)

	require.Len(t, auditor.attempts, 2)
	assert.Nil(t, auditor.attempts[1].UserID)
	assert.Equal(t, http.StatusTooManyRequests, auditor.outcomes[2])

	assert.Equal(t, 2, limiter.seen["addr:10.0.0.7"])
	assert.Equal(t, 1, limiter.seen["user:alice"])
	assert.NotContains(t, limiter.seen, "user:bob")
}

func TestRequireJSON(t *testing.T) {
	t.Parallel()

	h := RequireJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{name: "post json", method: http.MethodPost, contentType: "application/json", want: http.StatusNoContent},
		{name: "post json with charset", method: http.MethodPost, contentType: "application/json; charset=utf-8", want: http.StatusNoContent},
		{name: "post text", method: http.MethodPost, contentType: "text/plain", want: http.StatusUnsupportedMediaType},
		{name: "put without type", method: http.MethodPut, want: http.StatusUnsupportedMediaType},
		{name: "get ignores type", method: http.MethodGet, want: http.StatusNoContent},
		{name: "delete ignores type", method: http.MethodDelete, contentType: "text/plain", want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/spaces", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestLogging_Handle(t *testing.T) {
	t.Parallel()

	h := NewLogging(testutil.MakeNoopLogger()).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestAudit_PanickingHandler(t *testing.T) {
	t.Parallel()

	cm := httpctx.NewManager()
	auditor := &recordingAuditor{}
	lg := testutil.MakeNoopLogger()

	h := NewAudit(auditor, cm, nil, lg).Handle(
		NewRecoverer(lg).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", "/spaces/1")
			w.WriteHeader(http.StatusCreated)
			panic("store exploded")
		})),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/spaces", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	require.Len(t, auditor.attempts, 1)
	assert.Equal(t, http.StatusInternalServerError, auditor.outcomes[1])
}
