package middleware

import (
	"bytes"
	"context"
	"net/http"

	httpctx "github.com/dtroode/gophspace-server/internal/api/http/context"
	"github.com/dtroode/gophspace-server/internal/api/http/response"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

// Auditor is the two-phase audit log.
type Auditor interface {
	RecordAttempt(ctx context.Context, method, path string, userID *string) (model.AuditHandle, error)
	RecordOutcome(ctx context.Context, handle model.AuditHandle, status int) error
}

// AuditObserver is notified of failed audit writes.
type AuditObserver interface {
	ObserveAuditFailure(phase string)
}

// Audit records every request before it runs and its status after. The
// response is held back until the outcome is stored: a request whose audit
// trail cannot be written fails with 500.
type Audit struct {
	auditor        Auditor
	contextManager *httpctx.Manager
	observer       AuditObserver
	logger         *logger.Logger
}

func NewAudit(auditor Auditor, contextManager *httpctx.Manager, observer AuditObserver, logger *logger.Logger) *Audit {
	return &Audit{
		auditor:        auditor,
		contextManager: contextManager,
		observer:       observer,
		logger:         logger,
	}
}

func (m *Audit) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A client hanging up must not leave the entry open.
		ctx := context.WithoutCancel(r.Context())

		var userID *string
		if id, ok := m.contextManager.GetUserIDFromContext(ctx); ok {
			userID = &id
		}

		handle, err := m.auditor.RecordAttempt(ctx, r.Method, r.URL.Path, userID)
		if err != nil {
			m.fail(w, r, "attempt", err)
			return
		}

		bw := newBufferedWriter()
		next.ServeHTTP(bw, r)

		if err := m.auditor.RecordOutcome(ctx, handle, bw.status); err != nil {
			m.fail(w, r, "outcome", err)
			return
		}

		bw.flush(w)
	})
}

func (m *Audit) fail(w http.ResponseWriter, r *http.Request, phase string, err error) {
	m.logger.Error("HTTP audit: failed to write audit log",
		"phase", phase,
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error())
	if m.observer != nil {
		m.observer.ObserveAuditFailure(phase)
	}
	response.WriteMessage(w, http.StatusInternalServerError, response.MessageInternal)
}

// bufferedWriter keeps the whole response in memory until flush.
type bufferedWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(code int) {
	if b.wroteHeader {
		return
	}
	b.status = code
	b.wroteHeader = true
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}

// Reset drops everything written so far.
func (b *bufferedWriter) Reset() {
	b.header = make(http.Header)
	b.status = http.StatusOK
	b.wroteHeader = false
	b.body.Reset()
}

func (b *bufferedWriter) flush(w http.ResponseWriter) {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = v
	}
	w.WriteHeader(b.status)
	_, _ = w.Write(b.body.Bytes())
}
