package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dtroode/gophspace-server/internal/api/http/response"
	"github.com/dtroode/gophspace-server/internal/logger"
)

type resetter interface {
	Reset()
}

// Recoverer turns a handler panic into a 500 response.
type Recoverer struct {
	logger *logger.Logger
}

func NewRecoverer(logger *logger.Logger) *Recoverer {
	return &Recoverer{logger: logger}
}

func (m *Recoverer) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			m.logger.Error("HTTP request panicked",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()))

			if rw, ok := w.(resetter); ok {
				rw.Reset()
			}
			response.WriteMessage(w, http.StatusInternalServerError, response.MessageInternal)
		}()

		next.ServeHTTP(w, r)
	})
}
