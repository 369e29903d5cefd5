package middleware

import (
	"mime"
	"net/http"

	"github.com/dtroode/gophspace-server/internal/api/http/response"
)

// RequireJSON rejects POST and PUT bodies that are not application/json.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			response.WriteMessage(w, http.StatusUnsupportedMediaType, response.MessageContentType)
			return
		}

		next.ServeHTTP(w, r)
	})
}
