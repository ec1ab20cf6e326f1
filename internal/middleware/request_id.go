// Package middleware provides HTTP middleware shared by the gateway
// and the backend API.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request-id"

// RequestID assigns every request a correlation ID, echoed back in the
// X-Request-ID response header and stored in the context. An inbound
// X-Request-ID is reused only when it passes validation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || !isValidRequestID(id) {
			id = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isValidRequestID bounds the length and character set of inbound IDs
// so hostile values never land in logs verbatim.
func isValidRequestID(id string) bool {
	if len(id) > 128 {
		return false
	}
	for _, c := range id {
		isAlphanumeric := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !isAlphanumeric && c != '-' && c != '_' && c != '.' {
			return false
		}
	}
	return true
}

// GetRequestID retrieves the request ID from the context, or "" when
// the middleware did not run.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
