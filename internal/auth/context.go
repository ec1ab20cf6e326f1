package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const claimsContextKey contextKey = "authClaims"

// ContextWithClaims stores verified token claims in the context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves verified claims from the context.
// Returns nil if the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	if v := ctx.Value(claimsContextKey); v != nil {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// ExtractBearer gets the token from an "Authorization: Bearer <token>"
// header. Returns empty string when the header is absent or malformed;
// callers treat both identically (401, no detail).
func ExtractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
