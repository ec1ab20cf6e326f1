package gateway

import (
	"net/http"

	"github.com/ltgt/portal-gateway/internal/auth"
	"github.com/ltgt/portal-gateway/internal/metrics"
	"github.com/ltgt/portal-gateway/internal/rbac"
)

// RequireAuth rejects unauthenticated requests before anything else
// runs. Missing, malformed, expired and tampered tokens are all the
// same 401.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.ExtractBearer(r)
		if token == "" {
			metrics.RecordAuthFailure("missing_token")
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Missing or invalid authorization header")
			return
		}
		claims, err := h.tokens.Verify(token)
		if err != nil {
			metrics.RecordAuthFailure("invalid_token")
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
	})
}

// RequirePermission checks the permission matrix immediately after
// authentication, before any backend I/O. Denials never reveal which
// role would have been accepted.
func (h *Handler) RequirePermission(resource rbac.Resource, action rbac.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.ClaimsFromContext(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Missing or invalid authorization header")
				return
			}
			role, ok := rbac.ParseRole(claims.Role)
			if !ok || !rbac.Allows(role, resource, action) {
				metrics.RecordAuthFailure("permission_denied")
				writeError(w, http.StatusForbidden, CodeForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
