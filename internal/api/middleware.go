package api

import (
	"net/http"

	"github.com/ltgt/portal-gateway/internal/auth"
	"github.com/ltgt/portal-gateway/internal/metrics"
	"github.com/ltgt/portal-gateway/internal/rbac"
)

// RequireAuth verifies the bearer token and stores its claims in the
// request context. Missing and invalid tokens get the same 401.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.ExtractBearer(r)
		if token == "" {
			metrics.RecordAuthFailure("missing_token")
			WriteError(w, http.StatusUnauthorized, "Unauthorized", "Missing or invalid authorization header")
			return
		}
		claims, err := h.tokens.Verify(token)
		if err != nil {
			metrics.RecordAuthFailure("invalid_token")
			WriteError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
	})
}

// RequirePermission gates a route on the permission matrix. The
// response never names the roles that would have been accepted.
func (h *Handler) RequirePermission(resource rbac.Resource, action rbac.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.ClaimsFromContext(r.Context())
			if claims == nil {
				WriteError(w, http.StatusUnauthorized, "Unauthorized", "Missing or invalid authorization header")
				return
			}
			role, ok := rbac.ParseRole(claims.Role)
			if !ok || !rbac.Allows(role, resource, action) {
				metrics.RecordAuthFailure("permission_denied")
				WriteError(w, http.StatusForbidden, "Forbidden", "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
