// Package roles translates between the backend role vocabulary (ADMIN,
// SUPPORT) and the externally-facing one (admin, empleado). The two
// vocabularies predate the gateway and cannot be unified without breaking
// existing clients, so the mapping is centralized here and every other
// component depends on this single translation.
package roles

import (
	"strings"

	"github.com/ltgt/portal-gateway/internal/rbac"
)

// External is a role in the externally-facing vocabulary.
type External string

const (
	// ExternalAdmin is the external administrator role.
	ExternalAdmin External = "admin"
	// ExternalEmpleado is the external limited (employee) role.
	ExternalEmpleado External = "empleado"
)

// ToExternal maps an authoritative role value to the external vocabulary.
// Matching is case-insensitive. Any unrecognized value maps to the
// least-privileged external role rather than failing: a malformed role
// must never be promoted to elevated access.
func ToExternal(authoritative string) External {
	switch strings.ToUpper(strings.TrimSpace(authoritative)) {
	case string(rbac.RoleAdmin):
		return ExternalAdmin
	case string(rbac.RoleSupport):
		return ExternalEmpleado
	}
	return ExternalEmpleado
}

// ToAuthoritative maps an external role name back to the authoritative
// vocabulary. The reverse direction is only used for inbound payloads
// (user registration), where an unknown value is an input error rather
// than something to default, so the second return reports success.
func ToAuthoritative(external string) (rbac.Role, bool) {
	switch strings.ToLower(strings.TrimSpace(external)) {
	case string(ExternalAdmin):
		return rbac.RoleAdmin, true
	case string(ExternalEmpleado):
		return rbac.RoleSupport, true
	}
	return "", false
}
