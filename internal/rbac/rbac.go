// Package rbac implements the static permission matrix for portal resources.
package rbac

import "strings"

// Role is a role in the authoritative vocabulary used by the backend API.
type Role string

const (
	// RoleAdmin has full access to every portal resource.
	RoleAdmin Role = "ADMIN"
	// RoleSupport is the limited role for support staff.
	RoleSupport Role = "SUPPORT"
)

// ParseRole normalizes a role string to the authoritative vocabulary.
// Matching is case-insensitive. Unknown values return false.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin, true
	case string(RoleSupport):
		return RoleSupport, true
	}
	return "", false
}

// Resource is a protected portal resource.
type Resource string

const (
	ResourceProducts       Resource = "products"
	ResourceUsers          Resource = "users"
	ResourceTickets        Resource = "tickets"
	ResourceKnowledge      Resource = "knowledge"
	ResourceCommunications Resource = "communications"
	ResourceDashboard      Resource = "dashboard"
)

// Action is an operation on a resource.
type Action string

const (
	ActionView        Action = "view"
	ActionViewDetails Action = "view_details"
	ActionCreate      Action = "create"
	ActionEdit        Action = "edit"
	ActionDelete      Action = "delete"
)

type entry struct {
	resource Resource
	action   Action
}

// matrix maps (resource, action) to the roles allowed to perform it.
// Pairs absent from the table are denied for every role.
var matrix = map[entry][]Role{
	{ResourceProducts, ActionView}:        {RoleAdmin, RoleSupport},
	{ResourceProducts, ActionViewDetails}: {RoleAdmin, RoleSupport},
	{ResourceProducts, ActionCreate}:      {RoleAdmin},
	{ResourceProducts, ActionEdit}:        {RoleAdmin},
	{ResourceProducts, ActionDelete}:      {RoleAdmin},

	{ResourceUsers, ActionView}:        {RoleAdmin},
	{ResourceUsers, ActionViewDetails}: {RoleAdmin},
	{ResourceUsers, ActionCreate}:      {RoleAdmin},
	{ResourceUsers, ActionEdit}:        {RoleAdmin},
	{ResourceUsers, ActionDelete}:      {RoleAdmin},

	{ResourceTickets, ActionView}:        {RoleAdmin, RoleSupport},
	{ResourceTickets, ActionViewDetails}: {RoleAdmin, RoleSupport},
	{ResourceTickets, ActionCreate}:      {RoleAdmin, RoleSupport},
	{ResourceTickets, ActionEdit}:        {RoleAdmin, RoleSupport},
	{ResourceTickets, ActionDelete}:      {RoleAdmin},

	{ResourceKnowledge, ActionView}:        {RoleAdmin, RoleSupport},
	{ResourceKnowledge, ActionViewDetails}: {RoleAdmin, RoleSupport},
	{ResourceKnowledge, ActionCreate}:      {RoleAdmin},
	{ResourceKnowledge, ActionEdit}:        {RoleAdmin},
	{ResourceKnowledge, ActionDelete}:      {RoleAdmin},

	{ResourceCommunications, ActionView}:        {RoleAdmin, RoleSupport},
	{ResourceCommunications, ActionViewDetails}: {RoleAdmin, RoleSupport},
	{ResourceCommunications, ActionCreate}:      {RoleAdmin},

	{ResourceDashboard, ActionView}: {RoleAdmin, RoleSupport},
}

// Allows reports whether role may perform action on resource.
// The matrix is fail-closed: a missing entry means deny, never allow.
func Allows(role Role, resource Resource, action Action) bool {
	allowed, ok := matrix[entry{resource, action}]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Resources returns every resource declared in the matrix vocabulary.
func Resources() []Resource {
	return []Resource{
		ResourceProducts,
		ResourceUsers,
		ResourceTickets,
		ResourceKnowledge,
		ResourceCommunications,
		ResourceDashboard,
	}
}

// Actions returns every action declared in the matrix vocabulary.
func Actions() []Action {
	return []Action{
		ActionView,
		ActionViewDetails,
		ActionCreate,
		ActionEdit,
		ActionDelete,
	}
}
