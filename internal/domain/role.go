package domain

import "strings"

// Role enumerates what a user may do inside their tenant.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProvider Role = "provider"
	RoleCustomer Role = "customer"

	// roleServiceProvider is the legacy spelling of RoleProvider.
	roleServiceProvider Role = "service_provider"
)

// NormalizeRole folds casing and legacy aliases into the canonical role.
func NormalizeRole(raw string) Role {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if role == roleServiceProvider {
		return RoleProvider
	}
	return role
}

// Valid reports whether the role is one of the canonical roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProvider, RoleCustomer:
		return true
	}
	return false
}
