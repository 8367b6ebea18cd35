// Package authz makes every authorization decision for the service: the
// effective role computed from verified claims, the per-operation grant or
// denial, and the rules for changing an account's role claim. All functions
// here are pure; token verification and persistence live elsewhere.
package authz

import "noteswift/internal/auth"

// Role is the single resolved permission level. It is computed once at the
// authorization boundary from a verified claim set and passed along; nothing
// downstream re-derives it from raw claims.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
	RoleSuperAdmin
)

func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return "superadmin"
	case RoleAdmin:
		return "admin"
	default:
		return "user"
	}
}

// EffectiveRole resolves a claim set to a role. The superadmin flag wins
// over whatever the role claim says.
func EffectiveRole(c auth.Claims) Role {
	if c.SuperAdmin() {
		return RoleSuperAdmin
	}
	if c.Role() == "admin" {
		return RoleAdmin
	}
	return RoleUser
}
