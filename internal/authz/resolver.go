package authz

import (
	"noteswift/internal/apperr"
	"noteswift/internal/auth"
)

// Category classifies the administrative operations that require a role
// check beyond "is authenticated".
type Category int

const (
	CategoryCreateAccount Category = iota
	CategoryDeleteAccount
	CategoryChangePassword
	CategoryChangeRole
	CategoryUpdateProfile
	CategoryViewDashboard
)

// Grant is the positive outcome of an authorization decision.
type Grant struct {
	AccountID string
	Role      Role
}

// Resolve decides whether the caller may perform an operation category.
// targetID names the account being acted on for targeted categories; it is
// ignored for the rest. A missing or unverified identity is always
// Unauthorized; a verified identity with an insufficient role is Forbidden.
// Callers surface the two differently ("log in again" vs "no permission").
func Resolve(ident *auth.Identity, cat Category, targetID string) (Grant, error) {
	if ident == nil || ident.AccountID == "" {
		return Grant{}, apperr.ErrUnauthorized
	}

	role := EffectiveRole(ident.Claims)

	switch cat {
	case CategoryCreateAccount, CategoryViewDashboard:
		if role < RoleAdmin {
			return Grant{}, apperr.ErrForbidden
		}
	case CategoryDeleteAccount, CategoryChangeRole:
		if role != RoleSuperAdmin {
			return Grant{}, apperr.ErrForbidden
		}
	case CategoryChangePassword, CategoryUpdateProfile:
		// own account for anyone; other accounts need superadmin
		if targetID != ident.AccountID && role != RoleSuperAdmin {
			return Grant{}, apperr.ErrForbidden
		}
	default:
		return Grant{}, apperr.ErrForbidden
	}

	return Grant{AccountID: ident.AccountID, Role: role}, nil
}
