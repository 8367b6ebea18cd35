package authz

import (
	"errors"

	"noteswift/internal/apperr"
	"noteswift/internal/auth"
)

var ErrInvalidRole = errors.New("invalid role")

// AssignableRoles are the roles grantable through the ordinary role-change
// path. The superadmin flag is provisioned out of band and is never
// assignable here.
var AssignableRoles = []string{"admin", "user"}

// ComputeRoleMutation returns the full claim set to persist when changing an
// account's role. The mutation is a merge: every claim unrelated to the role
// survives. A superadmin's claims are protected; the current set is returned
// unchanged along with ErrProtectedAccount so callers can refuse loudly.
func ComputeRoleMutation(current auth.Claims, requested string) (auth.Claims, error) {
	valid := false
	for _, r := range AssignableRoles {
		if requested == r {
			valid = true
			break
		}
	}
	if !valid {
		return current, ErrInvalidRole
	}

	if current.SuperAdmin() {
		return current, apperr.ErrProtectedAccount
	}

	next := current.Clone()
	next[auth.ClaimRole] = requested
	return next, nil
}
