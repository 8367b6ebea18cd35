package auth

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Claim keys recognized by the authorization layer. Accounts may carry
// additional claims; those are opaque here and must survive role mutations.
const (
	ClaimRole       = "role"
	ClaimSuperAdmin = "superadmin"
)

// Claims is the custom claim set attached to an account and embedded in
// every issued token. The stored claims are authoritative; the account
// row's role column is a cache of them.
type Claims map[string]any

func (c Claims) Role() string {
	r, _ := c[ClaimRole].(string)
	return r
}

func (c Claims) SuperAdmin() bool {
	v, _ := c[ClaimSuperAdmin].(bool)
	return v
}

// ProfileRole is the denormalized role string cached on the account row.
// Authorization decisions never read it; they go through the claims.
func (c Claims) ProfileRole() string {
	if c.SuperAdmin() {
		return "superadmin"
	}
	if c.Role() == "admin" {
		return "admin"
	}
	return "user"
}

func (c Claims) Clone() Claims {
	if c == nil {
		return Claims{}
	}
	out := make(Claims, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func (c Claims) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *Claims) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*c = Claims{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("claims: unsupported scan type %T", src)
	}
	if len(b) == 0 {
		*c = Claims{}
		return nil
	}
	if err := json.Unmarshal(b, c); err != nil {
		return errors.New("claims: invalid json")
	}
	return nil
}
