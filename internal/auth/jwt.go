package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 7 * 24 * time.Hour

// reserved registered claims; everything else in a token is a custom claim.
var reservedClaims = map[string]struct{}{
	"sub": {},
	"iat": {},
	"exp": {},
}

// Identity is an immutable snapshot decoded from one verified token. It is
// passed explicitly to every authorization decision; nothing keeps a
// mutable copy of claims beyond it.
type Identity struct {
	AccountID string
	Claims    Claims
	ExpiresAt time.Time
}

type JWT struct {
	secret []byte
}

func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret)}
}

// Sign issues a token carrying the account id plus every custom claim, so
// role decisions need no lookup at verification time.
func (j *JWT) Sign(accountID string, custom Claims) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	for k, v := range custom {
		if _, reserved := reservedClaims[k]; reserved {
			continue
		}
		claims[k] = v
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(j.secret)
}

func (j *JWT) Verify(tokenStr string) (*Identity, error) {
	t, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("missing sub")
	}

	custom := Claims{}
	for k, v := range claims {
		if _, reserved := reservedClaims[k]; reserved {
			continue
		}
		custom[k] = v
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return &Identity{AccountID: sub, Claims: custom, ExpiresAt: expiresAt}, nil
}
