package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"noteswift/internal/apperr"
)

// isDuplicateKey matches the unique-violation errors of both supported
// drivers. The pre-insert existence check cannot rule out a concurrent
// insert, so writes hitting the unique indexes go through this backstop.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// Service is the identity-provider surface: account records, their custom
// claims, and token verification. Give it a transaction-scoped *gorm.DB to
// compose it into a larger atomic operation.
type Service struct {
	DB  *gorm.DB
	JWT *JWT
}

func (s *Service) VerifyToken(tokenStr string) (*Identity, error) {
	ident, err := s.JWT.Verify(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	return ident, nil
}

// CreateAccount registers a new account with the default user role claim.
// Claims for other roles are set separately via SetClaims.
func (s *Service) CreateAccount(ctx context.Context, username, email, password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", apperr.ErrWeakPassword
	}

	var count int64
	err := s.DB.WithContext(ctx).Model(&Account{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", apperr.ErrAlreadyExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	claims := Claims{ClaimRole: "user"}
	a := Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Claims:       claims,
		Role:         claims.ProfileRole(),
	}
	if err := s.DB.WithContext(ctx).Create(&a).Error; err != nil {
		if isDuplicateKey(err) {
			return "", apperr.ErrAlreadyExists
		}
		return "", err
	}
	return a.ID, nil
}

// SetClaims replaces the account's claim set and refreshes the cached role
// column so profile queries stay consistent with the claims.
func (s *Service) SetClaims(ctx context.Context, accountID string, claims Claims) error {
	res := s.DB.WithContext(ctx).Model(&Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"claims": claims,
			"role":   claims.ProfileRole(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", accountID).Delete(&Account{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

type UpdateAccountInput struct {
	Password *string
	Username *string
}

func (s *Service) UpdateAccount(ctx context.Context, accountID string, in UpdateAccountInput) error {
	fields := map[string]any{}
	if in.Password != nil {
		if len(*in.Password) < MinPasswordLength {
			return apperr.ErrWeakPassword
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return err
		}
		fields["password_hash"] = hash
	}
	if in.Username != nil {
		fields["username"] = *in.Username
	}
	if len(fields) == 0 {
		return nil
	}

	res := s.DB.WithContext(ctx).Model(&Account{}).Where("id = ?", accountID).Updates(fields)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return apperr.ErrAlreadyExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Service) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	var a Account
	if err := s.DB.WithContext(ctx).Where("id = ?", accountID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
