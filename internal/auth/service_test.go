package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"noteswift/internal/apperr"
)

func testService(t *testing.T) *Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "noteswift.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&Account{}))
	return &Service{DB: gdb, JWT: NewJWT("test-secret")}
}

func TestCreateAccountDefaultsToUserRole(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id, err := svc.CreateAccount(ctx, "alice", "alice@x.com", "Passw0rd!")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	acct, err := svc.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", acct.Username)
	assert.Equal(t, "alice@x.com", acct.Email)
	assert.Equal(t, "user", acct.Claims.Role())
	assert.Equal(t, "user", acct.Role)
	assert.True(t, ComparePassword(acct.PasswordHash, "Passw0rd!"))
}

func TestCreateAccountRejectsDuplicates(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "alice", "alice@x.com", "Passw0rd!")
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, "alice2", "alice@x.com", "Passw0rd!")
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	_, err = svc.CreateAccount(ctx, "alice", "other@x.com", "Passw0rd!")
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestCreateAccountRejectsWeakPassword(t *testing.T) {
	svc := testService(t)

	_, err := svc.CreateAccount(context.Background(), "bob", "bob@x.com", "short")
	assert.ErrorIs(t, err, apperr.ErrWeakPassword)
}

func TestSetClaimsSyncsProfileRole(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id, err := svc.CreateAccount(ctx, "carol", "carol@x.com", "Passw0rd!")
	require.NoError(t, err)

	require.NoError(t, svc.SetClaims(ctx, id, Claims{"role": "admin", "theme": "dark"}))

	acct, err := svc.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "admin", acct.Claims.Role())
	assert.Equal(t, "dark", acct.Claims["theme"])
	assert.Equal(t, "admin", acct.Role)

	require.NoError(t, svc.SetClaims(ctx, id, Claims{"superadmin": true, "role": "user"}))
	acct, err = svc.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "superadmin", acct.Role)
}

func TestSetClaimsMissingAccount(t *testing.T) {
	svc := testService(t)
	err := svc.SetClaims(context.Background(), "nope", Claims{"role": "admin"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestVerifyTokenOfIssuedToken(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id, err := svc.CreateAccount(ctx, "dave", "dave@x.com", "Passw0rd!")
	require.NoError(t, err)
	acct, err := svc.GetAccount(ctx, id)
	require.NoError(t, err)

	token, err := svc.JWT.Sign(acct.ID, acct.Claims)
	require.NoError(t, err)

	ident, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, ident.AccountID)
	assert.Equal(t, "user", ident.Claims.Role())

	_, err = svc.VerifyToken("bogus")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestUpdateAccount(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id, err := svc.CreateAccount(ctx, "erin", "erin@x.com", "Passw0rd!")
	require.NoError(t, err)

	newPass := "N3wPassw0rd!"
	require.NoError(t, svc.UpdateAccount(ctx, id, UpdateAccountInput{Password: &newPass}))

	acct, err := svc.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.True(t, ComparePassword(acct.PasswordHash, newPass))

	weak := "short"
	assert.ErrorIs(t, svc.UpdateAccount(ctx, id, UpdateAccountInput{Password: &weak}), apperr.ErrWeakPassword)

	name := "erin2"
	require.NoError(t, svc.UpdateAccount(ctx, id, UpdateAccountInput{Username: &name}))
	acct, err = svc.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "erin2", acct.Username)

	assert.ErrorIs(t, svc.UpdateAccount(ctx, "nope", UpdateAccountInput{Username: &name}), apperr.ErrNotFound)
}

func TestUpdateAccountUsernameConflict(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "grace", "grace@x.com", "Passw0rd!")
	require.NoError(t, err)
	id, err := svc.CreateAccount(ctx, "heidi", "heidi@x.com", "Passw0rd!")
	require.NoError(t, err)

	// no pre-check on this path; the unique index is the only guard and its
	// violation must surface as the conflict sentinel
	taken := "grace"
	assert.ErrorIs(t, svc.UpdateAccount(ctx, id, UpdateAccountInput{Username: &taken}), apperr.ErrAlreadyExists)

	acct, err := svc.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "heidi", acct.Username)
}

func TestDeleteAccount(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id, err := svc.CreateAccount(ctx, "frank", "frank@x.com", "Passw0rd!")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, id))

	_, err = svc.GetAccount(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, id), apperr.ErrNotFound)
}
