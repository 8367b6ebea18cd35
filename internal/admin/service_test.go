package admin

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"noteswift/internal/apperr"
	"noteswift/internal/auth"
	"noteswift/internal/authz"
	"noteswift/internal/note"
)

func testService(t *testing.T) *Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "noteswift.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&auth.Account{}, &note.Note{}))
	return &Service{
		DB:       gdb,
		Identity: &auth.Service{DB: gdb, JWT: auth.NewJWT("test-secret")},
	}
}

func mustCreateUser(t *testing.T, svc *Service, username, email, role string) string {
	t.Helper()
	id, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: username,
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return id
}

func TestCreateUser(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id := mustCreateUser(t, svc, "ana", "ana@example.com", "admin")

	acct, err := svc.Identity.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana", acct.Username)
	assert.Equal(t, "ana@example.com", acct.Email)
	assert.Equal(t, "admin", acct.Role)
	assert.Equal(t, authz.RoleAdmin, authz.EffectiveRole(acct.Claims))
}

func TestCreateUserValidation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Username: "ab", Email: "a@b.com", Password: "password123", Role: "user"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "ana", Email: "", Password: "password123", Role: "user"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "ana", Email: "a@b.com", Password: "short", Role: "user"})
	assert.ErrorIs(t, err, apperr.ErrWeakPassword)

	// an invalid role aborts the whole create, no orphan account remains
	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "ana", Email: "a@b.com", Password: "password123", Role: "superadmin"})
	assert.ErrorIs(t, err, authz.ErrInvalidRole)
	var count int64
	require.NoError(t, svc.DB.Model(&auth.Account{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateUserDuplicate(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	mustCreateUser(t, svc, "ana", "ana@example.com", "user")

	_, err := svc.CreateUser(ctx, CreateUserInput{Username: "ana", Email: "other@example.com", Password: "password123", Role: "user"})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestSetUserRolePreservesOtherClaims(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id := mustCreateUser(t, svc, "ana", "ana@example.com", "user")

	// an unrelated custom claim set out of band must survive role changes
	acct, err := svc.Identity.GetAccount(ctx, id)
	require.NoError(t, err)
	claims := acct.Claims.Clone()
	claims["tenant"] = "acme"
	require.NoError(t, svc.Identity.SetClaims(ctx, id, claims))

	require.NoError(t, svc.SetUserRole(ctx, id, "admin"))

	acct, err = svc.Identity.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "admin", acct.Claims.Role())
	assert.Equal(t, "acme", acct.Claims["tenant"])
	assert.Equal(t, "admin", acct.Role)
}

func TestSetUserRoleOnProtectedAccount(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id := mustCreateUser(t, svc, "root", "root@example.com", "admin")
	acct, err := svc.Identity.GetAccount(ctx, id)
	require.NoError(t, err)
	claims := acct.Claims.Clone()
	claims[auth.ClaimSuperAdmin] = true
	require.NoError(t, svc.Identity.SetClaims(ctx, id, claims))

	err = svc.SetUserRole(ctx, id, "user")
	assert.ErrorIs(t, err, apperr.ErrProtectedAccount)

	acct, err = svc.Identity.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.True(t, acct.Claims.SuperAdmin())
	assert.Equal(t, "admin", acct.Claims.Role())
}

func TestDeleteUserCascadesNotes(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id := mustCreateUser(t, svc, "ana", "ana@example.com", "user")
	other := mustCreateUser(t, svc, "bo", "bo@example.com", "user")

	notes := &note.Service{DB: svc.DB}
	_, err := notes.Create(ctx, id, note.CreateNoteInput{Title: "mine"})
	require.NoError(t, err)
	_, err = notes.Create(ctx, id, note.CreateNoteInput{Title: "also mine"})
	require.NoError(t, err)
	kept, err := notes.Create(ctx, other, note.CreateNoteInput{Title: "not mine"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, id))

	_, err = svc.Identity.GetAccount(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var remaining []note.Note
	require.NoError(t, svc.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	assert.ErrorIs(t, svc.DeleteUser(ctx, "missing"), apperr.ErrNotFound)
}

func TestUpdateUsername(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id := mustCreateUser(t, svc, "ana", "ana@example.com", "user")
	mustCreateUser(t, svc, "bo", "bo@example.com", "user")

	assert.ErrorIs(t, svc.UpdateUsername(ctx, id, "ab"), ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateUsername(ctx, id, "bo"), apperr.ErrAlreadyExists)

	require.NoError(t, svc.UpdateUsername(ctx, id, "ana2"))
	acct, err := svc.Identity.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana2", acct.Username)

	// renaming to the current name is a no-op, not a conflict
	require.NoError(t, svc.UpdateUsername(ctx, id, "ana2"))
}

func TestUpdateUserPassword(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id := mustCreateUser(t, svc, "ana", "ana@example.com", "user")

	assert.ErrorIs(t, svc.UpdateUserPassword(ctx, id, "short"), apperr.ErrWeakPassword)
	require.NoError(t, svc.UpdateUserPassword(ctx, id, "even-better-password"))

	acct, err := svc.Identity.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.True(t, auth.ComparePassword(acct.PasswordHash, "even-better-password"))
}

func TestStats(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	ana := mustCreateUser(t, svc, "ana", "ana@example.com", "admin")
	bo := mustCreateUser(t, svc, "bo", "bo@example.com", "user")

	notes := &note.Service{DB: svc.DB}
	for i := 0; i < 3; i++ {
		_, err := notes.Create(ctx, ana, note.CreateNoteInput{Title: "n"})
		require.NoError(t, err)
	}
	_, err := notes.Create(ctx, bo, note.CreateNoteInput{Title: "n"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.UserCount)
	assert.Equal(t, int64(4), stats.NoteCount)

	require.Len(t, stats.Users, 2)
	assert.Equal(t, "ana", stats.Users[0].Username)
	assert.Equal(t, "admin", stats.Users[0].Role)
	assert.Equal(t, int64(3), stats.Users[0].NoteCount)
	assert.Equal(t, int64(1), stats.Users[1].NoteCount)

	require.Len(t, stats.NotesByDay, 7)
	assert.Equal(t, int64(4), stats.NotesByDay[6].Count) // all created today

	require.Len(t, stats.NotesByHour, 24)
	assert.Equal(t, "00", stats.NotesByHour[0].Hour)
	assert.Equal(t, "23", stats.NotesByHour[23].Hour)
	var hourTotal int64
	for _, h := range stats.NotesByHour {
		hourTotal += h.Count
	}
	assert.Equal(t, int64(4), hourTotal)
}

func TestUserNotes(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	ana := mustCreateUser(t, svc, "ana", "ana@example.com", "user")
	bo := mustCreateUser(t, svc, "bo", "bo@example.com", "user")

	notes := &note.Service{DB: svc.DB}
	active, err := notes.Create(ctx, ana, note.CreateNoteInput{Title: "active"})
	require.NoError(t, err)
	trashed, err := notes.Create(ctx, ana, note.CreateNoteInput{Title: "trashed"})
	require.NoError(t, err)
	require.NoError(t, notes.SoftDelete(ctx, ana, trashed.ID))
	_, err = notes.Create(ctx, bo, note.CreateNoteInput{Title: "someone else's"})
	require.NoError(t, err)

	rows, err := svc.UserNotes(ctx, ana)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	ids := []string{rows[0].ID, rows[1].ID}
	assert.Contains(t, ids, active.ID)
	assert.Contains(t, ids, trashed.ID)

	_, err = svc.UserNotes(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
