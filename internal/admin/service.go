// Package admin implements account administration: handlers resolve the
// caller's authorization first, then delegate the mutation here.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"noteswift/internal/apperr"
	"noteswift/internal/auth"
	"noteswift/internal/authz"
	"noteswift/internal/note"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	DB       *gorm.DB
	Identity *auth.Service
}

// identityTx scopes the identity-provider operations to one transaction.
func (s *Service) identityTx(tx *gorm.DB) *auth.Service {
	return &auth.Service{DB: tx, JWT: s.Identity.JWT}
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// CreateUser provisions the account, its role claim and the profile row in
// one transaction, mirroring the one-logical-step create the admin UI
// expects.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if len(in.Username) < auth.MinUsernameLength || in.Email == "" {
		return "", ErrInvalidInput
	}

	var accountID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		idp := s.identityTx(tx)

		id, err := idp.CreateAccount(ctx, in.Username, in.Email, in.Password)
		if err != nil {
			return err
		}
		accountID = id

		claims, err := authz.ComputeRoleMutation(auth.Claims{}, in.Role)
		if err != nil {
			return err
		}
		return idp.SetClaims(ctx, id, claims)
	})
	if err != nil {
		return "", err
	}
	return accountID, nil
}

// DeleteUser cascades: every note owned by the account goes first, then the
// account itself, all or nothing.
func (s *Service) DeleteUser(ctx context.Context, accountID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("owner_id = ?", accountID).Delete(&note.Note{}).Error; err != nil {
			return err
		}
		return s.identityTx(tx).DeleteAccount(ctx, accountID)
	})
}

// SetUserRole changes the role claim through the mutation guard and keeps
// the cached profile role in sync.
func (s *Service) SetUserRole(ctx context.Context, accountID, role string) error {
	acct, err := s.Identity.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}

	next, err := authz.ComputeRoleMutation(acct.Claims, role)
	if err != nil {
		return err
	}
	return s.Identity.SetClaims(ctx, accountID, next)
}

func (s *Service) UpdateUserPassword(ctx context.Context, accountID, newPassword string) error {
	return s.Identity.UpdateAccount(ctx, accountID, auth.UpdateAccountInput{Password: &newPassword})
}

// UpdateUsername renames an account after checking the name is free.
func (s *Service) UpdateUsername(ctx context.Context, accountID, username string) error {
	username = strings.TrimSpace(username)
	if len(username) < auth.MinUsernameLength {
		return ErrInvalidInput
	}

	var count int64
	err := s.DB.WithContext(ctx).Model(&auth.Account{}).
		Where("username = ? AND id <> ?", username, accountID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.ErrAlreadyExists
	}

	return s.Identity.UpdateAccount(ctx, accountID, auth.UpdateAccountInput{Username: &username})
}

type UserStats struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	NoteCount int64  `json:"noteCount"`
}

type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

type HourCount struct {
	Hour  string `json:"hour"` // 00..23
	Count int64  `json:"count"`
}

type DashboardStats struct {
	Users       []UserStats `json:"users"`
	UserCount   int64       `json:"userCount"`
	NoteCount   int64       `json:"noteCount"`
	NotesByDay  []DayCount  `json:"notesByDay"`
	NotesByHour []HourCount `json:"notesByHour"`
}

// Stats builds the admin dashboard: every user with their note count, the
// totals, creation counts bucketed by day for the last week, and the
// hour-of-day distribution of all notes.
func (s *Service) Stats(ctx context.Context) (*DashboardStats, error) {
	var accounts []auth.Account
	if err := s.DB.WithContext(ctx).Order("username asc").Find(&accounts).Error; err != nil {
		return nil, err
	}

	type ownerCount struct {
		OwnerID string
		Count   int64
	}
	var perOwner []ownerCount
	err := s.DB.WithContext(ctx).Model(&note.Note{}).
		Select("owner_id, count(*) as count").
		Group("owner_id").
		Scan(&perOwner).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(perOwner))
	var total int64
	for _, oc := range perOwner {
		counts[oc.OwnerID] = oc.Count
		total += oc.Count
	}

	stats := &DashboardStats{
		Users:     make([]UserStats, 0, len(accounts)),
		UserCount: int64(len(accounts)),
		NoteCount: total,
	}
	for _, a := range accounts {
		stats.Users = append(stats.Users, UserStats{
			ID:        a.ID,
			Username:  a.Username,
			Email:     a.Email,
			Role:      authz.EffectiveRole(a.Claims).String(),
			NoteCount: counts[a.ID],
		})
	}

	byDay, err := s.notesByDay(ctx, 7)
	if err != nil {
		return nil, err
	}
	stats.NotesByDay = byDay

	byHour, err := s.notesByHour(ctx)
	if err != nil {
		return nil, err
	}
	stats.NotesByHour = byHour

	return stats, nil
}

// notesByDay buckets in memory instead of in SQL so the same code path runs
// on postgres and the sqlite-backed tests.
func (s *Service) notesByDay(ctx context.Context, days int) ([]DayCount, error) {
	since := time.Now().AddDate(0, 0, -(days - 1))
	dayStart := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location())

	var createdAts []time.Time
	err := s.DB.WithContext(ctx).Model(&note.Note{}).
		Where("created_at >= ?", dayStart).
		Pluck("created_at", &createdAts).Error
	if err != nil {
		return nil, err
	}

	buckets := map[string]int64{}
	for _, t := range createdAts {
		buckets[t.Local().Format("2006-01-02")]++
	}

	out := make([]DayCount, 0, days)
	for i := 0; i < days; i++ {
		d := dayStart.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, DayCount{Date: d, Count: buckets[d]})
	}
	return out, nil
}

// notesByHour is the hour-of-day histogram over every note's creation time,
// one bucket per hour whether or not it is empty.
func (s *Service) notesByHour(ctx context.Context) ([]HourCount, error) {
	var createdAts []time.Time
	err := s.DB.WithContext(ctx).Model(&note.Note{}).
		Pluck("created_at", &createdAts).Error
	if err != nil {
		return nil, err
	}

	buckets := map[string]int64{}
	for _, t := range createdAts {
		buckets[t.Local().Format("15")]++
	}

	out := make([]HourCount, 0, 24)
	for h := 0; h < 24; h++ {
		label := fmt.Sprintf("%02d", h)
		out = append(out, HourCount{Hour: label, Count: buckets[label]})
	}
	return out, nil
}

// UserNotes lists every note owned by the account, trash included, for the
// admin user-detail view. The account is looked up first so a missing user
// reads as not found rather than an empty list.
func (s *Service) UserNotes(ctx context.Context, accountID string) ([]note.Note, error) {
	if _, err := s.Identity.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	var rows []note.Note
	err := s.DB.WithContext(ctx).
		Where("owner_id = ?", accountID).
		Order("updated_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
