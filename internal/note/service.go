package note

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"noteswift/internal/apperr"
	"noteswift/internal/summary"
)

const summaryTimeout = 30 * time.Second

type Service struct {
	DB         *gorm.DB
	Summarizer summary.Summarizer // nil disables summaries
}

type CreateNoteInput struct {
	Title      string
	Content    string
	Tags       []string
	ReminderAt *time.Time
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateNoteInput) (*Note, error) {
	now := time.Now()
	n := Note{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Content:     in.Content,
		Tags:        pq.StringArray(NormalizeTags(in.Tags)),
		ReminderSet: in.ReminderAt != nil,
		ReminderAt:  in.ReminderAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.DB.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, err
	}

	// summary fill must not block creation
	go s.fillSummary(n.ID, n.Content)

	return &n, nil
}

// fillSummary writes the generated summary back, but only if the content is
// still the one it summarized; a concurrent edit wins.
func (s *Service) fillSummary(noteID, content string) {
	if s.Summarizer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
	defer cancel()

	sum, err := s.Summarizer.Summarize(ctx, content)
	if err != nil {
		log.Printf("summary for note %s failed: %v", noteID, err)
		return
	}

	err = s.DB.Model(&Note{}).
		Where("id = ? AND content = ?", noteID, content).
		UpdateColumn("summary", sum).Error
	if err != nil {
		log.Printf("summary write for note %s failed: %v", noteID, err)
	}
}

type UpdateNoteInput struct {
	Title      string
	Content    string
	Tags       []string
	ReminderAt *time.Time
}

func (s *Service) Update(ctx context.Context, ownerID, noteID string, in UpdateNoteInput) (*Note, error) {
	current, err := s.Get(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	// trashed notes are read-only until restored
	if !current.Active() {
		return nil, apperr.ErrNotFound
	}

	fields := map[string]any{
		"title":        in.Title,
		"content":      in.Content,
		"tags":         pq.StringArray(NormalizeTags(in.Tags)),
		"reminder_set": in.ReminderAt != nil,
		"reminder_at":  in.ReminderAt,
	}
	err = s.DB.WithContext(ctx).Model(&Note{}).
		Where("id = ? AND owner_id = ?", noteID, ownerID).
		Updates(fields).Error
	if err != nil {
		return nil, err
	}

	if in.Content != current.Content {
		go s.fillSummary(noteID, in.Content)
	}

	return s.Get(ctx, ownerID, noteID)
}

// Get returns any note owned by ownerID, soft-deleted ones included.
func (s *Service) Get(ctx context.Context, ownerID, noteID string) (*Note, error) {
	var n Note
	err := s.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", noteID, ownerID).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

type ListFilter struct {
	Tag     string
	Query   string
	Deleted bool // list the trash instead of active notes
}

func (s *Service) List(ctx context.Context, ownerID string, f ListFilter) ([]Note, error) {
	q := s.DB.WithContext(ctx).Model(&Note{}).Where("owner_id = ?", ownerID)

	if f.Deleted {
		q = q.Where("deleted_at IS NOT NULL")
	} else {
		q = q.Where("deleted_at IS NULL")
	}

	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("lower(title) LIKE ? OR lower(content) LIKE ?", like, like)
	}

	var rows []Note
	if err := q.Order("updated_at desc").Limit(50).Find(&rows).Error; err != nil {
		return nil, err
	}

	// tag filter stays in memory so the query runs identically on the
	// postgres deployment and the sqlite-backed tests
	if f.Tag != "" {
		tag := strings.ToLower(strings.TrimSpace(f.Tag))
		filtered := rows[:0]
		for _, n := range rows {
			for _, t := range n.Tags {
				if t == tag {
					filtered = append(filtered, n)
					break
				}
			}
		}
		rows = filtered
	}

	return rows, nil
}

// SoftDelete moves a note to the trash. Only the deletion timestamp is
// written; every other field, updated_at included, stays as it was.
func (s *Service) SoftDelete(ctx context.Context, ownerID, noteID string) error {
	n, err := s.Get(ctx, ownerID, noteID)
	if err != nil {
		return err
	}
	if n.DeletedAt != nil {
		return nil
	}
	now := time.Now()
	return s.DB.WithContext(ctx).Model(&Note{}).
		Where("id = ? AND owner_id = ?", noteID, ownerID).
		UpdateColumn("deleted_at", &now).Error
}

// Restore clears the deletion timestamp if the retention window has not
// passed. Nothing else about the note changes.
func (s *Service) Restore(ctx context.Context, ownerID, noteID string) error {
	n, err := s.Get(ctx, ownerID, noteID)
	if err != nil {
		return err
	}
	if n.DeletedAt == nil {
		return nil
	}
	if time.Since(*n.DeletedAt) > RetentionWindow {
		return apperr.ErrRetentionExpired
	}
	return s.DB.WithContext(ctx).Model(&Note{}).
		Where("id = ? AND owner_id = ?", noteID, ownerID).
		UpdateColumn("deleted_at", nil).Error
}

// PermanentDelete removes the document outright; subsequent reads return
// not found. Works on active and trashed notes alike.
func (s *Service) PermanentDelete(ctx context.Context, ownerID, noteID string) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", noteID, ownerID).
		Delete(&Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Service) SetReminder(ctx context.Context, ownerID, noteID string, at time.Time) error {
	res := s.DB.WithContext(ctx).Model(&Note{}).
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL", noteID, ownerID).
		Updates(map[string]any{"reminder_set": true, "reminder_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Service) ClearReminder(ctx context.Context, ownerID, noteID string) error {
	res := s.DB.WithContext(ctx).Model(&Note{}).
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL", noteID, ownerID).
		Updates(map[string]any{"reminder_set": false, "reminder_at": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
