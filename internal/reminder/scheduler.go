// Package reminder runs the due-reminder scan. Each tick finds active notes
// whose reminder time has passed, notifies the owner once, and clears the
// reminder so later scans skip it.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"noteswift/internal/auth"
	"noteswift/internal/note"
	"noteswift/internal/notify"
)

const DefaultInterval = 60 * time.Second

type Scheduler struct {
	DB        *gorm.DB
	Transport notify.Transport
	Interval  time.Duration // zero means DefaultInterval
}

// Start launches the scan loop and returns its stop function. Stopping does
// not cancel a delivery already in flight; it just ends the loop.
func (s *Scheduler) Start() (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	return cancel
}

func (s *Scheduler) Run(ctx context.Context) {
	// catch reminders that came due while the service was down
	if err := s.Scan(ctx); err != nil {
		log.Printf("reminder scan error: %v", err)
	}

	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Scan(ctx); err != nil {
				log.Printf("reminder scan error: %v", err)
			}
		}
	}
}

// Scan processes every currently due reminder sequentially. A failed
// delivery is logged and the reminder is cleared anyway: a reminder must
// never stay stuck in the due state because the transport was down.
func (s *Scheduler) Scan(ctx context.Context) error {
	var due []note.Note
	err := s.DB.WithContext(ctx).
		Where("reminder_set = ? AND reminder_at IS NOT NULL AND reminder_at <= ? AND deleted_at IS NULL",
			true, time.Now()).
		Find(&due).Error
	if err != nil {
		return fmt.Errorf("query due reminders: %w", err)
	}

	for i := range due {
		s.fire(ctx, &due[i])
	}
	return nil
}

func (s *Scheduler) fire(ctx context.Context, n *note.Note) {
	log.Printf("[REMINDER] owner=%s note=%s title=%q", n.OwnerID, n.ID, n.Title)

	if s.Transport != nil {
		if email, err := s.ownerEmail(ctx, n.OwnerID); err != nil {
			log.Printf("reminder for note %s: owner lookup failed: %v", n.ID, err)
		} else {
			subject := fmt.Sprintf("Reminder for your note: %s", n.Title)
			body := fmt.Sprintf("This is a reminder for your note titled %q. Please log in to NoteSwift to view it.", n.Title)
			if err := s.Transport.Deliver(ctx, email, subject, body); err != nil {
				log.Printf("reminder delivery for note %s failed: %v", n.ID, err)
			}
		}
	}

	// Clear only if still set: a concurrent scheduler that already cleared
	// it wins and this update becomes a no-op. Without a transaction around
	// deliver+clear a duplicate notification stays possible; a dropped one
	// does not.
	res := s.DB.WithContext(ctx).Model(&note.Note{}).
		Where("id = ? AND reminder_set = ?", n.ID, true).
		Updates(map[string]any{"reminder_set": false, "reminder_at": nil})
	if res.Error != nil {
		log.Printf("reminder clear for note %s failed: %v", n.ID, res.Error)
	}
}

func (s *Scheduler) ownerEmail(ctx context.Context, ownerID string) (string, error) {
	var acct auth.Account
	err := s.DB.WithContext(ctx).Select("email").Where("id = ?", ownerID).First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("owner account missing")
		}
		return "", err
	}
	return acct.Email, nil
}
