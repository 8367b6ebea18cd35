package note

import (
	"time"

	"github.com/lib/pq"
)

// RetentionWindow is how long a soft-deleted note stays restorable. Nothing
// purges expired notes automatically; the window is enforced on restore.
const RetentionWindow = 30 * 24 * time.Hour

// Note is a user-authored document. Deletion is soft: DeletedAt set means
// the note is in the trash, the document itself stays intact until an
// explicit permanent delete. Summary may be empty briefly after creation;
// it is filled in asynchronously.
type Note struct {
	ID      string `gorm:"primaryKey;size:36"`
	OwnerID string `gorm:"index;size:36;not null"`
	Title   string `gorm:"not null"`
	Content string `gorm:"type:text;not null;default:''"`

	Tags pq.StringArray `gorm:"type:text[];not null;default:'{}'"`

	Summary string `gorm:"type:text;not null;default:''"`

	ReminderSet bool       `gorm:"not null;default:false"`
	ReminderAt  *time.Time `gorm:"type:timestamptz"`

	DeletedAt *time.Time `gorm:"type:timestamptz;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"index;not null"`
}

func (n *Note) Active() bool {
	return n.DeletedAt == nil
}

// ReminderDue reports whether the reminder should fire: flag set, timestamp
// present, and the timestamp at or before now.
func (n *Note) ReminderDue(now time.Time) bool {
	return n.ReminderSet && n.ReminderAt != nil && !n.ReminderAt.After(now)
}
