package auth

import "time"

// MinUsernameLength is the floor enforced on signup and rename.
const MinUsernameLength = 3

// Account is the identity-provider record and the denormalized profile in
// one row. Claims are authoritative for authorization; Role mirrors
// claims["role"] (or "superadmin" when the flag is set) for queries.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Claims       Claims    `gorm:"type:jsonb;not null;default:'{}'"`
	Role         string    `gorm:"not null;default:'user'"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}
