package domain

import (
	"strings" // Email normalisation
	"time"    // Creation timestamp
)

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey"`                    // Primary key
	Name      string    `gorm:"size:120;not null"`             // Display name
	Email     string    `gorm:"size:120;uniqueIndex;not null"` // Unique, lower-cased email
	Password  string    `gorm:"size:255;not null" json:"-"`    // bcrypt hash, never plaintext
	CreatedAt time.Time `gorm:"autoCreateTime"`                // Signup timestamp

	// Lots are removed together with their owner
	Lots []Lot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// NormalizeEmail trims and lower-cases an email address so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Slug returns the local part of the email, used in export filenames
func (u *User) Slug() string {
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}
