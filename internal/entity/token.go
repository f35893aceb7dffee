package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthToken is the single bearer credential of a user. The token string is
// derived from this row, so the row itself holds no secret.
type AuthToken struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	IssuedAt  time.Time `gorm:"not null"`
	ExpiresAt *time.Time
}

func (t *AuthToken) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *AuthToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}
