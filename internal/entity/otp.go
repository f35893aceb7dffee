package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OneTimePassword struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`

	// CodeHash is the bcrypt hash of the last issued code.
	CodeHash  *string    `gorm:"type:text" json:"code_hash,omitempty"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (o *OneTimePassword) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsValid reports whether the code has not yet expired at now.
func (o *OneTimePassword) IsValid(now time.Time) bool {
	return o.ExpiresAt != nil && o.ExpiresAt.After(now)
}
