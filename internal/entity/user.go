package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Role     UserRole  `gorm:"type:varchar(16);default:'user';not null"`
	IsActive bool      `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Profile *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsProfileComplete reports the completion flag of the loaded profile.
func (u *User) IsProfileComplete() bool {
	return u.Profile != nil && u.Profile.IsProfileComplete
}
