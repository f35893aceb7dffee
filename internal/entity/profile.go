package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type UserProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Name   string  `gorm:"type:varchar(100)"`
	Phone  string  `gorm:"type:varchar(20)"`
	Gender Gender  `gorm:"type:varchar(10);default:'other';not null"`
	Avatar *string `gorm:"type:varchar(255)"`

	IsProfileComplete bool `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *UserProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Gender == "" {
		p.Gender = GenderOther
	}
	return nil
}
