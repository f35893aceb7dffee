package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SecurityAction string

const (
	OTPRequested      SecurityAction = "otp_requested"
	OTPDeliveryFailed SecurityAction = "otp_delivery_failed"
	LoginSuccess      SecurityAction = "login_success"
	LoginFailed       SecurityAction = "login_failed"
	Logout            SecurityAction = "logout"
	ProfileCompleted  SecurityAction = "profile_completed"
)

type SecurityLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`

	IPAddress *string        `gorm:"type:varchar(45)"`
	Action    SecurityAction `gorm:"type:varchar(32);not null;index"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}

func (l *SecurityLog) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
