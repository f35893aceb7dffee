package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Album struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name        string  `gorm:"type:varchar(255);not null"`
	Description *string `gorm:"type:text"`

	DateCreated time.Time `gorm:"autoCreateTime;index"`

	Photos []Photo `gorm:"many2many:album_photos;constraint:OnDelete:CASCADE"`
}

func (a *Album) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Album) PhotoIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(a.Photos))
	for _, photo := range a.Photos {
		ids = append(ids, photo.ID)
	}
	return ids
}
