package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Artist is a performer. Names are unique; seeding tolerates collisions.
type Artist struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	PicturePath string    `gorm:"size:500" json:"picturePath,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Albums []Album `gorm:"foreignKey:ArtistID;constraint:OnDelete:SET NULL" json:"albums,omitempty"`
}

// BeforeCreate generates a UUID if not set
func (a *Artist) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
