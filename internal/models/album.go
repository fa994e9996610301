package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Album struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	ReleaseYear int        `gorm:"type:smallint" json:"releaseYear"`
	BitDepth    int        `gorm:"type:smallint;default:16" json:"bitDepth"`
	SampleRate  float64    `gorm:"type:decimal(5,2)" json:"sampleRate"` // kHz
	CoverPath   string     `gorm:"size:500" json:"coverPath,omitempty"`
	ArtistID    *uuid.UUID `gorm:"type:uuid;index" json:"artistId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Artist *Artist `gorm:"constraint:OnDelete:SET NULL" json:"artist,omitempty"`
	Tracks []Track `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"tracks,omitempty"`
}

// BeforeCreate generates a UUID if not set
func (a *Album) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// FolderName is the release folder as a ripper would name it, e.g.
// "Arctic Monkeys - AM (2013) [24B-44.1kHz]". It is derived from stored
// columns and never persisted.
func FolderName(artistName, title string, year, bitDepth int, sampleRateKHz float64) string {
	return fmt.Sprintf("%s - %s (%d) [%dB-%skHz]",
		artistName, title, year, bitDepth, strconv.FormatFloat(sampleRateKHz, 'f', -1, 64))
}

// FolderName rebuilds the display folder for an album whose artist is known.
func (a *Album) FolderName(artistName string) string {
	return FolderName(artistName, a.Title, a.ReleaseYear, a.BitDepth, a.SampleRate)
}
