package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Track is a single audio file. ArtistName and AlbumTitle are copies of the
// parent chain kept on the row so listing and search never join; they are not
// resynchronised if a parent is renamed.
type Track struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null;index" json:"title"`
	FileName     string    `gorm:"size:500" json:"fileName"`
	RelativePath string    `gorm:"size:1000" json:"relativePath,omitempty"`
	ArtistName   string    `gorm:"size:255" json:"artistName"`
	AlbumTitle   string    `gorm:"size:255" json:"albumTitle"`
	TrackNumber  int       `gorm:"default:1" json:"trackNumber"`

	// Technical fields
	Duration   int    `json:"duration"`   // seconds
	Bitrate    int    `json:"bitrate"`    // kbps
	SampleRate int    `json:"sampleRate"` // Hz
	BitDepth   int    `gorm:"type:smallint" json:"bitDepth"`
	FileSize   int64  `json:"fileSize"` // bytes
	Extension  string `gorm:"size:10;default:flac" json:"extension"`

	// Benchmark columns. Keyword is indexed, BenchmarkOrder deliberately is not.
	Keyword        string `gorm:"size:100;index" json:"keyword"`
	BenchmarkOrder int64  `json:"benchmarkOrder"`

	AlbumID uuid.UUID `gorm:"type:uuid;not null;index" json:"albumId"`
	Album   *Album    `gorm:"constraint:OnDelete:CASCADE" json:"album,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName is fixed because benchmark queries are written against it.
func (Track) TableName() string {
	return "tracks"
}

// BeforeCreate generates a UUID if not set
func (t *Track) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
