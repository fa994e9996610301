package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/catalogbench/backend/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const statsCacheKey = "catalog:stats"

var (
	ErrArtistNotFound = errors.New("artist not found")
	ErrArtistExists   = errors.New("artist name already taken")
	ErrArtistName     = errors.New("artist name is required")
)

type CatalogStats struct {
	Artists   int64     `json:"artists"`
	Albums    int64     `json:"albums"`
	Tracks    int64     `json:"tracks"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CatalogService serves plain catalog reads and artist maintenance.
type CatalogService struct {
	db       *gorm.DB
	redis    *redis.Client // optional
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewCatalogService(db *gorm.DB, redisClient *redis.Client, cacheTTL time.Duration, log *slog.Logger) *CatalogService {
	return &CatalogService{
		db:       db,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// ListTracks returns a page of tracks in benchmark order.
func (s *CatalogService) ListTracks(ctx context.Context, page, limit int) ([]models.Track, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxSearchLimit {
		limit = DefaultSearchLimit
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Track{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tracks: %w", err)
	}

	var tracks []models.Track
	if err := s.db.WithContext(ctx).
		Select("id", "title", "artist_name", "album_title", "track_number", "duration", "extension", "keyword", "benchmark_order", "album_id").
		Order("benchmark_order ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&tracks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, total, nil
}

// Stats counts catalog rows, served from Redis when a fresh copy exists.
// Cache failures fall through to the database.
func (s *CatalogService) Stats(ctx context.Context) (*CatalogStats, error) {
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			var cached CatalogStats
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn("Stats cache read failed", "error", err)
		}
	}

	stats := &CatalogStats{UpdatedAt: time.Now().UTC()}
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Artist{}).Count(&stats.Artists).Error; err != nil {
		return nil, fmt.Errorf("failed to count artists: %w", err)
	}
	if err := db.Model(&models.Album{}).Count(&stats.Albums).Error; err != nil {
		return nil, fmt.Errorf("failed to count albums: %w", err)
	}
	if err := db.Model(&models.Track{}).Count(&stats.Tracks).Error; err != nil {
		return nil, fmt.Errorf("failed to count tracks: %w", err)
	}

	if s.redis != nil && s.cacheTTL > 0 {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.log.Warn("Stats cache write failed", "error", err)
			}
		}
	}
	return stats, nil
}

// InvalidateStats drops the cached counts.
func (s *CatalogService) InvalidateStats(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, statsCacheKey).Err(); err != nil {
		s.log.Warn("Stats cache invalidation failed", "error", err)
	}
}

func (s *CatalogService) ListArtists(ctx context.Context, search string, page, limit int) ([]models.Artist, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxSearchLimit {
		limit = DefaultSearchLimit
	}

	scoped := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Artist{})
		if search = strings.TrimSpace(search); search != "" {
			q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+EscapeLike(strings.ToLower(search))+"%")
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count artists: %w", err)
	}

	var artists []models.Artist
	if err := scoped().Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&artists).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, total, nil
}

func (s *CatalogService) GetArtist(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	var artist models.Artist
	err := s.db.WithContext(ctx).
		Preload("Albums", func(db *gorm.DB) *gorm.DB { return db.Order("release_year ASC") }).
		First(&artist, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load artist: %w", err)
	}
	return &artist, nil
}

func (s *CatalogService) CreateArtist(ctx context.Context, name string) (*models.Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrArtistName
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	artist := &models.Artist{Name: name}
	if err := s.db.WithContext(ctx).Create(artist).Error; err != nil {
		return nil, fmt.Errorf("failed to create artist: %w", err)
	}
	s.InvalidateStats(ctx)
	return artist, nil
}

// RenameArtist changes the stored name only. Track rows keep the name they
// were generated with.
func (s *CatalogService) RenameArtist(ctx context.Context, id uuid.UUID, name string) (*models.Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrArtistName
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&models.Artist{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to rename artist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrArtistNotFound
	}
	return s.GetArtist(ctx, id)
}

// DeleteArtist removes the artist and detaches its albums.
func (s *CatalogService) DeleteArtist(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Album{}).Where("artist_id = ?", id).Update("artist_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach albums: %w", err)
		}
		res := tx.Delete(&models.Artist{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete artist: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrArtistNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.InvalidateStats(ctx)
	return nil
}

func (s *CatalogService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.Artist{}).Where("name = ?", name)
	if self != uuid.Nil {
		q = q.Where("id <> ?", self)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check artist name: %w", err)
	}
	if count > 0 {
		return ErrArtistExists
	}
	return nil
}
