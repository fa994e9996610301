package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/catalogbench/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogWriter persists generated batches.
type CatalogWriter interface {
	// NextSequence reports where a new run continues numbering.
	NextSequence(ctx context.Context) (Sequence, error)
	// InsertBatch writes one batch atomically.
	InsertBatch(ctx context.Context, batch *Batch) error
}

// BulkInserter writes batches with multi-row INSERTs, parents first, one
// transaction per batch.
type BulkInserter struct {
	db               *gorm.DB
	rowsPerStatement int
}

func NewBulkInserter(db *gorm.DB, rowsPerStatement int) *BulkInserter {
	if rowsPerStatement <= 0 {
		rowsPerStatement = 1000
	}
	return &BulkInserter{
		db:               db,
		rowsPerStatement: rowsPerStatement,
	}
}

func (b *BulkInserter) NextSequence(ctx context.Context) (Sequence, error) {
	var seq Sequence

	var maxOrder sql.NullInt64
	row := b.db.WithContext(ctx).Model(&models.Track{}).Select("MAX(benchmark_order)").Row()
	if err := row.Scan(&maxOrder); err != nil {
		return seq, fmt.Errorf("failed to read benchmark order: %w", err)
	}
	if maxOrder.Valid {
		seq.Track = maxOrder.Int64 + 1
	}

	if err := b.db.WithContext(ctx).Model(&models.Album{}).Count(&seq.Album).Error; err != nil {
		return seq, fmt.Errorf("failed to count albums: %w", err)
	}
	return seq, nil
}

func (b *BulkInserter) InsertBatch(ctx context.Context, batch *Batch) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(batch.Artists) > 0 {
			if err := b.insertArtists(tx, batch); err != nil {
				return err
			}
		}
		if len(batch.Albums) > 0 {
			if err := tx.CreateInBatches(&batch.Albums, b.rowsPerStatement).Error; err != nil {
				return fmt.Errorf("failed to insert albums: %w", err)
			}
		}
		if len(batch.Tracks) > 0 {
			if err := tx.CreateInBatches(&batch.Tracks, b.rowsPerStatement).Error; err != nil {
				return fmt.Errorf("failed to insert tracks: %w", err)
			}
		}
		return nil
	})
}

// insertArtists skips names that already exist. When any were skipped, the
// albums of this batch are pointed at the stored artist instead.
func (b *BulkInserter) insertArtists(tx *gorm.DB, batch *Batch) error {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).CreateInBatches(&batch.Artists, b.rowsPerStatement)
	if res.Error != nil {
		return fmt.Errorf("failed to insert artists: %w", res.Error)
	}
	if res.RowsAffected == int64(len(batch.Artists)) {
		return nil
	}

	names := make([]string, 0, len(batch.Artists))
	seen := make(map[string]struct{}, len(batch.Artists))
	for _, a := range batch.Artists {
		if _, ok := seen[a.Name]; !ok {
			seen[a.Name] = struct{}{}
			names = append(names, a.Name)
		}
	}

	var stored []models.Artist
	if err := tx.Select("id", "name").Where("name IN ?", names).Find(&stored).Error; err != nil {
		return fmt.Errorf("failed to resolve artist names: %w", err)
	}
	canonical := make(map[string]uuid.UUID, len(stored))
	for _, a := range stored {
		canonical[a.Name] = a.ID
	}

	remap := make(map[uuid.UUID]uuid.UUID)
	for i := range batch.Artists {
		a := &batch.Artists[i]
		id, ok := canonical[a.Name]
		if !ok {
			return fmt.Errorf("artist %q missing after insert", a.Name)
		}
		if id != a.ID {
			remap[a.ID] = id
			a.ID = id
		}
	}
	for i := range batch.Albums {
		album := &batch.Albums[i]
		if album.ArtistID == nil {
			continue
		}
		if id, ok := remap[*album.ArtistID]; ok {
			album.ArtistID = &id
		}
	}
	return nil
}
