package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/catalogbench/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkInserterWritesBatches(t *testing.T) {
	db := newTestDB(t)
	ins := NewBulkInserter(db, 3)
	ctx := context.Background()

	seq, err := ins.NextSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, Sequence{}, seq)

	b := NewBatchBuilder(23, seq, BuildOptions{ChunkSize: 4}, rand.New(rand.NewSource(11)))
	for {
		batch, ok := b.Next()
		if !ok {
			break
		}
		require.NoError(t, ins.InsertBatch(ctx, batch))
	}

	var tracks int64
	require.NoError(t, db.Model(&models.Track{}).Count(&tracks).Error)
	assert.Equal(t, int64(23), tracks)

	var orphans int64
	require.NoError(t, db.Model(&models.Track{}).
		Where("album_id NOT IN (SELECT id FROM albums)").Count(&orphans).Error)
	assert.Zero(t, orphans)

	var albums int64
	require.NoError(t, db.Model(&models.Album{}).Count(&albums).Error)

	seq, err = ins.NextSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(23), seq.Track)
	assert.Equal(t, albums, seq.Album)
}

func TestBulkInserterReusesExistingArtistName(t *testing.T) {
	db := newTestDB(t)
	ins := NewBulkInserter(db, 1000)
	ctx := context.Background()

	existing := models.Artist{Name: "Velo Mira"}
	require.NoError(t, db.Create(&existing).Error)

	minted := uuid.New()
	albumID := uuid.New()
	batch := &Batch{
		Artists: []models.Artist{
			{ID: minted, Name: "Velo Mira"},
			{ID: uuid.New(), Name: "Kora Tenu"},
		},
		Albums: []models.Album{
			{ID: albumID, Title: "Quiet Harbor", ArtistID: &minted},
		},
		Tracks: []models.Track{
			{ID: uuid.New(), Title: "Blue Hour", AlbumID: albumID, Keyword: "key_0"},
		},
	}
	require.NoError(t, ins.InsertBatch(ctx, batch))

	var album models.Album
	require.NoError(t, db.First(&album, "id = ?", albumID).Error)
	require.NotNil(t, album.ArtistID)
	assert.Equal(t, existing.ID, *album.ArtistID)

	var artists int64
	require.NoError(t, db.Model(&models.Artist{}).Count(&artists).Error)
	assert.Equal(t, int64(2), artists)
}

func TestBulkInserterRollsBackFailedBatch(t *testing.T) {
	db := newTestDB(t)
	ins := NewBulkInserter(db, 1000)

	artistID := uuid.New()
	albumID := uuid.New()
	trackID := uuid.New()
	batch := &Batch{
		Artists: []models.Artist{{ID: artistID, Name: "Sena Dovi"}},
		Albums:  []models.Album{{ID: albumID, Title: "Iron Meadow", ArtistID: &artistID}},
		// duplicate primary key fails the track insert
		Tracks: []models.Track{
			{ID: trackID, Title: "Lost", AlbumID: albumID},
			{ID: trackID, Title: "Found", AlbumID: albumID},
		},
	}
	require.Error(t, ins.InsertBatch(context.Background(), batch))

	var artists, albums int64
	require.NoError(t, db.Model(&models.Artist{}).Count(&artists).Error)
	require.NoError(t, db.Model(&models.Album{}).Count(&albums).Error)
	assert.Zero(t, artists)
	assert.Zero(t, albums)
}
