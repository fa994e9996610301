package services

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"path"
	"strconv"
	"strings"

	"github.com/catalogbench/backend/internal/models"
	"github.com/catalogbench/backend/internal/pkg/namegen"
	"github.com/google/uuid"
)

const keywordPrefix = "key_"

var (
	albumBitDepths   = []int{16, 24}
	albumSampleRates = []float64{44.1, 48.0, 96.0}
)

// Batch is one chunk of rows to be written in a single transaction.
// Albums only reference artists in the same batch (or already stored);
// tracks only reference albums in the same or an earlier batch.
type Batch struct {
	Index   int
	Artists []models.Artist
	Albums  []models.Album
	Tracks  []models.Track
}

// Sequence holds the counters a run continues from, so benchmark order and
// generated titles never repeat across runs.
type Sequence struct {
	Track int64
	Album int64
}

// BuildOptions tunes the shape of the generated catalog.
type BuildOptions struct {
	ChunkSize          int // tracks per chunk
	MinAlbumsPerArtist int
	MaxAlbumsPerArtist int
	MinTracksPerAlbum  int
	MaxTracksPerAlbum  int
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = 2000
	}
	if o.MinAlbumsPerArtist <= 0 {
		o.MinAlbumsPerArtist = 1
	}
	if o.MaxAlbumsPerArtist < o.MinAlbumsPerArtist {
		o.MaxAlbumsPerArtist = o.MinAlbumsPerArtist
	}
	if o.MinTracksPerAlbum <= 0 {
		o.MinTracksPerAlbum = 4
	}
	if o.MaxTracksPerAlbum < o.MinTracksPerAlbum {
		o.MaxTracksPerAlbum = o.MinTracksPerAlbum
	}
	return o
}

// MintID pre-allocates an identifier from r so child rows can point at a
// parent before the parent is committed.
func MintID(r io.Reader) uuid.UUID {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		panic(fmt.Sprintf("mint id: %v", err))
	}
	return id
}

// BenchmarkKeyword is the indexed search token stored on the track with the
// given benchmark order.
func BenchmarkKeyword(order int64) string {
	return keywordPrefix + strconv.FormatInt(order, 10)
}

// ParseBenchmarkKeyword recovers the benchmark order from a keyword.
func ParseBenchmarkKeyword(keyword string) (int64, bool) {
	if !strings.HasPrefix(keyword, keywordPrefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(keyword, keywordPrefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

type openArtist struct {
	id         uuid.UUID
	name       string
	albumsLeft int
}

type openAlbum struct {
	id         uuid.UUID
	title      string
	artistName string
	folder     string
	bitDepth   int
	sampleRate float64
	tracksLeft int
	nextNumber int
}

// BatchBuilder emits batches until exactly target tracks were produced.
// An album cut by a chunk boundary keeps receiving tracks in the next chunk;
// an artist never spans chunks.
type BatchBuilder struct {
	opts   BuildOptions
	target int

	rng         *rand.Rand
	names       *namegen.Generator
	trackTitles *namegen.TitleGenerator
	albumTitles *namegen.TitleGenerator

	emitted  int
	chunks   int
	trackSeq int64
	albumSeq int64

	artist *openArtist
	album  *openAlbum
}

func NewBatchBuilder(target int, start Sequence, opts BuildOptions, rng *rand.Rand) *BatchBuilder {
	return &BatchBuilder{
		opts:        opts.withDefaults(),
		target:      target,
		rng:         rng,
		names:       namegen.New(rng),
		trackTitles: namegen.TrackTitles(),
		albumTitles: namegen.AlbumTitles(),
		trackSeq:    start.Track,
		albumSeq:    start.Album,
	}
}

// Emitted is the number of tracks handed out so far.
func (b *BatchBuilder) Emitted() int {
	return b.emitted
}

// Next returns the following batch, or false once the target is reached.
func (b *BatchBuilder) Next() (*Batch, bool) {
	if b.emitted >= b.target {
		return nil, false
	}

	quota := b.target - b.emitted
	if quota > b.opts.ChunkSize {
		quota = b.opts.ChunkSize
	}

	batch := &Batch{
		Index:  b.chunks,
		Tracks: make([]models.Track, 0, quota),
	}
	for len(batch.Tracks) < quota {
		if b.album == nil || b.album.tracksLeft == 0 {
			b.openAlbum(batch)
		}
		b.emitTrack(batch)
	}

	b.artist = nil
	b.chunks++
	return batch, true
}

func (b *BatchBuilder) openArtist(batch *Batch) {
	id := MintID(b.rng)
	name := b.names.Generate(2, 3)
	batch.Artists = append(batch.Artists, models.Artist{
		ID:          id,
		Name:        name,
		PicturePath: "artists/covers/" + id.String() + ".jpg",
	})
	b.artist = &openArtist{
		id:         id,
		name:       name,
		albumsLeft: b.between(b.opts.MinAlbumsPerArtist, b.opts.MaxAlbumsPerArtist),
	}
}

func (b *BatchBuilder) openAlbum(batch *Batch) {
	if b.artist == nil || b.artist.albumsLeft == 0 {
		b.openArtist(batch)
	}
	b.artist.albumsLeft--

	title := b.albumTitles.Title(b.albumSeq)
	b.albumSeq++
	year := b.between(1990, 2024)
	bitDepth := albumBitDepths[b.rng.Intn(len(albumBitDepths))]
	sampleRate := albumSampleRates[b.rng.Intn(len(albumSampleRates))]
	folder := models.FolderName(b.artist.name, title, year, bitDepth, sampleRate)

	artistID := b.artist.id
	album := models.Album{
		ID:          MintID(b.rng),
		Title:       title,
		ReleaseYear: year,
		BitDepth:    bitDepth,
		SampleRate:  sampleRate,
		CoverPath:   path.Join(b.artist.name, folder, "cover.jpg"),
		ArtistID:    &artistID,
	}
	batch.Albums = append(batch.Albums, album)

	b.album = &openAlbum{
		id:         album.ID,
		title:      title,
		artistName: b.artist.name,
		folder:     folder,
		bitDepth:   bitDepth,
		sampleRate: sampleRate,
		tracksLeft: b.between(b.opts.MinTracksPerAlbum, b.opts.MaxTracksPerAlbum),
		nextNumber: 1,
	}
}

func (b *BatchBuilder) emitTrack(batch *Batch) {
	a := b.album
	order := b.trackSeq
	title := b.trackTitles.Title(order)
	fileName := fmt.Sprintf("%02d. %s.flac", a.nextNumber, title)

	batch.Tracks = append(batch.Tracks, models.Track{
		ID:             MintID(b.rng),
		Title:          title,
		FileName:       fileName,
		RelativePath:   path.Join(a.artistName, a.folder, fileName),
		ArtistName:     a.artistName,
		AlbumTitle:     a.title,
		TrackNumber:    a.nextNumber,
		Duration:       b.between(150, 450),
		Bitrate:        bitrateFor(a.bitDepth),
		SampleRate:     int(math.Round(a.sampleRate * 1000)),
		BitDepth:       a.bitDepth,
		FileSize:       20_000_000 + b.rng.Int63n(30_000_001),
		Extension:      "flac",
		Keyword:        BenchmarkKeyword(order),
		BenchmarkOrder: order,
		AlbumID:        a.id,
	})

	a.tracksLeft--
	a.nextNumber++
	b.trackSeq++
	b.emitted++
}

func (b *BatchBuilder) between(lo, hi int) int {
	return lo + b.rng.Intn(hi-lo+1)
}

// bitrateFor returns the nominal FLAC bitrate in kbps for a bit depth.
func bitrateFor(bitDepth int) int {
	if bitDepth == 24 {
		return 2116
	}
	return 1411
}
