package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/catalogbench/backend/internal/config"
	"github.com/catalogbench/backend/internal/metrics"
)

var ErrSeedInProgress = errors.New("seeding already in progress")

type SeedOptions struct {
	Build        BuildOptions
	DefaultCount int
	MaxCount     int
	ChunkPause   time.Duration
	RandomSeed   int64 // 0 = time based
}

func SeedOptionsFromConfig(cfg *config.Config) SeedOptions {
	return SeedOptions{
		Build: BuildOptions{
			ChunkSize:          cfg.SeedChunkSize,
			MinAlbumsPerArtist: cfg.SeedMinAlbumsPerArtist,
			MaxAlbumsPerArtist: cfg.SeedMaxAlbumsPerArtist,
			MinTracksPerAlbum:  cfg.SeedMinTracksPerAlbum,
			MaxTracksPerAlbum:  cfg.SeedMaxTracksPerAlbum,
		},
		DefaultCount: cfg.SeedDefaultCount,
		MaxCount:     cfg.SeedMaxCount,
		ChunkPause:   cfg.SeedChunkPause,
		RandomSeed:   cfg.SeedRandomSeed,
	}
}

type SeedResult struct {
	Created  int           `json:"created"`
	Chunks   int           `json:"chunks"`
	Duration time.Duration `json:"duration"`
}

// SeederService drives batch generation and insertion for one run at a time.
type SeederService struct {
	writer  CatalogWriter
	tracker *ProgressTracker
	opts    SeedOptions
	log     *slog.Logger

	// background runs outlive the request that started them
	baseCtx context.Context
	wg      sync.WaitGroup

	onFinish []func(ctx context.Context)
}

func NewSeederService(ctx context.Context, writer CatalogWriter, tracker *ProgressTracker, opts SeedOptions, log *slog.Logger) *SeederService {
	return &SeederService{
		writer:  writer,
		tracker: tracker,
		opts:    opts,
		log:     log,
		baseCtx: ctx,
	}
}

// OnFinish registers fn to run after every run, successful or not.
func (s *SeederService) OnFinish(fn func(ctx context.Context)) {
	s.onFinish = append(s.onFinish, fn)
}

// Target resolves a requested count: non-positive means the default, and
// anything above the maximum is capped.
func (s *SeederService) Target(requested int) int {
	target := requested
	if target <= 0 {
		target = s.opts.DefaultCount
	}
	if s.opts.MaxCount > 0 && target > s.opts.MaxCount {
		target = s.opts.MaxCount
	}
	if target <= 0 {
		target = 1
	}
	return target
}

// Seed starts a background run and returns immediately. accepted is false
// when another run is active; nothing is started in that case.
func (s *SeederService) Seed(requested int) (accepted bool, target int) {
	target = s.Target(requested)
	if !s.tracker.Start(target) {
		s.log.Warn("Seed request rejected, run already active", "requested", requested)
		return false, target
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.run(s.baseCtx, target); err != nil {
			s.log.Error("Seeding run failed", "error", err)
		}
	}()
	return true, target
}

// Run seeds synchronously on the caller's goroutine.
func (s *SeederService) Run(ctx context.Context, requested int) (SeedResult, error) {
	target := s.Target(requested)
	if !s.tracker.Start(target) {
		return SeedResult{}, ErrSeedInProgress
	}
	return s.run(ctx, target)
}

// Wait blocks until background runs have returned.
func (s *SeederService) Wait() {
	s.wg.Wait()
}

func (s *SeederService) Progress() Progress {
	return s.tracker.Snapshot()
}

func (s *SeederService) run(ctx context.Context, target int) (res SeedResult, err error) {
	started := time.Now()
	metrics.SeedInProgress.Set(1)
	s.log.Info("Seeding started", "target", target, "chunk_size", s.opts.Build.ChunkSize)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("seeding panicked: %v", r)
		}
		res.Duration = time.Since(started)
		s.tracker.Finish(err)
		metrics.SeedInProgress.Set(0)

		result := "success"
		if err != nil {
			result = "failure"
		}
		metrics.SeedRuns.WithLabelValues(result).Inc()

		// cleanup must not depend on a cancelled run context
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		for _, fn := range s.onFinish {
			fn(cleanupCtx)
		}

		if err != nil {
			s.log.Error("Seeding stopped", "created", res.Created, "target", target, "chunks", res.Chunks, "error", err)
			return
		}
		s.log.Info("Seeding finished", "created", res.Created, "chunks", res.Chunks, "duration", res.Duration.Round(time.Millisecond))
	}()

	seq, err := s.writer.NextSequence(ctx)
	if err != nil {
		return res, err
	}

	seed := s.opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	builder := NewBatchBuilder(target, seq, s.opts.Build, rand.New(rand.NewSource(seed)))

	lastLogged := 0
	for {
		if err = ctx.Err(); err != nil {
			return res, err
		}

		batch, ok := builder.Next()
		if !ok {
			break
		}

		chunkStarted := time.Now()
		if err = s.writer.InsertBatch(ctx, batch); err != nil {
			return res, fmt.Errorf("chunk %d: %w", batch.Index, err)
		}
		metrics.SeedChunkDuration.Observe(time.Since(chunkStarted).Seconds())
		metrics.SeedTracks.Add(float64(len(batch.Tracks)))

		res.Created += len(batch.Tracks)
		res.Chunks++
		s.tracker.Advance(len(batch.Tracks))

		if pct := percentOf(res.Created, target); pct/10 > lastLogged/10 {
			lastLogged = pct
			s.log.Info("Seeding progress", "created", res.Created, "target", target, "percent", pct)
		}
		s.log.Debug("Chunk committed",
			"chunk", batch.Index,
			"artists", len(batch.Artists),
			"albums", len(batch.Albums),
			"tracks", len(batch.Tracks),
			"elapsed", time.Since(chunkStarted))

		if s.opts.ChunkPause > 0 {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				return res, err
			case <-time.After(s.opts.ChunkPause):
			}
		}
	}

	return res, nil
}
