package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/catalogbench/backend/internal/config"
	"github.com/catalogbench/backend/internal/logging"
	"github.com/catalogbench/backend/internal/models"
	"github.com/catalogbench/backend/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()
	count := flag.Int("count", cfg.SeedDefaultCount, "number of tracks to generate")
	flag.IntVar(&cfg.SeedChunkSize, "chunk", cfg.SeedChunkSize, "tracks per transaction")
	flag.Int64Var(&cfg.SeedRandomSeed, "seed", cfg.SeedRandomSeed, "random seed, 0 for time based")
	flag.Parse()

	logger := logging.SetupLogger(cfg)

	db, err := models.InitDB(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	if err := models.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seeder := services.NewSeederService(ctx,
		services.NewBulkInserter(db, cfg.SeedRowsPerStatement),
		services.NewProgressTracker(),
		services.SeedOptionsFromConfig(cfg),
		logger)

	res, err := seeder.Run(ctx, *count)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Seeding interrupted", "created", res.Created)
		} else {
			logger.Error("Seeding failed", "created", res.Created, "error", err)
		}
		os.Exit(1)
	}

	logger.Info("Done", "created", res.Created, "chunks", res.Chunks, "duration", res.Duration)
}
