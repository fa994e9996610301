package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catalogbench/backend/internal/config"
	"github.com/catalogbench/backend/internal/handlers"
	"github.com/catalogbench/backend/internal/logging"
	"github.com/catalogbench/backend/internal/middleware"
	"github.com/catalogbench/backend/internal/models"
	"github.com/catalogbench/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()
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

	redisClient := models.InitRedis(cfg, logger)
	defer redisClient.Close()

	archive, err := services.NewS3Service(cfg, logger)
	if err != nil {
		logger.Error("Failed to init report archive", "error", err)
		os.Exit(1)
	}

	// Cancelled on shutdown; an active seeding run stops after its current chunk.
	rootCtx, stopRuns := context.WithCancel(context.Background())
	defer stopRuns()

	catalogService := services.NewCatalogService(db, redisClient, cfg.StatsCacheTTL, logger)
	seederService := services.NewSeederService(rootCtx,
		services.NewBulkInserter(db, cfg.SeedRowsPerStatement),
		services.NewProgressTracker(),
		services.SeedOptionsFromConfig(cfg),
		logger)
	seederService.OnFinish(catalogService.InvalidateStats)
	benchmarkService := services.NewBenchmarkService(db, cfg.BenchmarkStrategy, cfg.BenchmarkExplain, logger)
	reportService := services.NewReportService(cfg, archive)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))

	benchmarkHandler := handlers.NewBenchmarkHandler(seederService, benchmarkService, catalogService, reportService, logger)
	musicHandler := handlers.NewMusicHandler(catalogService, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimiter(redisClient, logger, "api", cfg.RateLimitRequests, cfg.RateLimitDuration))
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		handlers.RegisterRoutes(api, benchmarkHandler, musicHandler,
			middleware.AdminAuth(cfg.AdminJWTSecret, logger),
			middleware.RateLimiter(redisClient, logger, "benchmark", cfg.BenchmarkRateLimitRequests, cfg.RateLimitDuration))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // full-scan comparisons on large catalogs
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "db", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	stopRuns()
	seederService.Wait()

	logger.Info("Server exited")
}
