package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Seeding
	SeedTracks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_seed_tracks_total",
		Help: "Tracks committed by seeding runs",
	})

	SeedRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_seed_runs_total",
		Help: "Finished seeding runs by result",
	}, []string{"result"})

	SeedChunkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_seed_chunk_duration_seconds",
		Help:    "Time to commit one seeding chunk",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	SeedInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_seed_in_progress",
		Help: "1 while a seeding run is active",
	})

	// Benchmark
	BenchmarkQuery = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_benchmark_query_seconds",
		Help:    "Duration of benchmark lookups by access path",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"path", "strategy"})
)
