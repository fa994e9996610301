package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 1000000, cfg.SeedDefaultCount)
	assert.Equal(t, 2000, cfg.SeedChunkSize)
	assert.Equal(t, 1000, cfg.SeedRowsPerStatement)
	assert.Equal(t, "planner", cfg.BenchmarkStrategy)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	assert.Equal(t, time.Duration(0), cfg.SeedChunkPause)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SEED_CHUNK_SIZE", "500")
	t.Setenv("SEED_CHUNK_PAUSE", "25ms")
	t.Setenv("SEED_RANDOM_SEED", "42")
	t.Setenv("BENCHMARK_EXPLAIN", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := New()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 500, cfg.SeedChunkSize)
	assert.Equal(t, 25*time.Millisecond, cfg.SeedChunkPause)
	assert.Equal(t, int64(42), cfg.SeedRandomSeed)
	assert.True(t, cfg.BenchmarkExplain)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("SEED_CHUNK_SIZE", "lots")
	t.Setenv("STATS_CACHE_TTL", "soon")
	t.Setenv("BENCHMARK_EXPLAIN", "perhaps")

	cfg := New()

	assert.Equal(t, 2000, cfg.SeedChunkSize)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	assert.False(t, cfg.BenchmarkExplain)
}
