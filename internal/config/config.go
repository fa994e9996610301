package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Env         string
	FrontendURL string

	// Database
	DBDriver          string // "postgres" | "sqlite"
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBTimeZone        string
	SQLitePath        string
	DBLogLevel        string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration

	// Seeding
	SeedDefaultCount       int
	SeedMaxCount           int
	SeedChunkSize          int
	SeedRowsPerStatement   int
	SeedMinAlbumsPerArtist int
	SeedMaxAlbumsPerArtist int
	SeedMinTracksPerAlbum  int
	SeedMaxTracksPerAlbum  int
	SeedChunkPause         time.Duration
	SeedRandomSeed         int64 // 0 = time based

	// Benchmark
	BenchmarkStrategy string // "planner" | "structural"
	BenchmarkExplain  bool

	// Admin
	AdminJWTSecret     string
	AdminTokenDuration time.Duration

	// Security
	RateLimitRequests          int
	RateLimitDuration          time.Duration
	BenchmarkRateLimitRequests int

	// CORS
	AllowedOrigins []string

	// Logging
	LogLevel  string
	LogFormat string

	// Report archive (S3 compatible)
	ReportS3Endpoint        string
	ReportS3Region          string
	ReportS3AccessKeyID     string
	ReportS3SecretAccessKey string
	ReportS3UsePathStyle    bool
	ReportBucket            string
	ReportURLTTL            time.Duration
}

func New() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "4000"),
		Env:         getEnv("ENV", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Database
		DBDriver:          getEnv("DB_DRIVER", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "music"),
		DBPassword:        getEnv("DB_PASSWORD", "password"),
		DBName:            getEnv("DB_NAME", "music_db"),
		DBSSLMode:         getEnv("DB_SSL_MODE", "disable"),
		DBTimeZone:        getEnv("DB_TIMEZONE", "UTC"),
		SQLitePath:        getEnv("SQLITE_PATH", "catalog.db"),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "1h"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		StatsCacheTTL: getEnvAsDuration("STATS_CACHE_TTL", "30s"),

		// Seeding
		SeedDefaultCount:       getEnvAsInt("SEED_DEFAULT_COUNT", 1000000),
		SeedMaxCount:           getEnvAsInt("SEED_MAX_COUNT", 10000000),
		SeedChunkSize:          getEnvAsInt("SEED_CHUNK_SIZE", 2000),
		SeedRowsPerStatement:   getEnvAsInt("SEED_ROWS_PER_STATEMENT", 1000),
		SeedMinAlbumsPerArtist: getEnvAsInt("SEED_MIN_ALBUMS_PER_ARTIST", 1),
		SeedMaxAlbumsPerArtist: getEnvAsInt("SEED_MAX_ALBUMS_PER_ARTIST", 2),
		SeedMinTracksPerAlbum:  getEnvAsInt("SEED_MIN_TRACKS_PER_ALBUM", 4),
		SeedMaxTracksPerAlbum:  getEnvAsInt("SEED_MAX_TRACKS_PER_ALBUM", 5),
		SeedChunkPause:         getEnvAsDuration("SEED_CHUNK_PAUSE", "0s"),
		SeedRandomSeed:         int64(getEnvAsInt("SEED_RANDOM_SEED", 0)),

		// Benchmark
		BenchmarkStrategy: getEnv("BENCHMARK_STRATEGY", "planner"),
		BenchmarkExplain:  getEnvAsBool("BENCHMARK_EXPLAIN", false),

		// Admin
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		AdminTokenDuration: getEnvAsDuration("ADMIN_TOKEN_DURATION", "24h"),

		// Security
		RateLimitRequests:          getEnvAsInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitDuration:          getEnvAsDuration("RATE_LIMIT_DURATION", "1m"),
		BenchmarkRateLimitRequests: getEnvAsInt("BENCHMARK_RATE_LIMIT_REQUESTS", 30),

		// CORS
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "logfmt"),

		// Report archive
		ReportS3Endpoint:        getEnv("REPORT_S3_ENDPOINT", ""),
		ReportS3Region:          getEnv("REPORT_S3_REGION", "us-east-1"),
		ReportS3AccessKeyID:     getEnv("REPORT_S3_ACCESS_KEY_ID", ""),
		ReportS3SecretAccessKey: getEnv("REPORT_S3_SECRET_ACCESS_KEY", ""),
		ReportS3UsePathStyle:    getEnvAsBool("REPORT_S3_USE_PATH_STYLE", true),
		ReportBucket:            getEnv("REPORT_S3_BUCKET", ""),
		ReportURLTTL:            getEnvAsDuration("REPORT_URL_TTL", "1h"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Hour
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
