package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/catalogbench/backend/internal/config"
	"github.com/catalogbench/backend/internal/middleware"
	"github.com/catalogbench/backend/internal/models"
	"github.com/catalogbench/backend/internal/services"
	"github.com/catalogbench/backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	router *gin.Engine
	seeder *services.SeederService
	db     *gorm.DB
}

func newTestServer(t *testing.T, adminSecret string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := gorm.Open(models.OpenSQLite(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{FrontendURL: "http://localhost:3000"}
	catalog := services.NewCatalogService(db, nil, 0, log)
	seeder := services.NewSeederService(context.Background(), services.NewBulkInserter(db, 1000), services.NewProgressTracker(), services.SeedOptions{
		Build:        services.BuildOptions{ChunkSize: 5},
		DefaultCount: 10,
		MaxCount:     100,
		RandomSeed:   5,
	}, log)
	seeder.OnFinish(catalog.InvalidateStats)
	bench := services.NewBenchmarkService(db, services.StrategyPlanner, false, log)
	reports := services.NewReportService(cfg, nil)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"),
		NewBenchmarkHandler(seeder, bench, catalog, reports, log),
		NewMusicHandler(catalog, log),
		middleware.AdminAuth(adminSecret, log),
		func(c *gin.Context) { c.Next() })

	t.Cleanup(seeder.Wait)
	return &testServer{router: router, seeder: seeder, db: db}
}

func (s *testServer) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestSeedThenSearch(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodPost, "/api/v1/benchmark/seed?count=10", "")
	require.Equal(t, http.StatusAccepted, w.Code)
	var seed struct {
		Accepted bool `json:"accepted"`
		Target   int  `json:"target"`
	}
	decode(t, w, &seed)
	assert.True(t, seed.Accepted)
	assert.Equal(t, 10, seed.Target)

	s.seeder.Wait()

	w = s.do(http.MethodGet, "/api/v1/benchmark/progress", "")
	require.Equal(t, http.StatusOK, w.Code)
	var progress services.Progress
	decode(t, w, &progress)
	assert.False(t, progress.IsSeeding)
	assert.Equal(t, 10, progress.Current)
	assert.Equal(t, 10, progress.Total)
	assert.Equal(t, 100, progress.Progress)

	w = s.do(http.MethodGet, "/api/v1/tracks/search?q=key_2&benchmark=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Data      []models.Track      `json:"data"`
		Meta      services.SearchMeta `json:"meta"`
		Benchmark *struct {
			FastTimeMs float64 `json:"fastTimeMs"`
			SlowTimeMs float64 `json:"slowTimeMs"`
			DiffFactor float64 `json:"diffFactor"`
			Strategy   string  `json:"strategy"`
		} `json:"benchmark"`
	}
	decode(t, w, &res)
	require.NotEmpty(t, res.Data)
	assert.Equal(t, "key_2", res.Data[0].Keyword)
	assert.Equal(t, 1, res.Meta.Page)
	assert.Equal(t, 20, res.Meta.Limit)
	require.NotNil(t, res.Benchmark)
	assert.Equal(t, services.StrategyPlanner, res.Benchmark.Strategy)
	assert.GreaterOrEqual(t, res.Benchmark.DiffFactor, 0.0)
}

func TestSearchInvalidParamsUseDefaults(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodGet, "/api/v1/tracks/search?page=-3&limit=abc&filter=nope", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Data []models.Track      `json:"data"`
		Meta services.SearchMeta `json:"meta"`
	}
	decode(t, w, &res)
	assert.NotNil(t, res.Data)
	assert.Equal(t, services.SearchMeta{Total: 0, Page: 1, LastPage: 1, Limit: 20}, res.Meta)
}

func TestSeedRequiresAdminWhenSecretSet(t *testing.T) {
	s := newTestServer(t, "s3cret")

	w := s.do(http.MethodPost, "/api/v1/benchmark/seed", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwt.GenerateToken("ops", jwt.RoleAdmin, "s3cret", time.Hour)
	require.NoError(t, err)
	w = s.do(http.MethodPost, "/api/v1/benchmark/seed?count=3", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

type blockingWriter struct {
	release chan struct{}
}

func (b *blockingWriter) NextSequence(ctx context.Context) (services.Sequence, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return services.Sequence{}, nil
}

func (b *blockingWriter) InsertBatch(context.Context, *services.Batch) error {
	return nil
}

func TestSeedWhileBusy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	writer := &blockingWriter{release: make(chan struct{})}
	seeder := services.NewSeederService(context.Background(), writer, services.NewProgressTracker(), services.SeedOptions{DefaultCount: 10, MaxCount: 100}, log)
	h := NewBenchmarkHandler(seeder, nil, nil, nil, log)

	router := gin.New()
	router.POST("/seed", h.Seed)
	router.GET("/progress", h.Progress)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/seed?count=20", nil))
	require.Equal(t, http.StatusAccepted, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/seed?count=5", nil))
	require.Equal(t, http.StatusConflict, w.Code)
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, false, body["accepted"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/progress", nil))
	var progress services.Progress
	decode(t, w, &progress)
	assert.True(t, progress.IsSeeding)
	assert.Equal(t, 20, progress.Total, "rejected request leaves the run untouched")

	close(writer.release)
	seeder.Wait()
	assert.False(t, seeder.Progress().IsSeeding)
}

func TestCompareRequiresKeyword(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(http.MethodGet, "/api/v1/benchmark/compare", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportPDF(t *testing.T) {
	s := newTestServer(t, "")
	_, err := s.seeder.Run(context.Background(), 10)
	require.NoError(t, err)

	w := s.do(http.MethodGet, "/api/v1/benchmark/report.pdf?q=key_1&strategy=structural", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = s.do(http.MethodPost, "/api/v1/benchmark/report?q=key_1", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestArtistEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodPost, "/api/v1/music/artists", `{"name":"Nila Voss"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var artist models.Artist
	decode(t, w, &artist)

	w = s.do(http.MethodPost, "/api/v1/music/artists", `{"name":"Nila Voss"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/music/artists", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/v1/music/artists/"+artist.ID.String(), `{"name":"Nila Voss Band"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/music/artists?search=voss", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data  []models.Artist `json:"data"`
		Total int64           `json:"total"`
	}
	decode(t, w, &list)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, "Nila Voss Band", list.Data[0].Name)

	w = s.do(http.MethodDelete, "/api/v1/music/artists/"+artist.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodGet, "/api/v1/music/artists/"+artist.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/api/v1/music/artists/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTracksAndStats(t *testing.T) {
	s := newTestServer(t, "")
	_, err := s.seeder.Run(context.Background(), 12)
	require.NoError(t, err)

	w := s.do(http.MethodGet, "/api/v1/tracks?page=2&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Data []models.Track      `json:"data"`
		Meta services.SearchMeta `json:"meta"`
	}
	decode(t, w, &res)
	require.Len(t, res.Data, 5)
	assert.Equal(t, int64(5), res.Data[0].BenchmarkOrder)
	assert.Equal(t, 3, res.Meta.LastPage)

	w = s.do(http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats services.CatalogStats
	decode(t, w, &stats)
	assert.Equal(t, int64(12), stats.Tracks)
}
