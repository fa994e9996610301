package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/catalogbench/backend/internal/services"
	"github.com/catalogbench/backend/pkg/validation"
	"github.com/gin-gonic/gin"
)

type BenchmarkHandler struct {
	seeder    *services.SeederService
	benchmark *services.BenchmarkService
	catalog   *services.CatalogService
	reports   *services.ReportService
	log       *slog.Logger
}

func NewBenchmarkHandler(seeder *services.SeederService, benchmark *services.BenchmarkService, catalog *services.CatalogService, reports *services.ReportService, log *slog.Logger) *BenchmarkHandler {
	return &BenchmarkHandler{
		seeder:    seeder,
		benchmark: benchmark,
		catalog:   catalog,
		reports:   reports,
		log:       log,
	}
}

// Seed starts a background seeding run
// POST /benchmark/seed?count=N
func (h *BenchmarkHandler) Seed(c *gin.Context) {
	requested := validation.ParsePositiveInt(c.Query("count"), 0)

	accepted, target := h.seeder.Seed(requested)
	if !accepted {
		c.JSON(http.StatusConflict, gin.H{
			"accepted": false,
			"target":   target,
			"message":  "A seeding run is already in progress",
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"accepted": true,
		"target":   target,
	})
}

// Progress reports the current or last seeding run
// GET /benchmark/progress
func (h *BenchmarkHandler) Progress(c *gin.Context) {
	c.JSON(http.StatusOK, h.seeder.Progress())
}

// Search pages through tracks, optionally timing the lookup
// GET /tracks/search?q=&filter=&page=&limit=&benchmark=&strategy=
func (h *BenchmarkHandler) Search(c *gin.Context) {
	page, limit := validation.ParsePagination(c.Query("page"), c.Query("limit"), services.DefaultSearchLimit, services.MaxSearchLimit)

	res, err := h.benchmark.Search(c.Request.Context(), services.SearchParams{
		Query:     validation.SanitizeString(c.Query("q")),
		Filter:    c.Query("filter"),
		Page:      page,
		Limit:     limit,
		Benchmark: validation.ParseBool(c.Query("benchmark")),
		Strategy:  c.Query("strategy"),
	})
	if err != nil {
		h.log.Error("Search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// Compare times one lookup through both access paths
// GET /benchmark/compare?q=&field=&strategy=
func (h *BenchmarkHandler) Compare(c *gin.Context) {
	cmp, ok := h.compare(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// ReportPDF renders a comparison as a PDF download
// GET /benchmark/report.pdf?q=&field=&strategy=
func (h *BenchmarkHandler) ReportPDF(c *gin.Context) {
	cmp, ok := h.compare(c)
	if !ok {
		return
	}

	pdf, err := h.reports.RenderPDF(cmp, h.stats(c))
	if err != nil {
		h.log.Error("Report rendering failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="benchmark-%s.pdf"`, cmp.RanAt.Format("20060102-150405")))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ArchiveReport stores a rendered report in object storage
// POST /benchmark/report?q=&field=&strategy=
func (h *BenchmarkHandler) ArchiveReport(c *gin.Context) {
	cmp, ok := h.compare(c)
	if !ok {
		return
	}

	link, err := h.reports.Archive(c.Request.Context(), cmp, h.stats(c))
	if errors.Is(err, services.ErrArchiveDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("Report archive failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to archive report"})
		return
	}

	c.JSON(http.StatusCreated, link)
}

// ListReports lists archived reports
// GET /benchmark/reports
func (h *BenchmarkHandler) ListReports(c *gin.Context) {
	reports, err := h.reports.ListArchived(c.Request.Context())
	if errors.Is(err, services.ErrArchiveDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("Listing reports failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reports})
}

func (h *BenchmarkHandler) compare(c *gin.Context) (*services.Comparison, bool) {
	q := validation.SanitizeString(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return nil, false
	}

	cmp, err := h.benchmark.Compare(c.Request.Context(), q, c.Query("field"), c.Query("strategy"))
	if err != nil {
		h.log.Error("Benchmark comparison failed", "keyword", q, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Benchmark failed"})
		return nil, false
	}
	return cmp, true
}

// stats decorates reports; a failure only drops the line
func (h *BenchmarkHandler) stats(c *gin.Context) *services.CatalogStats {
	stats, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		h.log.Warn("Stats unavailable for report", "error", err)
		return nil
	}
	return stats
}
