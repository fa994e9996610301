package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/catalogbench/backend/internal/services"
	"github.com/catalogbench/backend/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MusicHandler struct {
	catalog *services.CatalogService
	log     *slog.Logger
}

func NewMusicHandler(catalog *services.CatalogService, log *slog.Logger) *MusicHandler {
	return &MusicHandler{catalog: catalog, log: log}
}

// ListTracks handles the plain catalog listing
// GET /tracks?page=&limit=
func (h *MusicHandler) ListTracks(c *gin.Context) {
	page, limit := validation.ParsePagination(c.Query("page"), c.Query("limit"), services.DefaultSearchLimit, services.MaxSearchLimit)

	tracks, total, err := h.catalog.ListTracks(c.Request.Context(), page, limit)
	if err != nil {
		h.log.Error("Listing tracks failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tracks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": tracks,
		"meta": services.SearchMeta{
			Total:    total,
			Page:     page,
			LastPage: int((total + int64(limit) - 1) / int64(limit)),
			Limit:    limit,
		},
	})
}

// Stats returns row counts per table
// GET /stats
func (h *MusicHandler) Stats(c *gin.Context) {
	stats, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("Stats failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListArtists handles artist listing with optional name search
// GET /music/artists?search=&page=&limit=
func (h *MusicHandler) ListArtists(c *gin.Context) {
	page, limit := validation.ParsePagination(c.Query("page"), c.Query("limit"), services.DefaultSearchLimit, services.MaxSearchLimit)

	artists, total, err := h.catalog.ListArtists(c.Request.Context(), validation.SanitizeString(c.Query("search")), page, limit)
	if err != nil {
		h.log.Error("Listing artists failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list artists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": artists, "total": total, "page": page, "limit": limit})
}

// GetArtist returns one artist with its albums
// GET /music/artists/:id
func (h *MusicHandler) GetArtist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	artist, err := h.catalog.GetArtist(c.Request.Context(), id)
	if err != nil {
		h.artistError(c, err)
		return
	}
	c.JSON(http.StatusOK, artist)
}

type artistRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateArtist handles artist creation
// POST /music/artists
// Body: {"name": "..."}
func (h *MusicHandler) CreateArtist(c *gin.Context) {
	var req artistRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validation.ValidateArtistName(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid name is required"})
		return
	}

	artist, err := h.catalog.CreateArtist(c.Request.Context(), validation.SanitizeString(req.Name))
	if err != nil {
		h.artistError(c, err)
		return
	}
	c.JSON(http.StatusCreated, artist)
}

// UpdateArtist renames an artist
// PATCH /music/artists/:id
// Body: {"name": "..."}
func (h *MusicHandler) UpdateArtist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req artistRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validation.ValidateArtistName(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid name is required"})
		return
	}

	artist, err := h.catalog.RenameArtist(c.Request.Context(), id, validation.SanitizeString(req.Name))
	if err != nil {
		h.artistError(c, err)
		return
	}
	c.JSON(http.StatusOK, artist)
}

// DeleteArtist removes an artist, keeping its albums
// DELETE /music/artists/:id
func (h *MusicHandler) DeleteArtist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteArtist(c.Request.Context(), id); err != nil {
		h.artistError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MusicHandler) artistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrArtistNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrArtistExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrArtistName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("Artist operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}
