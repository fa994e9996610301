package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the catalog and benchmark API on api. adminOnly guards
// the seed trigger and artist mutations; heavy limits the endpoints that run
// benchmark queries.
func RegisterRoutes(api *gin.RouterGroup, bench *BenchmarkHandler, music *MusicHandler, adminOnly, heavy gin.HandlerFunc) {
	api.GET("/tracks", music.ListTracks)
	api.GET("/tracks/search", bench.Search)
	api.GET("/stats", music.Stats)

	benchmark := api.Group("/benchmark")
	{
		benchmark.GET("/progress", bench.Progress)
		// GET is kept for the dashboard button
		benchmark.POST("/seed", adminOnly, bench.Seed)
		benchmark.GET("/seed", adminOnly, bench.Seed)

		benchmark.GET("/compare", heavy, bench.Compare)
		benchmark.GET("/report.pdf", heavy, bench.ReportPDF)
		benchmark.POST("/report", adminOnly, heavy, bench.ArchiveReport)
		benchmark.GET("/reports", adminOnly, bench.ListReports)
	}

	artists := api.Group("/music/artists")
	{
		artists.GET("", music.ListArtists)
		artists.GET("/:id", music.GetArtist)
		artists.POST("", adminOnly, music.CreateArtist)
		artists.PATCH("/:id", adminOnly, music.UpdateArtist)
		artists.DELETE("/:id", adminOnly, music.DeleteArtist)
	}
}
