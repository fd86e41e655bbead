package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haulworks/gradient-backend-go/internal/config"
	"github.com/haulworks/gradient-backend-go/internal/handler"
	"github.com/haulworks/gradient-backend-go/internal/middleware"
)

// SetupRouter wires the HTTP API
func SetupRouter(cfg *config.Config, analysis *handler.AnalysisHandler, exports *handler.ExportHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Gradient Analysis API is running",
		})
	})

	// API route group
	api := r.Group("/api/v1")
	if cfg.JWTSecret != "" {
		api.Use(middleware.Auth(cfg.JWTSecret))
	}
	{
		runs := api.Group("/runs")
		{
			// Analysis runs are raster-bound and expensive; keep creation
			// rate-limited separately from reads.
			runs.POST("", middleware.RateLimit(10, time.Minute), analysis.CreateRun)
			runs.GET("", analysis.GetRuns)
			runs.GET("/:id", analysis.GetRunByID)
			runs.GET("/:id/segments", analysis.GetRunSegments)

			runs.GET("/:id/export/dxf", exports.ExportDXF)
			runs.GET("/:id/export/summary.csv", exports.ExportSummaryCSV)
			runs.GET("/:id/export/segments.csv", exports.ExportSegmentsCSV)
		}
	}

	return r
}
