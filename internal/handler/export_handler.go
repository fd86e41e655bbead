package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/haulworks/gradient-backend-go/internal/service"
	"github.com/haulworks/gradient-backend-go/pkg/response"
)

// ExportHandler handles HTTP requests for run exports
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportDXF handles GET /api/v1/runs/:id/export/dxf
func (h *ExportHandler) ExportDXF(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/dxf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=gradient_run_%d.dxf", id))
	h.export(c, func() error { return h.exports.ExportDXF(id, c.Writer) })
}

// ExportSummaryCSV handles GET /api/v1/runs/:id/export/summary.csv
func (h *ExportHandler) ExportSummaryCSV(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=gradient_summary_%d.csv", id))
	h.export(c, func() error { return h.exports.ExportSummaryCSV(id, c.Writer) })
}

// ExportSegmentsCSV handles GET /api/v1/runs/:id/export/segments.csv
func (h *ExportHandler) ExportSegmentsCSV(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=gradient_segments_%d.csv", id))
	h.export(c, func() error { return h.exports.ExportSegmentsCSV(id, c.Writer) })
}

func (h *ExportHandler) export(c *gin.Context, write func() error) {
	if err := write(); err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			response.NotFound(c, "Run not found")
			return
		}
		response.InternalError(c, "Export failed", err)
	}
}

func runID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid run ID", err)
		return 0, false
	}
	return id, true
}
