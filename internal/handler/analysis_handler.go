package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/haulworks/gradient-backend-go/internal/gradient"
	"github.com/haulworks/gradient-backend-go/internal/models"
	"github.com/haulworks/gradient-backend-go/internal/routes"
	"github.com/haulworks/gradient-backend-go/internal/service"
	"github.com/haulworks/gradient-backend-go/pkg/response"
)

// AnalysisHandler handles HTTP requests for gradient analysis runs
type AnalysisHandler struct {
	analysis *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysis *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

// CreateRun handles POST /api/v1/runs
func (h *AnalysisHandler) CreateRun(c *gin.Context) {
	var req service.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	result, err := h.analysis.Run(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, gradient.ErrInvalidSegmentLength),
			errors.Is(err, gradient.ErrEmptyRoute),
			errors.Is(err, routes.ErrUnsupportedGeometry):
			response.BadRequest(c, "Invalid analysis input", err)
		default:
			response.Error(c, http.StatusUnprocessableEntity, "Analysis failed", err)
		}
		return
	}

	response.Success(c, result)
}

// GetRuns handles GET /api/v1/runs
func (h *AnalysisHandler) GetRuns(c *gin.Context) {
	var filter models.RunFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	runs, total, err := h.analysis.GetRuns(filter)
	if err != nil {
		response.InternalError(c, "Failed to get runs", err)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, gin.H{
		"data":       runs,
		"total":      total,
		"page":       filter.Page,
		"pageSize":   filter.PageSize,
		"totalPages": totalPages,
	})
}

// GetRunByID handles GET /api/v1/runs/:id
func (h *AnalysisHandler) GetRunByID(c *gin.Context) {
	run, ok := h.fetchRun(c)
	if !ok {
		return
	}
	response.Success(c, run)
}

// GetRunSegments handles GET /api/v1/runs/:id/segments
func (h *AnalysisHandler) GetRunSegments(c *gin.Context) {
	run, ok := h.fetchRun(c)
	if !ok {
		return
	}

	var filter models.SegmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	segments, total, err := h.analysis.GetSegments(run.ID, filter)
	if err != nil {
		response.InternalError(c, "Failed to get segments", err)
		return
	}

	response.Success(c, gin.H{
		"data":  segments,
		"total": total,
	})
}

func (h *AnalysisHandler) fetchRun(c *gin.Context) (*models.AnalysisRun, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid run ID", err)
		return nil, false
	}

	run, err := h.analysis.GetRunByID(id)
	if err != nil {
		response.InternalError(c, "Failed to get run", err)
		return nil, false
	}
	if run == nil {
		response.NotFound(c, "Run not found")
		return nil, false
	}
	return run, true
}
