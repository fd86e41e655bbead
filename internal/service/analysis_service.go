package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/haulworks/gradient-backend-go/internal/config"
	"github.com/haulworks/gradient-backend-go/internal/gradient"
	"github.com/haulworks/gradient-backend-go/internal/models"
	"github.com/haulworks/gradient-backend-go/internal/raster"
	"github.com/haulworks/gradient-backend-go/internal/repository"
	"github.com/haulworks/gradient-backend-go/internal/routes"
)

// AnalysisService orchestrates gradient analysis runs: loading routes,
// sampling the terrain raster, running the classification engine per route
// and persisting the results.
type AnalysisService struct {
	runs     *repository.RunRepository
	segments *repository.SegmentRepository
	cfg      *config.Config
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(runs *repository.RunRepository, segments *repository.SegmentRepository, cfg *config.Config) *AnalysisService {
	return &AnalysisService{runs: runs, segments: segments, cfg: cfg}
}

// RunRequest carries the parameters of one analysis run. Exactly one of
// RoutePath and EncodedRoute must be set.
type RunRequest struct {
	Name           string  `json:"name"`
	RoutePath      string  `json:"route_path"`
	EncodedRoute   string  `json:"encoded_route"`
	RasterPath     string  `json:"raster_path" binding:"required"`
	SegmentLength  float64 `json:"segment_length" binding:"omitempty,gt=0"`
	SlopeThreshold float64 `json:"slope_threshold" binding:"omitempty,gt=0"`
	BufferOffset   float64 `json:"buffer_offset" binding:"omitempty,gt=0"`
	AttributeField string  `json:"attribute_field"`
}

// RouteFailure records a route that could not be analyzed within an
// otherwise successful run.
type RouteFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// RunResult is the API-facing outcome of a run.
type RunResult struct {
	Run     *models.AnalysisRun `json:"run"`
	Skipped []routes.Skip       `json:"skipped,omitempty"`
	Failed  []RouteFailure      `json:"failed,omitempty"`
}

// Run executes an analysis end to end and persists the outcome. Input
// problems (unreadable files, no usable routes, bad parameters) fail
// before a run row is created; per-route failures after that point are
// recorded on the run without aborting the batch.
func (s *AnalysisService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if req.SegmentLength == 0 {
		req.SegmentLength = s.cfg.DefaultSegmentLength
	}
	if req.SegmentLength <= 0 {
		return nil, gradient.ErrInvalidSegmentLength
	}
	if req.SlopeThreshold == 0 {
		req.SlopeThreshold = s.cfg.SlopeThreshold
	}
	if req.BufferOffset == 0 {
		req.BufferOffset = s.cfg.BufferOffset
	}
	if (req.RoutePath == "") == (req.EncodedRoute == "") {
		return nil, fmt.Errorf("exactly one of route_path and encoded_route must be set")
	}

	routeList, skipped, err := s.loadRoutes(req)
	if err != nil {
		return nil, err
	}
	if len(routeList) == 0 {
		return nil, fmt.Errorf("%w: input contains no line routes", routes.ErrUnsupportedGeometry)
	}

	grid, err := raster.OpenGrid(req.RasterPath)
	if err != nil {
		return nil, err
	}

	run := &models.AnalysisRun{
		Name:           req.Name,
		RoutePath:      req.RoutePath,
		RasterPath:     req.RasterPath,
		SegmentLength:  req.SegmentLength,
		SlopeThreshold: req.SlopeThreshold,
		BufferOffset:   req.BufferOffset,
		AttributeField: req.AttributeField,
		RoutesTotal:    len(routeList) + len(skipped),
		RoutesSkipped:  len(skipped),
	}
	run.ID, err = s.runs.Create(run)
	if err != nil {
		return nil, err
	}

	engine := &gradient.Engine{
		Sampler:       grid,
		Classifier:    gradient.NewClassifier(req.SlopeThreshold),
		SegmentLength: req.SegmentLength,
		BufferOffset:  req.BufferOffset,
	}

	var batch gradient.Summary
	var records []models.SegmentRecord
	var failed []RouteFailure

	for _, route := range routeList {
		result, err := engine.AnalyzeRoute(ctx, route.Line)
		if err != nil {
			// Cancellation aborts the whole run; everything else is fatal
			// only for the route it occurred on.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				run.Status = models.RunStatusFailed
				run.ErrorMessage = err.Error()
				s.finalize(run)
				return nil, err
			}

			log.Printf("[AnalysisService] Route %d failed: %v", route.Index, err)
			failed = append(failed, RouteFailure{Index: route.Index, Reason: err.Error()})
			continue
		}

		batch.Merge(result.Summary)
		records = append(records, segmentRecords(run.ID, route, result.Artifacts)...)
		run.RoutesAnalyzed++
	}

	run.RoutesFailed = len(failed)
	run.TotalLength = batch.TotalLength
	run.AcceptableLength = batch.AcceptableLength
	run.WarningLength = batch.WarningLength
	run.SteepLength = batch.SteepLength

	if run.RoutesAnalyzed == 0 {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = failed[0].Reason
		s.finalize(run)
		return nil, fmt.Errorf("all %d routes failed: %s", len(failed), failed[0].Reason)
	}

	if err := s.segments.InsertBatch(ctx, records); err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = err.Error()
		s.finalize(run)
		return nil, err
	}

	run.Status = models.RunStatusCompleted
	if err := s.runs.Finalize(run); err != nil {
		return nil, err
	}

	log.Printf("[AnalysisService] Run %d completed: %d routes, %.2f total length (%.2f acceptable, %.2f steep)",
		run.ID, run.RoutesAnalyzed, run.TotalLength, run.AcceptableLength, run.SteepLength)

	stored, err := s.runs.GetRunByID(run.ID)
	if err != nil {
		return nil, err
	}

	return &RunResult{Run: stored, Skipped: skipped, Failed: failed}, nil
}

// GetRuns lists runs with filtering and pagination.
func (s *AnalysisService) GetRuns(filter models.RunFilter) ([]models.AnalysisRun, int64, error) {
	return s.runs.GetRuns(filter)
}

// GetRunByID retrieves a single run. Returns nil when not found.
func (s *AnalysisService) GetRunByID(id int64) (*models.AnalysisRun, error) {
	return s.runs.GetRunByID(id)
}

// GetSegments lists the segments of a run with filtering and pagination.
func (s *AnalysisService) GetSegments(runID int64, filter models.SegmentFilter) ([]models.SegmentRecord, int64, error) {
	return s.segments.GetSegments(runID, filter)
}

func (s *AnalysisService) loadRoutes(req RunRequest) ([]routes.Route, []routes.Skip, error) {
	if req.RoutePath != "" {
		return routes.LoadGeoJSON(req.RoutePath, req.AttributeField)
	}

	line, err := routes.DecodePolyline(req.EncodedRoute)
	if err != nil {
		return nil, nil, err
	}
	return []routes.Route{{Index: 0, Line: line}}, nil, nil
}

func (s *AnalysisService) finalize(run *models.AnalysisRun) {
	if err := s.runs.Finalize(run); err != nil {
		log.Printf("[AnalysisService] Failed to finalize run %d: %v", run.ID, err)
	}
}

func segmentRecords(runID int64, route routes.Route, artifacts []gradient.Artifact) []models.SegmentRecord {
	records := make([]models.SegmentRecord, 0, len(artifacts))
	for i, art := range artifacts {
		records = append(records, models.SegmentRecord{
			RunID:          runID,
			RouteIndex:     route.Index,
			Seq:            i + 1,
			SegmentKey:     fmt.Sprintf("%d-%d", route.Index+1, i+1),
			StartX:         art.Start.X,
			StartY:         art.Start.Y,
			EndX:           art.End.X,
			EndY:           art.End.Y,
			MidX:           art.Midpoint.X,
			MidY:           art.Midpoint.Y,
			LengthMeters:   art.Length,
			ElevationDelta: art.ElevationDelta,
			SlopeRatio:     art.SlopeRatio,
			GradeLabel:     art.Label,
			Category:       string(art.Category),
			Attribute:      route.Attribute,
		})
	}
	return records
}
