package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/golang/geo/r2"

	"github.com/haulworks/gradient-backend-go/internal/dxf"
	"github.com/haulworks/gradient-backend-go/internal/geometry"
	"github.com/haulworks/gradient-backend-go/internal/gradient"
	"github.com/haulworks/gradient-backend-go/internal/models"
	"github.com/haulworks/gradient-backend-go/internal/repository"
)

// ErrRunNotFound is returned when an export targets a run that does not
// exist or has no stored results.
var ErrRunNotFound = errors.New("run not found")

// ExportService renders stored run results as CAD drawings and tabular
// files.
type ExportService struct {
	runs     *repository.RunRepository
	segments *repository.SegmentRepository
}

// NewExportService creates a new export service
func NewExportService(runs *repository.RunRepository, segments *repository.SegmentRepository) *ExportService {
	return &ExportService{runs: runs, segments: segments}
}

// ExportDXF writes the run's drawing: per segment one polyline, one solid
// hatch over the buffered footprint and one midpoint grade annotation,
// colors keyed to category.
func (s *ExportService) ExportDXF(runID int64, w io.Writer) error {
	run, segments, err := s.load(runID)
	if err != nil {
		return err
	}

	d := dxf.NewWriter(w)
	for _, seg := range segments {
		start := r2.Point{X: seg.StartX, Y: seg.StartY}
		end := r2.Point{X: seg.EndX, Y: seg.EndY}
		color := dxf.ColorFor(gradient.Category(seg.Category))

		d.Polyline([]r2.Point{start, end}, color)
		if footprint := geometry.BufferFlat(start, end, run.BufferOffset); footprint != nil {
			d.SolidHatch(footprint, color)
		}
		d.Text(r2.Point{X: seg.MidX, Y: seg.MidY}, 4, dxf.ColorWhite, seg.GradeLabel)
	}

	if err := d.Close(); err != nil {
		return fmt.Errorf("failed to write dxf for run %d: %w", runID, err)
	}
	return nil
}

// ExportSummaryCSV writes the run's length-by-category summary: one row
// per category with its accumulated length and share of the total.
func (s *ExportService) ExportSummaryCSV(runID int64, w io.Writer) error {
	run, err := s.runs.GetRunByID(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}

	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Category", "Length", "Percentage"},
		{"Total Length", formatLength(run.TotalLength), "100.00"},
		{"Green (Acceptable)", formatLength(run.AcceptableLength), formatPercent(run.AcceptablePercent())},
		{"Yellow (Warning)", formatLength(run.WarningLength), formatPercent(run.WarningPercent())},
		{"Red (Steep)", formatLength(run.SteepLength), formatPercent(run.SteepPercent())},
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write summary csv for run %d: %w", runID, err)
	}
	return nil
}

// ExportSegmentsCSV writes the detailed per-segment table.
func (s *ExportService) ExportSegmentsCSV(runID int64, w io.Writer) error {
	_, segments, err := s.load(runID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Segment", "Attribute", "Length", "Slope Ratio", "Slope Fraction", "Status"}); err != nil {
		return fmt.Errorf("failed to write segments csv for run %d: %w", runID, err)
	}
	for _, seg := range segments {
		attr := seg.Attribute
		if attr == "" {
			attr = "N/A"
		}
		row := []string{
			seg.SegmentKey,
			attr,
			formatLength(seg.LengthMeters),
			strconv.FormatFloat(seg.SlopeRatio, 'f', 4, 64),
			seg.GradeLabel,
			seg.Category,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write segments csv for run %d: %w", runID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write segments csv for run %d: %w", runID, err)
	}
	return nil
}

func (s *ExportService) load(runID int64) (*models.AnalysisRun, []models.SegmentRecord, error) {
	run, err := s.runs.GetRunByID(runID)
	if err != nil {
		return nil, nil, err
	}
	if run == nil {
		return nil, nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}

	segments, err := s.segments.GetAllSegments(runID)
	if err != nil {
		return nil, nil, err
	}
	return run, segments, nil
}

func formatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
