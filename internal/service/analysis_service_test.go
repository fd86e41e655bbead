package service

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulworks/gradient-backend-go/internal/config"
	"github.com/haulworks/gradient-backend-go/internal/database"
	"github.com/haulworks/gradient-backend-go/internal/gradient"
	"github.com/haulworks/gradient-backend-go/internal/models"
	"github.com/haulworks/gradient-backend-go/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		DefaultSegmentLength: 25,
		SlopeThreshold:       gradient.DefaultThreshold,
		BufferOffset:         5,
	}
}

func testServices(t *testing.T) (*AnalysisService, *ExportService) {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	runs := repository.NewRunRepository(db)
	segments := repository.NewSegmentRepository(db)
	return NewAnalysisService(runs, segments, testConfig()), NewExportService(runs, segments)
}

// flatRaster covers x in [0,110), y in [-10,10) at a constant elevation.
func flatRaster() string {
	var sb strings.Builder
	sb.WriteString("ncols 22\nnrows 4\nxllcorner 0\nyllcorner -10\ncellsize 5\n")
	for r := 0; r < 4; r++ {
		sb.WriteString(strings.TrimSpace(strings.Repeat("340 ", 22)) + "\n")
	}
	return sb.String()
}

// rampRaster rises 0.5 per 5-unit cell along x, so sample points at
// x = 0, 25, 50, 75, 100 see elevations 0, 2.5, 5, 7.5, 10.
func rampRaster() string {
	var sb strings.Builder
	sb.WriteString("ncols 22\nnrows 4\nxllcorner 0\nyllcorner -10\ncellsize 5\n")
	for r := 0; r < 4; r++ {
		cells := make([]string, 22)
		for c := 0; c < 22; c++ {
			cells[c] = strconv.FormatFloat(float64(c)*0.5, 'f', -1, 64)
		}
		sb.WriteString(strings.Join(cells, " ") + "\n")
	}
	return sb.String()
}

const straightRouteGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [100, 0]]},
			"properties": {"name": "main ramp"}
		}
	]
}`

func writeFiles(t *testing.T, routeJSON, raster string) (routePath, rasterPath string) {
	t.Helper()
	dir := t.TempDir()
	routePath = filepath.Join(dir, "routes.geojson")
	rasterPath = filepath.Join(dir, "dtm.asc")
	require.NoError(t, os.WriteFile(routePath, []byte(routeJSON), 0o644))
	require.NoError(t, os.WriteFile(rasterPath, []byte(raster), 0o644))
	return routePath, rasterPath
}

func TestRunFlatTerrain(t *testing.T) {
	analysis, _ := testServices(t)
	routePath, rasterPath := writeFiles(t, straightRouteGeoJSON, flatRaster())

	result, err := analysis.Run(context.Background(), RunRequest{
		RoutePath:      routePath,
		RasterPath:     rasterPath,
		AttributeField: "name",
	})
	require.NoError(t, err)

	run := result.Run
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, 1, run.RoutesAnalyzed)
	assert.InDelta(t, 100, run.TotalLength, 1e-9)
	assert.InDelta(t, 100, run.AcceptableLength, 1e-9)
	assert.Zero(t, run.SteepLength)
	assert.Zero(t, run.WarningLength)

	segments, total, err := analysis.GetSegments(run.ID, models.SegmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, segments, 4)
	assert.Equal(t, "1-1", segments[0].SegmentKey)
	assert.Equal(t, "Flat", segments[0].GradeLabel)
	assert.Equal(t, "main ramp", segments[0].Attribute)
}

func TestRunRisingTerrain(t *testing.T) {
	analysis, _ := testServices(t)
	routePath, rasterPath := writeFiles(t, straightRouteGeoJSON, rampRaster())

	result, err := analysis.Run(context.Background(), RunRequest{
		RoutePath:  routePath,
		RasterPath: rasterPath,
	})
	require.NoError(t, err)

	run := result.Run
	assert.InDelta(t, 100, run.TotalLength, 1e-9)
	assert.InDelta(t, 100, run.SteepLength, 1e-9)
	assert.Zero(t, run.AcceptableLength)

	segments, _, err := analysis.GetSegments(run.ID, models.SegmentFilter{})
	require.NoError(t, err)
	for _, seg := range segments {
		assert.InDelta(t, 0.1, seg.SlopeRatio, 1e-9)
		assert.Equal(t, "1/10.00", seg.GradeLabel)
		assert.Equal(t, string(gradient.CategorySteep), seg.Category)
	}
}

func TestRunRouteOutsideRaster(t *testing.T) {
	analysis, _ := testServices(t)
	route := `{"type":"Feature","geometry":{"type":"LineString","coordinates":[[5000,5000],[5100,5000]]}}`
	routePath, rasterPath := writeFiles(t, route, flatRaster())

	_, err := analysis.Run(context.Background(), RunRequest{
		RoutePath:  routePath,
		RasterPath: rasterPath,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "all 1 routes failed")

	// The stored run reports the failure without partial totals.
	runs, _, listErr := analysis.GetRuns(models.RunFilter{})
	require.NoError(t, listErr)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunStatusFailed, runs[0].Status)
	assert.Zero(t, runs[0].TotalLength)
	assert.Equal(t, 1, runs[0].RoutesFailed)
}

func TestRunMixedBatchPartialSuccess(t *testing.T) {
	analysis, _ := testServices(t)
	route := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0,0],[100,0]]}, "properties": {}},
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [5,5]}, "properties": {}},
			{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[5000,5000],[5100,5000]]}, "properties": {}}
		]
	}`
	routePath, rasterPath := writeFiles(t, route, flatRaster())

	result, err := analysis.Run(context.Background(), RunRequest{
		RoutePath:  routePath,
		RasterPath: rasterPath,
	})
	require.NoError(t, err)

	run := result.Run
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, 3, run.RoutesTotal)
	assert.Equal(t, 1, run.RoutesAnalyzed)
	assert.Equal(t, 1, run.RoutesSkipped)
	assert.Equal(t, 1, run.RoutesFailed)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "Point", result.Skipped[0].Kind)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 2, result.Failed[0].Index)
	assert.InDelta(t, 100, run.TotalLength, 1e-9)
}

func TestRunValidation(t *testing.T) {
	analysis, _ := testServices(t)

	_, err := analysis.Run(context.Background(), RunRequest{RasterPath: "x"})
	assert.ErrorContains(t, err, "exactly one of route_path and encoded_route")

	_, err = analysis.Run(context.Background(), RunRequest{
		RoutePath: "a", EncodedRoute: "b", RasterPath: "x",
	})
	assert.ErrorContains(t, err, "exactly one of route_path and encoded_route")

	_, err = analysis.Run(context.Background(), RunRequest{
		RoutePath:     "/nonexistent/routes.geojson",
		RasterPath:    "/nonexistent/dtm.asc",
		SegmentLength: -1,
	})
	assert.ErrorIs(t, err, gradient.ErrInvalidSegmentLength)
}

func TestRunMissingInputs(t *testing.T) {
	analysis, _ := testServices(t)
	routePath, rasterPath := writeFiles(t, straightRouteGeoJSON, flatRaster())

	_, err := analysis.Run(context.Background(), RunRequest{
		RoutePath:  filepath.Join(t.TempDir(), "missing.geojson"),
		RasterPath: rasterPath,
	})
	assert.Error(t, err)

	_, err = analysis.Run(context.Background(), RunRequest{
		RoutePath:  routePath,
		RasterPath: filepath.Join(t.TempDir(), "missing.asc"),
	})
	assert.Error(t, err)
}

func TestExportsForCompletedRun(t *testing.T) {
	analysis, exports := testServices(t)
	routePath, rasterPath := writeFiles(t, straightRouteGeoJSON, rampRaster())

	result, err := analysis.Run(context.Background(), RunRequest{
		RoutePath:  routePath,
		RasterPath: rasterPath,
	})
	require.NoError(t, err)
	runID := result.Run.ID

	var dxfBuf bytes.Buffer
	require.NoError(t, exports.ExportDXF(runID, &dxfBuf))
	out := dxfBuf.String()
	assert.Contains(t, out, "LWPOLYLINE")
	assert.Contains(t, out, "HATCH")
	assert.Contains(t, out, "1/10.00")

	var summaryBuf bytes.Buffer
	require.NoError(t, exports.ExportSummaryCSV(runID, &summaryBuf))
	summary := summaryBuf.String()
	assert.Contains(t, summary, "Total Length,100.00,100.00")
	assert.Contains(t, summary, "Red (Steep),100.00,100.00")
	assert.Contains(t, summary, "Yellow (Warning),0.00,0.00")

	var segBuf bytes.Buffer
	require.NoError(t, exports.ExportSegmentsCSV(runID, &segBuf))
	lines := strings.Split(strings.TrimSpace(segBuf.String()), "\n")
	require.Len(t, lines, 5) // header + 4 segments
	assert.Contains(t, lines[1], "1-1")
	assert.Contains(t, lines[1], "1/10.00")
}

func TestExportsMissingRun(t *testing.T) {
	_, exports := testServices(t)

	var buf bytes.Buffer
	assert.ErrorIs(t, exports.ExportDXF(999, &buf), ErrRunNotFound)
	assert.ErrorIs(t, exports.ExportSummaryCSV(999, &buf), ErrRunNotFound)
	assert.ErrorIs(t, exports.ExportSegmentsCSV(999, &buf), ErrRunNotFound)
}
