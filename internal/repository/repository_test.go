package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulworks/gradient-backend-go/internal/database"
	"github.com/haulworks/gradient-backend-go/internal/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys=ON")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newRun() *models.AnalysisRun {
	return &models.AnalysisRun{
		Name:           "test run",
		RoutePath:      "/data/routes.geojson",
		RasterPath:     "/data/dtm.asc",
		SegmentLength:  25,
		SlopeThreshold: 1.0 / 16.0,
		BufferOffset:   5,
	}
}

func TestRunRepositoryCreateAndGet(t *testing.T) {
	repo := NewRunRepository(testDB(t))

	run := newRun()
	id, err := repo.Create(run)
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	got, err := repo.GetRunByID(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "test run", got.Name)
	assert.Equal(t, models.RunStatusPending, got.Status)
	assert.Equal(t, 25.0, got.SegmentLength)
}

func TestRunRepositoryGetMissing(t *testing.T) {
	repo := NewRunRepository(testDB(t))

	got, err := repo.GetRunByID(12345)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunRepositoryFinalize(t *testing.T) {
	repo := NewRunRepository(testDB(t))

	run := newRun()
	id, err := repo.Create(run)
	require.NoError(t, err)
	run.ID = id

	run.Status = models.RunStatusCompleted
	run.RoutesTotal = 2
	run.RoutesAnalyzed = 2
	run.TotalLength = 180
	run.AcceptableLength = 100
	run.SteepLength = 80
	require.NoError(t, repo.Finalize(run))

	got, err := repo.GetRunByID(id)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, got.Status)
	assert.Equal(t, 2, got.RoutesAnalyzed)
	assert.InDelta(t, 180, got.TotalLength, 1e-9)
	assert.InDelta(t, got.TotalLength, got.AcceptableLength+got.WarningLength+got.SteepLength, 1e-9)
}

func TestRunRepositoryFilters(t *testing.T) {
	db := testDB(t)
	repo := NewRunRepository(db)

	for i := 0; i < 3; i++ {
		run := newRun()
		id, err := repo.Create(run)
		require.NoError(t, err)
		run.ID = id
		if i == 0 {
			run.Status = models.RunStatusFailed
			require.NoError(t, repo.Finalize(run))
		}
	}

	runs, total, err := repo.GetRuns(models.RunFilter{Status: models.RunStatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, runs, 2)

	runs, total, err = repo.GetRuns(models.RunFilter{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, runs, 2)
}

func TestSegmentRepositoryRoundTrip(t *testing.T) {
	db := testDB(t)
	runRepo := NewRunRepository(db)
	segRepo := NewSegmentRepository(db)

	runID, err := runRepo.Create(newRun())
	require.NoError(t, err)

	segments := []models.SegmentRecord{
		{
			RunID: runID, RouteIndex: 0, Seq: 1, SegmentKey: "1-1",
			StartX: 0, StartY: 0, EndX: 25, EndY: 0, MidX: 12.5, MidY: 0,
			LengthMeters: 25, ElevationDelta: 0, SlopeRatio: 0,
			GradeLabel: "Flat", Category: "ACCEPTABLE",
		},
		{
			RunID: runID, RouteIndex: 0, Seq: 2, SegmentKey: "1-2",
			StartX: 25, StartY: 0, EndX: 50, EndY: 0, MidX: 37.5, MidY: 0,
			LengthMeters: 25, ElevationDelta: 2.5, SlopeRatio: 0.1,
			GradeLabel: "1/10.00", Category: "STEEP",
		},
		{
			RunID: runID, RouteIndex: 1, Seq: 1, SegmentKey: "2-1",
			StartX: 0, StartY: 10, EndX: 25, EndY: 10, MidX: 12.5, MidY: 10,
			LengthMeters: 25, ElevationDelta: 1, SlopeRatio: 0.04,
			GradeLabel: "1/25.00", Category: "ACCEPTABLE", Attribute: "north",
		},
	}
	require.NoError(t, segRepo.InsertBatch(context.Background(), segments))

	all, err := segRepo.GetAllSegments(runID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1-1", all[0].SegmentKey)
	assert.Equal(t, "2-1", all[2].SegmentKey)

	steep, total, err := segRepo.GetSegments(runID, models.SegmentFilter{Category: "STEEP"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, steep, 1)
	assert.InDelta(t, 0.1, steep[0].SlopeRatio, 1e-9)

	secondRoute, total, err := segRepo.GetSegments(runID, models.SegmentFilter{Route: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, secondRoute, 1)
	assert.Equal(t, "north", secondRoute[0].Attribute)
}

func TestSegmentRepositoryEmptyBatch(t *testing.T) {
	segRepo := NewSegmentRepository(testDB(t))
	assert.NoError(t, segRepo.InsertBatch(context.Background(), nil))
}
