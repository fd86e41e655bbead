package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/haulworks/gradient-backend-go/internal/models"
)

// RunRepository handles database operations for analysis runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, name, route_path, raster_path,
	segment_length, slope_threshold, buffer_offset, attribute_field,
	status, error_message,
	routes_total, routes_analyzed, routes_skipped, routes_failed,
	total_length, acceptable_length, warning_length, steep_length,
	created_at, updated_at`

// Create inserts a new pending run and returns its ID.
func (r *RunRepository) Create(run *models.AnalysisRun) (int64, error) {
	query := `INSERT INTO analysis_runs (
		name, route_path, raster_path,
		segment_length, slope_threshold, buffer_offset, attribute_field,
		status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.Exec(query,
		run.Name, run.RoutePath, run.RasterPath,
		run.SegmentLength, run.SlopeThreshold, run.BufferOffset, run.AttributeField,
		models.RunStatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// Finalize records the outcome of a run: status, counters and totals.
func (r *RunRepository) Finalize(run *models.AnalysisRun) error {
	query := `UPDATE analysis_runs
		SET status = ?,
		    error_message = ?,
		    routes_total = ?,
		    routes_analyzed = ?,
		    routes_skipped = ?,
		    routes_failed = ?,
		    total_length = ?,
		    acceptable_length = ?,
		    warning_length = ?,
		    steep_length = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	_, err := r.db.Exec(query,
		run.Status, run.ErrorMessage,
		run.RoutesTotal, run.RoutesAnalyzed, run.RoutesSkipped, run.RoutesFailed,
		run.TotalLength, run.AcceptableLength, run.WarningLength, run.SteepLength,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize run %d: %w", run.ID, err)
	}
	return nil
}

// GetRuns retrieves runs with filtering and pagination
func (r *RunRepository) GetRuns(filter models.RunFilter) ([]models.AnalysisRun, int64, error) {
	query := "SELECT " + runColumns + " FROM analysis_runs"

	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, time.Unix(filter.StartTime, 0).UTC())
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, time.Unix(filter.EndTime, 0).UTC())
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM analysis_runs"
	if len(conditions) > 0 {
		countQuery += " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	offset := (filter.Page - 1) * filter.PageSize
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, *run)
	}

	return runs, total, rows.Err()
}

// GetRunByID retrieves a single run by ID. Returns nil when not found.
func (r *RunRepository) GetRunByID(id int64) (*models.AnalysisRun, error) {
	query := "SELECT " + runColumns + " FROM analysis_runs WHERE id = ?"

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	err := row.Scan(
		&run.ID, &run.Name, &run.RoutePath, &run.RasterPath,
		&run.SegmentLength, &run.SlopeThreshold, &run.BufferOffset, &run.AttributeField,
		&run.Status, &run.ErrorMessage,
		&run.RoutesTotal, &run.RoutesAnalyzed, &run.RoutesSkipped, &run.RoutesFailed,
		&run.TotalLength, &run.AcceptableLength, &run.WarningLength, &run.SteepLength,
		&run.CreatedAt, &run.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	return &run, nil
}
