package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/haulworks/gradient-backend-go/internal/models"
)

// SegmentRepository handles database operations for run segments
type SegmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

const segmentColumns = `id, run_id, route_index, seq, segment_key,
	start_x, start_y, end_x, end_y, mid_x, mid_y,
	length_meters, elevation_delta, slope_ratio, grade_label, category,
	attribute, created_at`

// InsertBatch inserts all segments of a run inside one transaction.
func (r *SegmentRepository) InsertBatch(ctx context.Context, segments []models.SegmentRecord) error {
	if len(segments) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `INSERT INTO run_segments (
		run_id, route_index, seq, segment_key,
		start_x, start_y, end_x, end_y, mid_x, mid_y,
		length_meters, elevation_delta, slope_ratio, grade_label, category,
		attribute)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range segments {
		_, err := stmt.ExecContext(ctx,
			s.RunID, s.RouteIndex, s.Seq, s.SegmentKey,
			s.StartX, s.StartY, s.EndX, s.EndY, s.MidX, s.MidY,
			s.LengthMeters, s.ElevationDelta, s.SlopeRatio, s.GradeLabel, s.Category,
			s.Attribute,
		)
		if err != nil {
			return fmt.Errorf("failed to insert segment %s: %w", s.SegmentKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSegments retrieves the segments of a run with filtering and pagination
func (r *SegmentRepository) GetSegments(runID int64, filter models.SegmentFilter) ([]models.SegmentRecord, int64, error) {
	query := "SELECT " + segmentColumns + " FROM run_segments"

	conditions := []string{"run_id = ?"}
	args := []interface{}{runID}

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Route > 0 {
		conditions = append(conditions, "route_index = ?")
		args = append(args, filter.Route-1)
	}
	if filter.MinLength > 0 {
		conditions = append(conditions, "length_meters >= ?")
		args = append(args, filter.MinLength)
	}
	if filter.MinRatio > 0 {
		conditions = append(conditions, "ABS(slope_ratio) >= ?")
		args = append(args, filter.MinRatio)
	}

	query += " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM run_segments WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count segments: %w", err)
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
	query += " ORDER BY route_index, seq LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []models.SegmentRecord
	for rows.Next() {
		var s models.SegmentRecord
		err := rows.Scan(
			&s.ID, &s.RunID, &s.RouteIndex, &s.Seq, &s.SegmentKey,
			&s.StartX, &s.StartY, &s.EndX, &s.EndY, &s.MidX, &s.MidY,
			&s.LengthMeters, &s.ElevationDelta, &s.SlopeRatio, &s.GradeLabel, &s.Category,
			&s.Attribute, &s.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, s)
	}

	return segments, total, rows.Err()
}

// GetAllSegments retrieves every segment of a run in route and sequence
// order, for export streaming.
func (r *SegmentRepository) GetAllSegments(runID int64) ([]models.SegmentRecord, error) {
	query := "SELECT " + segmentColumns + ` FROM run_segments
		WHERE run_id = ? ORDER BY route_index, seq`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []models.SegmentRecord
	for rows.Next() {
		var s models.SegmentRecord
		err := rows.Scan(
			&s.ID, &s.RunID, &s.RouteIndex, &s.Seq, &s.SegmentKey,
			&s.StartX, &s.StartY, &s.EndX, &s.EndY, &s.MidX, &s.MidY,
			&s.LengthMeters, &s.ElevationDelta, &s.SlopeRatio, &s.GradeLabel, &s.Category,
			&s.Attribute, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, s)
	}

	return segments, rows.Err()
}
