package models

import "time"

// SegmentRecord represents one classified chord of a route: its geometry,
// slope and severity category, keyed to the run that produced it.
type SegmentRecord struct {
	ID    int64 `json:"id" db:"id"`
	RunID int64 `json:"run_id" db:"run_id"`

	// Segment identification: RouteIndex is the feature's position in the
	// source file, Seq the 1-based segment position along that route.
	// SegmentKey is the "<route>-<seq>" form used in reports.
	RouteIndex int    `json:"route_index" db:"route_index"`
	Seq        int    `json:"seq" db:"seq"`
	SegmentKey string `json:"segment_key" db:"segment_key"`

	// Geometry
	StartX float64 `json:"start_x" db:"start_x"`
	StartY float64 `json:"start_y" db:"start_y"`
	EndX   float64 `json:"end_x" db:"end_x"`
	EndY   float64 `json:"end_y" db:"end_y"`
	MidX   float64 `json:"mid_x" db:"mid_x"`
	MidY   float64 `json:"mid_y" db:"mid_y"`

	// Slope
	LengthMeters   float64 `json:"length_meters" db:"length_meters"`
	ElevationDelta float64 `json:"elevation_delta" db:"elevation_delta"`
	SlopeRatio     float64 `json:"slope_ratio" db:"slope_ratio"`
	GradeLabel     string  `json:"grade_label" db:"grade_label"`
	Category       string  `json:"category" db:"category"` // ACCEPTABLE, WARNING, STEEP

	// Attribute is the optional source-feature property value carried
	// through for reporting.
	Attribute string `json:"attribute,omitempty" db:"attribute"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
