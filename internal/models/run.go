package models

import "time"

// AnalysisRun represents one gradient analysis execution over a route file
// and a terrain raster, with its parameters and accumulated results.
type AnalysisRun struct {
	ID int64 `json:"id" db:"id"`

	Name       string `json:"name,omitempty" db:"name"`
	RoutePath  string `json:"route_path,omitempty" db:"route_path"`
	RasterPath string `json:"raster_path" db:"raster_path"`

	// Parameters
	SegmentLength  float64 `json:"segment_length" db:"segment_length"`
	SlopeThreshold float64 `json:"slope_threshold" db:"slope_threshold"`
	BufferOffset   float64 `json:"buffer_offset" db:"buffer_offset"`
	AttributeField string  `json:"attribute_field,omitempty" db:"attribute_field"`

	// Outcome
	Status       string `json:"status" db:"status"` // pending, completed, failed
	ErrorMessage string `json:"error_message,omitempty" db:"error_message"`

	// Batch counters
	RoutesTotal    int `json:"routes_total" db:"routes_total"`
	RoutesAnalyzed int `json:"routes_analyzed" db:"routes_analyzed"`
	RoutesSkipped  int `json:"routes_skipped" db:"routes_skipped"`
	RoutesFailed   int `json:"routes_failed" db:"routes_failed"`

	// Accumulated lengths. WarningLength is retained for output
	// compatibility even though the current classification rule never
	// routes length into it.
	TotalLength      float64 `json:"total_length" db:"total_length"`
	AcceptableLength float64 `json:"acceptable_length" db:"acceptable_length"`
	WarningLength    float64 `json:"warning_length" db:"warning_length"`
	SteepLength      float64 `json:"steep_length" db:"steep_length"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Run status constants
const (
	RunStatusPending   = "pending"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// AcceptablePercent returns the acceptable share of the total length.
func (r *AnalysisRun) AcceptablePercent() float64 {
	if r.TotalLength == 0 {
		return 0
	}
	return r.AcceptableLength / r.TotalLength * 100
}

// SteepPercent returns the steep share of the total length.
func (r *AnalysisRun) SteepPercent() float64 {
	if r.TotalLength == 0 {
		return 0
	}
	return r.SteepLength / r.TotalLength * 100
}

// WarningPercent returns the warning share of the total length.
func (r *AnalysisRun) WarningPercent() float64 {
	if r.TotalLength == 0 {
		return 0
	}
	return r.WarningLength / r.TotalLength * 100
}
