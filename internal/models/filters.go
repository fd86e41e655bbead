package models

// RunFilter represents filter parameters for querying analysis runs
type RunFilter struct {
	Status    string `form:"status"`    // pending, completed, failed
	StartTime int64  `form:"startTime"` // Unix timestamp, created at or after
	EndTime   int64  `form:"endTime"`   // Unix timestamp, created at or before
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// SegmentFilter represents filter parameters for querying run segments
type SegmentFilter struct {
	Category  string  `form:"category"`  // ACCEPTABLE, WARNING, STEEP
	Route     int     `form:"route"`     // 1-based route number, 0 means all
	MinLength float64 `form:"minLength"` // Meters
	MinRatio  float64 `form:"minRatio"`  // Absolute slope ratio
	Page      int     `form:"page"`
	PageSize  int     `form:"pageSize"`
}
