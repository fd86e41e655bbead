package gradient

import "errors"

var (
	// ErrEmptyRoute is returned for a route whose arc length is zero.
	ErrEmptyRoute = errors.New("route has zero length")

	// ErrInvalidSegmentLength is returned when the sampling interval is not
	// a positive number.
	ErrInvalidSegmentLength = errors.New("segment length must be positive")
)
