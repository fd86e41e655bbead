package gradient

import (
	"github.com/golang/geo/r2"

	"github.com/haulworks/gradient-backend-go/internal/geometry"
)

// SamplePoint is a planar coordinate paired with its arc-length offset
// along the route.
type SamplePoint struct {
	Point  r2.Point
	Offset float64
}

// SamplePoints walks the route at fixed arc-length intervals and returns
// the ordered sample points. Offsets start at 0 and step by segmentLength;
// the final offset is always forced to the exact route length so the last
// partial segment is never dropped.
func SamplePoints(line geometry.Polyline, segmentLength float64) ([]SamplePoint, error) {
	if segmentLength <= 0 {
		return nil, ErrInvalidSegmentLength
	}

	length := line.Length()
	if length == 0 {
		return nil, ErrEmptyRoute
	}

	var samples []SamplePoint
	for offset := 0.0; offset < length; offset += segmentLength {
		samples = append(samples, SamplePoint{
			Point:  line.Interpolate(offset),
			Offset: offset,
		})
	}
	samples = append(samples, SamplePoint{
		Point:  line.Interpolate(length),
		Offset: length,
	})

	return samples, nil
}
