package gradient

import (
	"github.com/haulworks/gradient-backend-go/internal/geometry"
)

// ElevationSample is a sample point paired with its terrain elevation.
type ElevationSample struct {
	SamplePoint
	Elevation float64
}

// SlopeBetween computes the planar distance, elevation delta and signed
// slope ratio between two consecutive samples. The sign follows the
// direction of travel: positive means rising from a to b. When the two
// samples coincide the ratio is defined as zero rather than undefined.
func SlopeBetween(a, b ElevationSample) (dx, dz, ratio float64) {
	dx = geometry.Distance(a.Point, b.Point)
	dz = b.Elevation - a.Elevation
	if dx != 0 {
		ratio = dz / dx
	}
	return dx, dz, ratio
}
