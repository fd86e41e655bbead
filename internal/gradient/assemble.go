package gradient

import (
	"github.com/golang/geo/r2"

	"github.com/haulworks/gradient-backend-go/internal/geometry"
)

// Artifact is the per-segment record handed to the external drawing and
// tabular writers: the chord geometry, a buffered footprint for area-style
// highlighting, the classification, and the grade label anchored at the
// segment midpoint. The engine assembles the data only; rendering tokens
// such as colors belong to the writers.
type Artifact struct {
	Start    r2.Point
	End      r2.Point
	Midpoint r2.Point

	// Footprint is the flat-cap buffer polygon around the chord. Nil for a
	// degenerate zero-length segment.
	Footprint []r2.Point

	Length         float64
	ElevationDelta float64
	SlopeRatio     float64
	Label          string
	Category       Category
}

// Assemble builds the artifact for the chord between two consecutive
// elevation samples.
func Assemble(a, b ElevationSample, cat Category, bufferOffset float64) Artifact {
	dx, dz, ratio := SlopeBetween(a, b)
	return Artifact{
		Start:          a.Point,
		End:            b.Point,
		Midpoint:       geometry.Midpoint(a.Point, b.Point),
		Footprint:      geometry.BufferFlat(a.Point, b.Point, bufferOffset),
		Length:         dx,
		ElevationDelta: dz,
		SlopeRatio:     ratio,
		Label:          GradeLabel(ratio),
		Category:       cat,
	}
}
