package geometry

import (
	"github.com/golang/geo/r2"
)

// Polyline is an ordered sequence of planar vertices in a single projected
// coordinate system. It is immutable by convention: callers must not modify
// a Polyline after handing it to the analysis pipeline.
type Polyline []r2.Point

// Length returns the total arc length of the polyline, the sum of
// consecutive vertex distances.
func (p Polyline) Length() float64 {
	if len(p) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(p); i++ {
		total += Distance(p[i-1], p[i])
	}
	return total
}

// Interpolate returns the point at the given arc-length offset along the
// polyline. Offsets are clamped to [0, Length], so callers never receive a
// point off the ends.
func (p Polyline) Interpolate(offset float64) r2.Point {
	if len(p) == 0 {
		return r2.Point{}
	}
	if offset <= 0 || len(p) == 1 {
		return p[0]
	}

	var walked float64
	for i := 1; i < len(p); i++ {
		edge := Distance(p[i-1], p[i])
		if walked+edge >= offset && edge > 0 {
			t := (offset - walked) / edge
			return p[i-1].Add(p[i].Sub(p[i-1]).Mul(t))
		}
		walked += edge
	}

	return p[len(p)-1]
}

// Reverse returns a new polyline with the vertex order reversed.
func (p Polyline) Reverse() Polyline {
	out := make(Polyline, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Distance returns the planar distance between two points.
func Distance(a, b r2.Point) float64 {
	return b.Sub(a).Norm()
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b r2.Point) r2.Point {
	return a.Add(b).Mul(0.5)
}

// BufferFlat returns the four corners of a rectangle buffered around the
// chord a->b at the given perpendicular offset, with flat end caps. The
// corners are ordered counter-clockwise starting on the left side of the
// direction of travel. Returns nil for a degenerate (zero-length) chord or
// a non-positive offset.
func BufferFlat(a, b r2.Point, offset float64) []r2.Point {
	if offset <= 0 {
		return nil
	}
	dir := b.Sub(a)
	if dir.Norm() == 0 {
		return nil
	}

	n := dir.Normalize().Ortho().Mul(offset)
	return []r2.Point{
		a.Add(n),
		b.Add(n),
		b.Sub(n),
		a.Sub(n),
	}
}
