package gradient

import (
	"context"
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/haulworks/gradient-backend-go/internal/geometry"
)

// ElevationSampler supplies terrain elevation for a planar point. The
// engine consumes this capability but does not own raster decoding; a
// query outside the sampler's coverage must fail with an error rather
// than return a sentinel value.
type ElevationSampler interface {
	ElevationAt(p r2.Point) (float64, error)
}

// Engine runs the slope segmentation and classification pipeline for one
// route at a time: segmenter -> elevation sampler -> slope calculator ->
// classifier -> accumulator and artifact assembler.
type Engine struct {
	Sampler       ElevationSampler
	Classifier    Classifier
	SegmentLength float64
	BufferOffset  float64
}

// Result is the terminal output of one route analysis.
type Result struct {
	Artifacts []Artifact
	Summary   Summary
}

// AnalyzeRoute analyzes a single route end to end. A failed elevation
// query aborts the route with the sampler's error; cancellation is checked
// between segments and discards all partial state, so a caller never sees
// a partial summary.
func (e *Engine) AnalyzeRoute(ctx context.Context, line geometry.Polyline) (*Result, error) {
	samples, err := SamplePoints(line, e.SegmentLength)
	if err != nil {
		return nil, err
	}

	elevated := make([]ElevationSample, len(samples))
	for i, sp := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		elev, err := e.Sampler.ElevationAt(sp.Point)
		if err != nil {
			return nil, fmt.Errorf("elevation at offset %.2f: %w", sp.Offset, err)
		}
		elevated[i] = ElevationSample{SamplePoint: sp, Elevation: elev}
	}

	var acc Accumulator
	artifacts := make([]Artifact, 0, len(elevated)-1)
	for i := 1; i < len(elevated); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, _, ratio := SlopeBetween(elevated[i-1], elevated[i])
		cat := e.Classifier.Classify(ratio)
		art := Assemble(elevated[i-1], elevated[i], cat, e.BufferOffset)

		acc.Add(art.Length, cat)
		artifacts = append(artifacts, art)
	}

	return &Result{
		Artifacts: artifacts,
		Summary:   acc.Summary(),
	}, nil
}
