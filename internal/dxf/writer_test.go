package dxf

import (
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulworks/gradient-backend-go/internal/gradient"
)

func TestColorFor(t *testing.T) {
	assert.Equal(t, ColorGreen, ColorFor(gradient.CategoryAcceptable))
	assert.Equal(t, ColorYellow, ColorFor(gradient.CategoryWarning))
	assert.Equal(t, ColorRed, ColorFor(gradient.CategorySteep))
}

func TestWriterDocumentShape(t *testing.T) {
	var sb strings.Builder
	d := NewWriter(&sb)

	d.Polyline([]r2.Point{{X: 0, Y: 0}, {X: 25, Y: 0}}, ColorGreen)
	d.SolidHatch([]r2.Point{{X: 0, Y: 5}, {X: 25, Y: 5}, {X: 25, Y: -5}, {X: 0, Y: -5}}, ColorGreen)
	d.Text(r2.Point{X: 12.5, Y: 0}, 4, ColorWhite, "1/10.00")
	require.NoError(t, d.Close())

	out := sb.String()
	assert.Contains(t, out, "AC1024")
	assert.Contains(t, out, "ENTITIES")
	assert.Contains(t, out, "LWPOLYLINE")
	assert.Contains(t, out, "HATCH")
	assert.Contains(t, out, "SOLID")
	assert.Contains(t, out, "TEXT")
	assert.Contains(t, out, "1/10.00")
	assert.True(t, strings.HasSuffix(out, "0\nEOF\n"))

	// One ENDSEC per section.
	assert.Equal(t, 2, strings.Count(out, "ENDSEC"))
}

func TestWriterSkipsDegenerateHatch(t *testing.T) {
	var sb strings.Builder
	d := NewWriter(&sb)
	d.SolidHatch(nil, ColorRed)
	d.SolidHatch([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, ColorRed)
	require.NoError(t, d.Close())

	assert.NotContains(t, sb.String(), "HATCH")
}
