// Package dxf emits the minimal DXF R2010 tag stream the drawing export
// needs: one light-weight polyline, one solid hatch and one text entity
// per analyzed segment.
package dxf

import (
	"bufio"
	"fmt"
	"io"

	"github.com/golang/geo/r2"

	"github.com/haulworks/gradient-backend-go/internal/gradient"
)

// AutoCAD color index values used for the category styling.
const (
	ColorRed    = 1
	ColorYellow = 2
	ColorGreen  = 3
	ColorWhite  = 7
)

// ColorFor maps a segment category to its AutoCAD color index.
func ColorFor(cat gradient.Category) int {
	switch cat {
	case gradient.CategoryAcceptable:
		return ColorGreen
	case gradient.CategoryWarning:
		return ColorYellow
	default:
		return ColorRed
	}
}

// Writer streams a DXF document. Errors are sticky: the first write error
// is kept and returned from Close.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter starts a DXF document on w, writing the header and opening the
// ENTITIES section.
func NewWriter(w io.Writer) *Writer {
	d := &Writer{w: bufio.NewWriter(w)}

	d.tag(0, "SECTION")
	d.tag(2, "HEADER")
	d.tag(9, "$ACADVER")
	d.tag(1, "AC1024") // R2010
	d.tag(0, "ENDSEC")
	d.tag(0, "SECTION")
	d.tag(2, "ENTITIES")
	return d
}

func (d *Writer) tag(code int, value interface{}) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%d\n%v\n", code, value)
}

func (d *Writer) float(code int, v float64) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%d\n%.6f\n", code, v)
}

// Polyline writes an open LWPOLYLINE through the given points.
func (d *Writer) Polyline(pts []r2.Point, color int) {
	d.tag(0, "LWPOLYLINE")
	d.tag(100, "AcDbEntity")
	d.tag(8, "0")
	d.tag(62, color)
	d.tag(100, "AcDbPolyline")
	d.tag(90, len(pts))
	d.tag(70, 0)
	for _, p := range pts {
		d.float(10, p.X)
		d.float(20, p.Y)
	}
}

// SolidHatch writes a solid-filled HATCH bounded by the closed polygon.
func (d *Writer) SolidHatch(polygon []r2.Point, color int) {
	if len(polygon) < 3 {
		return
	}
	d.tag(0, "HATCH")
	d.tag(100, "AcDbEntity")
	d.tag(8, "0")
	d.tag(62, color)
	d.tag(100, "AcDbHatch")
	d.float(10, 0)
	d.float(20, 0)
	d.float(30, 0)
	d.float(210, 0)
	d.float(220, 0)
	d.float(230, 1)
	d.tag(2, "SOLID")
	d.tag(70, 1) // solid fill
	d.tag(71, 0)
	d.tag(91, 1) // one boundary path
	d.tag(92, 7) // external polyline path
	d.tag(72, 0)
	d.tag(73, 1) // closed
	d.tag(93, len(polygon))
	for _, p := range polygon {
		d.float(10, p.X)
		d.float(20, p.Y)
	}
	d.tag(97, 0)
	d.tag(75, 0)
	d.tag(76, 1)
	d.tag(98, 0)
}

// Text writes a single-line TEXT entity anchored at p.
func (d *Writer) Text(p r2.Point, height float64, color int, value string) {
	d.tag(0, "TEXT")
	d.tag(100, "AcDbEntity")
	d.tag(8, "0")
	d.tag(62, color)
	d.tag(100, "AcDbText")
	d.float(10, p.X)
	d.float(20, p.Y)
	d.float(30, 0)
	d.float(40, height)
	d.tag(1, value)
}

// Close ends the ENTITIES section, terminates the document and flushes.
func (d *Writer) Close() error {
	d.tag(0, "ENDSEC")
	d.tag(0, "EOF")
	if d.err != nil {
		return d.err
	}
	return d.w.Flush()
}
