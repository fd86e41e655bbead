package raster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
)

var (
	// ErrOutOfBounds is returned when an elevation query falls outside the
	// spatial extent of the grid, or lands on a nodata cell.
	ErrOutOfBounds = errors.New("point outside raster extent")

	// ErrBadHeader is returned when a grid file has a malformed or
	// incomplete header.
	ErrBadHeader = errors.New("malformed raster header")
)

// Grid is a digital terrain model loaded from an ESRI ASCII grid (.asc)
// file. The whole band is held in memory so repeated elevation queries
// within a run never touch the file again.
type Grid struct {
	cols, rows int
	xll, yll   float64
	cellSize   float64
	nodata     float64
	hasNodata  bool

	// values is stored row-major, top row first, as laid out in the file.
	values []float64
}

// OpenGrid reads an ESRI ASCII grid from disk.
func OpenGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster: %w", err)
	}
	defer f.Close()

	g, err := ParseGrid(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse raster %s: %w", path, err)
	}
	return g, nil
}

// ParseGrid parses ESRI ASCII grid content from a reader.
func ParseGrid(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	g := &Grid{cols: -1, rows: -1, cellSize: -1}
	headerDone := false
	xCenter, yCenter := false, false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		if !headerDone {
			key := strings.ToLower(fields[0])
			switch key {
			case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize", "nodata_value":
				if len(fields) != 2 {
					return nil, fmt.Errorf("%w: %q", ErrBadHeader, line)
				}
				v, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: %q", ErrBadHeader, line)
				}
				switch key {
				case "ncols":
					g.cols = int(v)
				case "nrows":
					g.rows = int(v)
				case "xllcorner":
					g.xll = v
				case "yllcorner":
					g.yll = v
				case "xllcenter":
					g.xll = v
					xCenter = true
				case "yllcenter":
					g.yll = v
					yCenter = true
				case "cellsize":
					g.cellSize = v
				case "nodata_value":
					g.nodata = v
					g.hasNodata = true
				}
				continue
			}
			if g.cols <= 0 || g.rows <= 0 || g.cellSize <= 0 {
				return nil, fmt.Errorf("%w: data before complete header", ErrBadHeader)
			}
			// Center-registered origins shift to the cell corner.
			if xCenter {
				g.xll -= g.cellSize / 2
			}
			if yCenter {
				g.yll -= g.cellSize / 2
			}
			headerDone = true
			g.values = make([]float64, 0, g.cols*g.rows)
		}

		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid cell value %q: %w", f, err)
			}
			g.values = append(g.values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read raster: %w", err)
	}

	if g.cols <= 0 || g.rows <= 0 || g.cellSize <= 0 {
		return nil, ErrBadHeader
	}
	if len(g.values) != g.cols*g.rows {
		return nil, fmt.Errorf("%w: expected %d cells, got %d", ErrBadHeader, g.cols*g.rows, len(g.values))
	}

	return g, nil
}

// ElevationAt returns the terrain elevation at the given planar point,
// resolved to the containing cell. Points outside the grid extent, and
// points landing on a nodata cell, fail with ErrOutOfBounds.
func (g *Grid) ElevationAt(p r2.Point) (float64, error) {
	col := int(math.Floor((p.X - g.xll) / g.cellSize))
	rowFromBottom := int(math.Floor((p.Y - g.yll) / g.cellSize))

	if col < 0 || col >= g.cols || rowFromBottom < 0 || rowFromBottom >= g.rows {
		return 0, fmt.Errorf("%w: (%.2f, %.2f)", ErrOutOfBounds, p.X, p.Y)
	}

	row := g.rows - 1 - rowFromBottom
	v := g.values[row*g.cols+col]
	if g.hasNodata && v == g.nodata {
		return 0, fmt.Errorf("%w: nodata cell at (%.2f, %.2f)", ErrOutOfBounds, p.X, p.Y)
	}
	return v, nil
}

// Extent returns the lower-left and upper-right corners of the grid.
func (g *Grid) Extent() (min, max r2.Point) {
	min = r2.Point{X: g.xll, Y: g.yll}
	max = r2.Point{
		X: g.xll + float64(g.cols)*g.cellSize,
		Y: g.yll + float64(g.rows)*g.cellSize,
	}
	return min, max
}
