package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/golang/geo/r2"
	"github.com/twpayne/go-polyline"

	"github.com/haulworks/gradient-backend-go/internal/geometry"
)

// ErrUnsupportedGeometry is returned when a route input carries no usable
// line geometry at all.
var ErrUnsupportedGeometry = errors.New("unsupported geometry kind")

// Route is one analyzable line pulled from a route source.
type Route struct {
	// Index is the position of the feature in the source file, used to key
	// segment identifiers.
	Index int

	Line geometry.Polyline

	// Attribute is the value of the requested attribute field on the
	// source feature, if any.
	Attribute string
}

// Skip records a feature that was passed over because its geometry kind is
// not a single-part line.
type Skip struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type geoJSONFeature struct {
	Type       string                 `json:"type"`
	Geometry   *geoJSONGeometry       `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// LoadGeoJSON reads routes from a GeoJSON file. Only single-part
// LineString geometries become routes; points, polygons and multi-part
// lines are skipped with a recorded reason instead of aborting the batch.
// attributeField, when non-empty, names the feature property copied onto
// each route.
func LoadGeoJSON(path, attributeField string) ([]Route, []Skip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open route file: %w", err)
	}
	return ParseGeoJSON(data, attributeField)
}

// ParseGeoJSON parses routes from GeoJSON content. It accepts a
// FeatureCollection, a single Feature, or a bare geometry object.
func ParseGeoJSON(data []byte, attributeField string) ([]Route, []Skip, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, nil, fmt.Errorf("failed to parse route file: %w", err)
	}

	var features []geoJSONFeature
	switch head.Type {
	case "FeatureCollection":
		var fc geoJSONCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, nil, fmt.Errorf("failed to parse feature collection: %w", err)
		}
		features = fc.Features
	case "Feature":
		var f geoJSONFeature
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, nil, fmt.Errorf("failed to parse feature: %w", err)
		}
		features = []geoJSONFeature{f}
	default:
		var g geoJSONGeometry
		if err := json.Unmarshal(data, &g); err != nil || g.Type == "" {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedGeometry, head.Type)
		}
		features = []geoJSONFeature{{Type: "Feature", Geometry: &g}}
	}

	var routesOut []Route
	var skipped []Skip
	for i, f := range features {
		if f.Geometry == nil {
			skipped = append(skipped, Skip{Index: i, Kind: "none", Reason: "feature has no geometry"})
			continue
		}
		if f.Geometry.Type != "LineString" {
			skipped = append(skipped, Skip{
				Index:  i,
				Kind:   f.Geometry.Type,
				Reason: fmt.Sprintf("only single-part LineString geometry is supported, got %s", f.Geometry.Type),
			})
			continue
		}

		var coords [][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
			return nil, nil, fmt.Errorf("failed to parse LineString coordinates of feature %d: %w", i, err)
		}

		line := make(geometry.Polyline, 0, len(coords))
		for _, c := range coords {
			if len(c) < 2 {
				return nil, nil, fmt.Errorf("feature %d has a coordinate with fewer than 2 values", i)
			}
			line = append(line, r2.Point{X: c[0], Y: c[1]})
		}

		routesOut = append(routesOut, Route{
			Index:     i,
			Line:      line,
			Attribute: attributeValue(f.Properties, attributeField),
		})
	}

	return routesOut, skipped, nil
}

// DecodePolyline decodes a Google encoded polyline into a route. Decoded
// pairs are (lat, lng); they map to (Y, X) in the planar frame.
func DecodePolyline(encoded string) (geometry.Polyline, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	line := make(geometry.Polyline, 0, len(coords))
	for _, c := range coords {
		line = append(line, r2.Point{X: c[1], Y: c[0]})
	}
	return line, nil
}

func attributeValue(props map[string]interface{}, field string) string {
	if field == "" || props == nil {
		return ""
	}
	v, ok := props[field]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
