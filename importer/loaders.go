package importer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"github.com/kartwerk/riverlabel/geo"
)

const maxWKTLineSize = 64 * 1024 * 1024

// NamedPolygon is one polygon part of a named river. Parts of the same
// river share a Name.
type NamedPolygon struct {
	Name    string
	Polygon orb.Polygon
	// maps placement points back to the source coordinate system. nil
	// when the polygon is already planar.
	Unproject orb.Projection
}

// ParseWKT parses a POLYGON or MULTIPOLYGON into its parts.
func ParseWKT(s string) ([]orb.Polygon, error) {
	geometry, err := wkt.Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	parts := geo.PolygonParts(geometry)
	if parts == nil {
		return nil, fmt.Errorf("unsupported geometry type '%s'", geometry.GeoJSONType())
	}
	return parts, nil
}

func isPolygonWKT(line string) bool {
	upper := strings.ToUpper(line)
	return strings.HasPrefix(upper, "POLYGON") || strings.HasPrefix(upper, "MULTIPOLYGON")
}

// LoadWKTFile reads one polygon (or multipolygon) per line. Other lines are
// ignored. Lines that fail to parse or contain invalid coordinates are
// skipped and returned as warnings.
func LoadWKTFile(filename string) ([]orb.Polygon, []error, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var polygons []orb.Polygon
	var warnings []error

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxWKTLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if !isPolygonWKT(line) {
			continue
		}

		parts, err := ParseWKT(line)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%s:%d: could not parse WKT: %w", filename, lineNo, err))
			continue
		}
		for _, part := range parts {
			if err := geo.Validate(part); err != nil {
				warnings = append(warnings, fmt.Errorf("%s:%d: %w", filename, lineNo, err))
				continue
			}
			polygons = append(polygons, part)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, warnings, fmt.Errorf("'%s' cannot be read: %w", filename, err)
	}

	return polygons, warnings, nil
}

// LoadGeoJSONFile reads a FeatureCollection, a single Feature or a bare
// geometry. Every Polygon and MultiPolygon part becomes a NamedPolygon
// named after the feature's 'name' property.
func LoadGeoJSONFile(filename string) ([]NamedPolygon, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	features, err := decodeFeatures(data)
	if err != nil {
		return nil, fmt.Errorf("'%s' cannot be loaded: bad json: %w", filename, err)
	}

	return namedPolygonsFromFeatures(features), nil
}

func decodeFeatures(data []byte) ([]*geojson.Feature, error) {
	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	switch doc.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		return fc.Features, nil
	case "Feature":
		feature, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		return []*geojson.Feature{feature}, nil
	case "":
		return nil, errors.New("missing 'type'")
	default:
		geometry, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, err
		}
		return []*geojson.Feature{geojson.NewFeature(geometry.Geometry())}, nil
	}
}

func namedPolygonsFromFeatures(features []*geojson.Feature) []NamedPolygon {
	var polygons []NamedPolygon
	for _, feature := range features {
		if feature == nil || feature.Geometry == nil {
			continue
		}
		name, _ := feature.Properties["name"].(string)
		for _, part := range geo.PolygonParts(feature.Geometry) {
			polygons = append(polygons, NamedPolygon{
				Name:    name,
				Polygon: part,
			})
		}
	}
	return polygons
}

func baseName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
