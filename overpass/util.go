package overpass

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmgeojson"
)

func parseId(v any) (int64, bool) {
	switch v := v.(type) {
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

// AdjustFeatureProperties flattens the osm tags of a converted feature
// into its properties, so 'name' and friends sit at the top level.
// Existing properties win over tags.
func AdjustFeatureProperties(feature *geojson.Feature) {
	if feature.Properties == nil {
		feature.Properties = geojson.Properties{}
	}
	props := feature.Properties

	tags := make(map[string]string)
	switch t := props["tags"].(type) {
	case map[string]string:
		tags = t
	case map[string]any:
		for k, v := range t {
			if s, ok := v.(string); ok {
				tags[k] = s
			}
		}
	}

	// meta and relations are an object and an array we never use.
	delete(props, "meta")
	delete(props, "relations")
	delete(props, "tags")

	for k, v := range tags {
		if existing, ok := props[k]; ok && existing != "" {
			continue
		}
		props[k] = v
	}

	if id, ok := parseId(props["id"]); ok {
		props["id"] = id
	}
}

// WaterFeatures converts an overpass result into polygonal features with
// flattened properties. Ways and relations that do not form polygons are
// dropped.
func WaterFeatures(osmData *osm.OSM) ([]*geojson.Feature, error) {
	if osmData == nil {
		return nil, nil
	}

	fc, err := osmgeojson.Convert(osmData)
	if err != nil {
		return nil, fmt.Errorf("error converting osm to geojson: %w", err)
	}

	features := make([]*geojson.Feature, 0, len(fc.Features))
	for _, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}
		switch feature.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}
		AdjustFeatureProperties(feature)
		features = append(features, feature)
	}
	return features, nil
}
