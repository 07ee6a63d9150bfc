package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/paulmach/osm"
	"github.com/sirupsen/logrus"

	"github.com/kartwerk/riverlabel/overpass"
)

type Source interface {
	SourceName() string
	LoadPolygons(context.Context) ([]NamedPolygon, error)
}

// WKTFileSource loads a WKT file. Every part is named after the file
// unless a name is given.
type WKTFileSource struct {
	logger   *logrus.Logger
	filename string
	name     string
}

func (*WKTFileSource) SourceName() string {
	return "wkt"
}

func (src *WKTFileSource) LoadPolygons(ctx context.Context) ([]NamedPolygon, error) {
	polygons, warnings, err := LoadWKTFile(src.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load polygons from '%s': %w", src.filename, err)
	}
	for _, warning := range warnings {
		src.logger.Warnf("IMPORT: skipping line: %v", warning)
	}

	name := src.name
	if name == "" {
		name = baseName(src.filename)
	}

	named := make([]NamedPolygon, len(polygons))
	for i, polygon := range polygons {
		named[i] = NamedPolygon{Name: name, Polygon: polygon}
	}
	return named, nil
}

func NewWKTFileSource(logger *logrus.Logger, filename, name string) *WKTFileSource {
	return &WKTFileSource{
		logger:   logger,
		filename: filename,
		name:     name,
	}
}

type GeoJSONFileSource struct {
	filename string
}

func (*GeoJSONFileSource) SourceName() string {
	return "geojson"
}

func (src *GeoJSONFileSource) LoadPolygons(ctx context.Context) ([]NamedPolygon, error) {
	polygons, err := LoadGeoJSONFile(src.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load polygons from '%s': %w", src.filename, err)
	}
	return polygons, nil
}

func NewGeoJSONFileSource(filename string) *GeoJSONFileSource {
	return &GeoJSONFileSource{filename: filename}
}

type WaterAreaQuerier interface {
	GetWaterAreas(ctx context.Context, bound orb.Bound, name string) (*osm.OSM, error)
}

// OverpassSource loads river water areas from overpass. Coordinates are
// lon/lat, so polygons are projected to web mercator meters for placement
// and the resulting label points are mapped back to lon/lat.
type OverpassSource struct {
	logger      *logrus.Logger
	overpassCli WaterAreaQuerier
	bound       orb.Bound
	name        string
}

func (*OverpassSource) SourceName() string {
	return "overpass"
}

func (src *OverpassSource) LoadPolygons(ctx context.Context) ([]NamedPolygon, error) {
	osmData, err := src.overpassCli.GetWaterAreas(ctx, src.bound, src.name)
	if err != nil {
		return nil, fmt.Errorf("failed to query overpass: %w", err)
	}

	features, err := overpass.WaterFeatures(osmData)
	if err != nil {
		return nil, err
	}

	src.logger.Infof("IMPORT: overpass returned %d water areas", len(features))

	polygons := namedPolygonsFromFeatures(features)
	for i := range polygons {
		polygons[i].Polygon = project.Polygon(polygons[i].Polygon.Clone(), project.WGS84.ToMercator)
		polygons[i].Unproject = project.Mercator.ToWGS84
	}
	return polygons, nil
}

func NewOverpassSource(logger *logrus.Logger, overpassCli WaterAreaQuerier, bound orb.Bound, name string) (*OverpassSource, error) {
	if overpassCli == nil {
		return nil, errors.New("no overpass client given")
	}
	if bound.IsEmpty() || bound.IsZero() {
		return nil, errors.New("overpass bbox is empty")
	}
	return &OverpassSource{
		logger:      logger,
		overpassCli: overpassCli,
		bound:       bound,
		name:        name,
	}, nil
}

// MultiSource concatenates the polygons of several sources in order.
type MultiSource []Source

func (MultiSource) SourceName() string {
	return "multi"
}

func (mSource *MultiSource) Append(source Source) {
	*mSource = append(*mSource, source)
}

func (mSource MultiSource) LoadPolygons(ctx context.Context) ([]NamedPolygon, error) {
	var all []NamedPolygon
	for _, source := range mSource {
		polygons, err := source.LoadPolygons(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, polygons...)
	}
	return all, nil
}
