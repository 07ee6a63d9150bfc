package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartwerk/riverlabel/db_store"
	"github.com/kartwerk/riverlabel/placement"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func rect(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}}
}

type staticSource []NamedPolygon

func (staticSource) SourceName() string { return "static" }

func (src staticSource) LoadPolygons(context.Context) ([]NamedPolygon, error) {
	return src, nil
}

type memorySink struct {
	batches []LabelBatch
}

func (*memorySink) SinkName() string { return "memory" }

func (sink *memorySink) SaveLabels(_ context.Context, batch LabelBatch) error {
	sink.batches = append(sink.batches, batch)
	return nil
}

func testConfig() Config {
	config := GetDefaultConfig()
	config.Placement.Padding = 0
	config.Placement.Workers = 2
	return config
}

func TestLabelRunner_Individually(t *testing.T) {
	source := staticSource{
		{Name: "Main", Polygon: rect(0, 0, 100, 20)},
		{Name: "Main", Polygon: rect(200, 0, 210, 10)},
		{Name: "Side", Polygon: rect(0, 100, 40, 140)},
	}
	sink := &memorySink{}

	runner, err := NewLabelRunner(testLogger(), testConfig(), source, sink)
	require.NoError(t, err)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.BatchId)
	assert.Equal(t, 3, summary.Polygons)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 3, summary.Labels)

	require.Len(t, sink.batches, 1)
	batch := sink.batches[0]
	assert.Equal(t, summary.BatchId, batch.Id)
	require.Len(t, batch.Labels, 3)

	main := batch.Labels[0]
	assert.Equal(t, "Main", main.Name)
	assert.Equal(t, "Main", main.Metrics.Text)
	assert.Equal(t, 0, main.Placement.PolygonIndex)
	assert.InDelta(t, 50, main.Placement.X, 0.5)
	assert.InDelta(t, 10, main.Placement.Y, 0.5)

	assert.Equal(t, "Main", batch.Labels[1].Name)
	assert.Equal(t, 1, batch.Labels[1].Placement.PolygonIndex)
	assert.Equal(t, "Side", batch.Labels[2].Name)
	assert.Equal(t, 0, batch.Labels[2].Placement.PolygonIndex)
}

func TestLabelRunner_Best(t *testing.T) {
	source := staticSource{
		{Name: "Main", Polygon: rect(200, 0, 210, 10)},
		{Name: "Main", Polygon: rect(0, 0, 100, 20)},
	}
	sink := &memorySink{}

	config := testConfig()
	config.Best = true
	config.Text = "Main River"

	runner, err := NewLabelRunner(testLogger(), config, source, sink)
	require.NoError(t, err)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Labels)

	label := sink.batches[0].Labels[0]
	assert.Equal(t, "Main River", label.Metrics.Text)
	assert.Equal(t, 1, label.Placement.PolygonIndex)
}

func TestLabelRunner_SkipsAndDefaults(t *testing.T) {
	source := staticSource{
		{Name: "Broken", Polygon: orb.Polygon{{{0, 0}, {math.NaN(), 0}, {1, 1}, {0, 0}}}},
		{Name: "Empty", Polygon: orb.Polygon{}},
		{Name: "Tiny", Polygon: rect(0, 0, 1, 1)},
		{Polygon: rect(0, 0, 100, 20)},
	}
	sink := &memorySink{}

	config := testConfig()
	config.MinArea = 10

	runner, err := NewLabelRunner(testLogger(), config, source, sink)
	require.NoError(t, err)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Skipped)
	require.Equal(t, 1, summary.Labels)
	assert.Equal(t, "River", sink.batches[0].Labels[0].Name)

	config.DefaultNameLocation = true
	runner, err = NewLabelRunner(testLogger(), config, staticSource{{Polygon: rect(0, 0, 100, 20)}}, sink)
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "River at 10.00000,50.00000", sink.batches[1].Labels[0].Name)
}

type failingSource struct{}

func (failingSource) SourceName() string { return "failing" }

func (failingSource) LoadPolygons(context.Context) ([]NamedPolygon, error) {
	return nil, errors.New("disk on fire")
}

func TestLabelRunner_Errors(t *testing.T) {
	runner, err := NewLabelRunner(testLogger(), testConfig(), failingSource{}, &memorySink{})
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	assert.ErrorContains(t, err, "disk on fire")

	config := testConfig()
	config.MinArea = -1
	_, err = NewLabelRunner(testLogger(), config, failingSource{}, &memorySink{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner, err = NewLabelRunner(testLogger(), testConfig(), staticSource{{Name: "A", Polygon: rect(0, 0, 10, 10)}}, &memorySink{})
	require.NoError(t, err)
	_, err = runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeQuerier struct {
	osmData *osm.OSM
	bound   orb.Bound
	name    string
}

func (q *fakeQuerier) GetWaterAreas(_ context.Context, bound orb.Bound, name string) (*osm.OSM, error) {
	q.bound = bound
	q.name = name
	return q.osmData, nil
}

func riverOSM() *osm.OSM {
	coords := [][2]float64{{-0.12, 51.500}, {-0.10, 51.500}, {-0.10, 51.502}, {-0.12, 51.502}}
	o := &osm.OSM{}
	way := &osm.Way{
		ID: 10,
		Tags: osm.Tags{
			{Key: "natural", Value: "water"},
			{Key: "water", Value: "river"},
			{Key: "name", Value: "Thames"},
		},
	}
	for i, c := range coords {
		id := osm.NodeID(i + 1)
		o.Nodes = append(o.Nodes, &osm.Node{ID: id, Lon: c[0], Lat: c[1]})
		way.Nodes = append(way.Nodes, osm.WayNode{ID: id, Lon: c[0], Lat: c[1]})
	}
	way.Nodes = append(way.Nodes, way.Nodes[0])
	o.Ways = append(o.Ways, way)
	return o
}

func TestOverpassSource(t *testing.T) {
	querier := &fakeQuerier{osmData: riverOSM()}
	bound := orb.Bound{Min: orb.Point{-0.2, 51.4}, Max: orb.Point{0, 51.6}}

	_, err := NewOverpassSource(testLogger(), querier, orb.Bound{}, "")
	assert.Error(t, err)

	source, err := NewOverpassSource(testLogger(), querier, bound, "Thames")
	require.NoError(t, err)

	polygons, err := source.LoadPolygons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bound, querier.bound)
	assert.Equal(t, "Thames", querier.name)
	require.Len(t, polygons, 1)
	assert.Equal(t, "Thames", polygons[0].Name)
	require.NotNil(t, polygons[0].Unproject)
	// mercator meters, not degrees
	assert.Greater(t, polygons[0].Polygon.Bound().Max[1], 1e6)

	sink := &memorySink{}
	runner, err := NewLabelRunner(testLogger(), testConfig(), source, sink)
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	require.NoError(t, err)

	label := sink.batches[0].Labels[0]
	assert.InDelta(t, -0.11, label.Placement.X, 0.001)
	assert.InDelta(t, 51.501, label.Placement.Y, 0.001)
	assert.InDelta(t, 0, label.Placement.Rotation, 1)
}

func TestMultiSource(t *testing.T) {
	var multi MultiSource
	multi.Append(staticSource{{Name: "A", Polygon: rect(0, 0, 1, 1)}})
	multi.Append(staticSource{{Name: "B", Polygon: rect(0, 0, 1, 1)}})

	polygons, err := multi.LoadPolygons(context.Background())
	require.NoError(t, err)
	require.Len(t, polygons, 2)
	assert.Equal(t, "B", polygons[1].Name)

	multi.Append(failingSource{})
	_, err = multi.LoadPolygons(context.Background())
	assert.Error(t, err)
}

type fakeInserter struct {
	rows []*db_store.LabelPlacement
	err  error
}

func (f *fakeInserter) InsertPlacements(_ context.Context, rows []*db_store.LabelPlacement) error {
	f.rows = append(f.rows, rows...)
	return f.err
}

func testBatch() LabelBatch {
	return LabelBatch{
		Id: "batch-1",
		Labels: []Label{{
			Name:      "Main",
			Metrics:   placementMetrics("Main", 12),
			Placement: placementAt(50, 10),
		}},
	}
}

func TestDBSink(t *testing.T) {
	inserter := &fakeInserter{}
	sink := NewDBSink(inserter)
	require.NoError(t, sink.SaveLabels(context.Background(), testBatch()))
	require.Len(t, inserter.rows, 1)
	row := inserter.rows[0]
	assert.Equal(t, "batch-1", row.BatchId)
	assert.Equal(t, "Main", row.Name)
	assert.Equal(t, 50.0, row.X)
	assert.Equal(t, "Main", row.Label.String)

	inserter.err = errors.New("db gone")
	assert.ErrorContains(t, sink.SaveLabels(context.Background(), testBatch()), "db gone")
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf, true)
	require.NoError(t, sink.SaveLabels(context.Background(), testBatch()))

	var fc geojson.FeatureCollection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))
	require.Len(t, fc.Features, 1)

	feature := fc.Features[0]
	assert.Equal(t, orb.Point{50, 10}, feature.Geometry)
	assert.Equal(t, "Main", feature.Properties["name"])
	assert.Equal(t, "batch-1", feature.Properties["batch_id"])
	assert.Equal(t, true, feature.Properties["fits_inside"])
	assert.Equal(t, 12.0, feature.Properties["font_size"])
}

func placementMetrics(text string, fontSize float64) placement.TextMetrics {
	return placement.EstimateTextMetrics(text, fontSize)
}

func placementAt(x, y float64) placement.Placement {
	return placement.Placement{
		X:               x,
		Y:               y,
		FitsInside:      true,
		AvailableWidth:  80,
		AvailableHeight: 16,
		Distance:        10,
	}
}
