package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kartwerk/riverlabel/db_store"
	"github.com/kartwerk/riverlabel/placement"
)

// Label is a placement for one river name. Coordinates are in the
// source's coordinate system.
type Label struct {
	Name      string
	Metrics   placement.TextMetrics
	Placement placement.Placement
}

type LabelBatch struct {
	Id     string
	Labels []Label
}

type Sink interface {
	SinkName() string
	SaveLabels(context.Context, LabelBatch) error
}

type PlacementInserter interface {
	InsertPlacements(ctx context.Context, placements []*db_store.LabelPlacement) error
}

type DBSink struct {
	store PlacementInserter
}

func (*DBSink) SinkName() string {
	return "db"
}

func (sink *DBSink) SaveLabels(ctx context.Context, batch LabelBatch) error {
	rows := make([]*db_store.LabelPlacement, len(batch.Labels))
	for i, label := range batch.Labels {
		rows[i] = db_store.NewLabelPlacement(batch.Id, label.Name, label.Placement, label.Metrics)
	}
	if err := sink.store.InsertPlacements(ctx, rows); err != nil {
		return fmt.Errorf("failed to save batch '%s': %w", batch.Id, err)
	}
	return nil
}

func NewDBSink(store PlacementInserter) *DBSink {
	return &DBSink{store: store}
}

// JSONSink writes a batch as a GeoJSON FeatureCollection of label points.
type JSONSink struct {
	writer io.Writer
	indent bool
}

func (*JSONSink) SinkName() string {
	return "json"
}

func LabelFeature(batchId string, label Label) *geojson.Feature {
	p := label.Placement
	feature := geojson.NewFeature(orb.Point{p.X, p.Y})
	feature.Properties["name"] = label.Name
	if batchId != "" {
		feature.Properties["batch_id"] = batchId
	}
	if label.Metrics.Text != "" {
		feature.Properties["label"] = label.Metrics.Text
	}
	if label.Metrics.FontSize > 0 {
		feature.Properties["font_size"] = label.Metrics.FontSize
	}
	feature.Properties["polygon_index"] = p.PolygonIndex
	feature.Properties["rotation_degrees"] = p.Rotation
	feature.Properties["fits_inside"] = p.FitsInside
	feature.Properties["available_width"] = p.AvailableWidth
	feature.Properties["available_height"] = p.AvailableHeight
	feature.Properties["distance"] = p.Distance
	return feature
}

func (sink *JSONSink) SaveLabels(ctx context.Context, batch LabelBatch) error {
	fc := geojson.NewFeatureCollection()
	for _, label := range batch.Labels {
		fc.Append(LabelFeature(batch.Id, label))
	}

	encoder := json.NewEncoder(sink.writer)
	if sink.indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(fc); err != nil {
		return fmt.Errorf("failed to write batch '%s': %w", batch.Id, err)
	}
	return nil
}

func NewJSONSink(writer io.Writer, indent bool) *JSONSink {
	return &JSONSink{writer: writer, indent: indent}
}
