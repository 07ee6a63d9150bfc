package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/kartwerk/riverlabel/geo"
	"github.com/kartwerk/riverlabel/placement"
)

type Summary struct {
	BatchId  string        `json:"batch_id"`
	Polygons int           `json:"polygons"`
	Skipped  int           `json:"skipped"`
	Labels   int           `json:"labels"`
	Fitting  int           `json:"fitting"`
	Duration time.Duration `json:"duration"`
}

type LabelRunner struct {
	logger *logrus.Logger
	config Config

	source Source
	sink   Sink
}

type polygonGroup struct {
	name      string
	polygons  []orb.Polygon
	unproject orb.Projection
}

func (runner *LabelRunner) polygonName(np NamedPolygon) string {
	if np.Name != "" {
		return np.Name
	}
	name := runner.config.DefaultName
	if runner.config.DefaultNameLocation {
		point := geo.RepresentativePoint(np.Polygon)
		if np.Unproject != nil {
			point = np.Unproject(point)
		}
		name += fmt.Sprintf(" at %0.5f,%0.5f", point.Y(), point.X())
	}
	return name
}

// groupPolygons validates and groups polygons by name, keeping the order in
// which names first appear.
func (runner *LabelRunner) groupPolygons(ctx context.Context, polygons []NamedPolygon) ([]*polygonGroup, int, error) {
	var groups []*polygonGroup
	byName := make(map[string]*polygonGroup)
	skipped := 0

	for _, np := range polygons {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		if err := geo.Validate(np.Polygon); err != nil {
			runner.logger.Warnf("IMPORT: skipping polygon '%s': %v", np.Name, err)
			skipped++
			continue
		}

		if geo.IsEmpty(np.Polygon) {
			runner.logger.Warnf("IMPORT: skipping polygon '%s': empty", np.Name)
			skipped++
			continue
		}

		name := runner.polygonName(np)
		if name == "" {
			runner.logger.Warnf("IMPORT: skipping polygon with no name and no default name configured")
			skipped++
			continue
		}

		if min := runner.config.MinArea; min > 0 {
			if area := geo.Area(np.Polygon); area < min {
				runner.logger.Warnf("IMPORT: skipping polygon '%s': area too small (%0.3f < %0.3f)", name, area, min)
				skipped++
				continue
			}
		}

		group := byName[name]
		if group == nil {
			group = &polygonGroup{name: name, unproject: np.Unproject}
			byName[name] = group
			groups = append(groups, group)
		}
		group.polygons = append(group.polygons, np.Polygon)
	}

	return groups, skipped, nil
}

func (runner *LabelRunner) placeGroup(ctx context.Context, group *polygonGroup) ([]Label, error) {
	config := runner.config

	text := config.Text
	if text == "" {
		text = group.name
	}
	metrics := placement.EstimateTextMetrics(text, config.Placement.FontSize)

	placements, err := config.Placement.Evaluator.PlaceAllConcurrent(
		ctx,
		group.polygons,
		metrics,
		config.Placement.Padding,
		config.Placement.Workers,
	)
	if err != nil {
		return nil, err
	}

	if config.Best {
		best, err := placement.SelectBest(placements)
		if err != nil {
			return nil, err
		}
		placements = []placement.Placement{best}
	}

	labels := make([]Label, len(placements))
	for i, p := range placements {
		if group.unproject != nil {
			pt := group.unproject(orb.Point{p.X, p.Y})
			p.X, p.Y = pt.X(), pt.Y()
		}
		labels[i] = Label{
			Name:      group.name,
			Metrics:   metrics,
			Placement: p,
		}
	}
	return labels, nil
}

// Run loads polygons from the source, places labels and saves them to the
// sink as a single batch.
func (runner *LabelRunner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{
		BatchId: uuid.NewString(),
	}

	polygons, err := runner.source.LoadPolygons(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to get polygons from %s source: %w", runner.source.SourceName(), err)
	}
	summary.Polygons = len(polygons)

	groups, skipped, err := runner.groupPolygons(ctx, polygons)
	if err != nil {
		return summary, err
	}
	summary.Skipped = skipped

	runner.logger.Infof("IMPORT[%s]: placing labels for %d names (%d polygons, %d skipped)",
		summary.BatchId, len(groups), len(polygons), skipped,
	)

	batch := LabelBatch{Id: summary.BatchId}
	for _, group := range groups {
		labels, err := runner.placeGroup(ctx, group)
		if err != nil {
			return summary, fmt.Errorf("failed to place labels for '%s': %w", group.name, err)
		}
		for _, label := range labels {
			if label.Placement.FitsInside {
				summary.Fitting++
			}
			runner.logger.Debugf(
				"IMPORT[%s]: '%s' part %d at %0.5f,%0.5f rotation %0.1f fits %t",
				summary.BatchId,
				label.Name,
				label.Placement.PolygonIndex,
				label.Placement.X,
				label.Placement.Y,
				label.Placement.Rotation,
				label.Placement.FitsInside,
			)
		}
		batch.Labels = append(batch.Labels, labels...)
	}
	summary.Labels = len(batch.Labels)

	if err := runner.sink.SaveLabels(ctx, batch); err != nil {
		return summary, fmt.Errorf("failed to save labels to %s sink: %w", runner.sink.SinkName(), err)
	}

	summary.Duration = time.Since(start)
	runner.logger.Infof("IMPORT[%s]: saved %d labels (%d fit) in %s",
		summary.BatchId, summary.Labels, summary.Fitting, summary.Duration.Truncate(time.Millisecond),
	)

	return summary, nil
}

func NewLabelRunner(logger *logrus.Logger, config Config, source Source, sink Sink) (*LabelRunner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	runner := &LabelRunner{
		logger: logger,
		config: config,
		source: source,
		sink:   sink,
	}
	return runner, nil
}
