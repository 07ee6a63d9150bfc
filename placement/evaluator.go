package placement

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/kartwerk/riverlabel/geo"
	"github.com/kartwerk/riverlabel/orientation"
	"github.com/kartwerk/riverlabel/polylabel"
)

const (
	DEFAULT_PRECISION        = 0.5
	DEFAULT_WIDTH_FACTOR     = 0.9
	DEFAULT_HEIGHT_FACTOR    = 0.5
	DEFAULT_WIDTH_TOLERANCE  = 1.5
	DEFAULT_HEIGHT_TOLERANCE = 3.0
)

// Evaluator turns a polygon and text metrics into a Placement.
//
// The available space around the pole is a proxy built from the inscribed
// circle: WidthFactor and HeightFactor scale its diameter, and the
// tolerances loosen the comparison against the rotated text box.
type Evaluator struct {
	Precision       float64 `koanf:"precision" json:"precision"`
	WidthFactor     float64 `koanf:"width_factor" json:"width_factor"`
	HeightFactor    float64 `koanf:"height_factor" json:"height_factor"`
	WidthTolerance  float64 `koanf:"width_tolerance" json:"width_tolerance"`
	HeightTolerance float64 `koanf:"height_tolerance" json:"height_tolerance"`
}

func DefaultEvaluator() Evaluator {
	return Evaluator{
		Precision:       DEFAULT_PRECISION,
		WidthFactor:     DEFAULT_WIDTH_FACTOR,
		HeightFactor:    DEFAULT_HEIGHT_FACTOR,
		WidthTolerance:  DEFAULT_WIDTH_TOLERANCE,
		HeightTolerance: DEFAULT_HEIGHT_TOLERANCE,
	}
}

func (e Evaluator) Validate() error {
	if !(e.Precision > 0) {
		return fmt.Errorf("invalid precision '%0.3f': must be > 0", e.Precision)
	}
	factors := []struct {
		name string
		val  float64
	}{
		{"width_factor", e.WidthFactor},
		{"height_factor", e.HeightFactor},
		{"width_tolerance", e.WidthTolerance},
		{"height_tolerance", e.HeightTolerance},
	}
	for _, factor := range factors {
		if !(factor.val > 0) || math.IsInf(factor.val, 0) {
			return fmt.Errorf("invalid %s '%0.3f': must be > 0", factor.name, factor.val)
		}
	}
	return nil
}

// padded shrinks the polygon by padding, retrying with half the padding
// and finally giving up and using the polygon as is. When erosion splits
// the polygon the largest part is kept.
func (e Evaluator) padded(polygon orb.Polygon, padding float64) (orb.Polygon, float64, error) {
	for _, try := range []float64{padding, padding / 2} {
		parts, err := geo.BufferInward(polygon, try)
		if err != nil {
			return nil, 0, err
		}
		if len(parts) > 0 {
			if try < 0 {
				try = 0
			}
			return geo.LargestPolygon(parts), try, nil
		}
	}
	return polygon, 0, nil
}

// Evaluate is Place with details about how the placement was found.
func (e Evaluator) Evaluate(polygon orb.Polygon, metrics TextMetrics, padding float64, index int) (Evaluation, error) {
	if err := geo.Validate(polygon); err != nil {
		return Evaluation{}, fmt.Errorf("polygon %d: %w", index, err)
	}
	if math.IsNaN(padding) || math.IsInf(padding, 0) {
		return Evaluation{}, fmt.Errorf("polygon %d: %w: padding %v", index, geo.ErrInvalidGeometry, padding)
	}

	polygon = geo.Normalize(polygon)

	region, paddingUsed, err := e.padded(polygon, padding)
	if err != nil {
		return Evaluation{}, fmt.Errorf("polygon %d: %w", index, err)
	}

	pole := polylabel.SolveWithStats(geo.NewShape(region), e.Precision)
	rotation := orientation.FlowDirection(polygon)

	availableWidth := pole.Distance * 2 * e.WidthFactor
	availableHeight := pole.Distance * 2 * e.HeightFactor

	effectiveWidth, effectiveHeight := RotatedExtent(metrics.Width, metrics.Height, rotation)

	fits := effectiveWidth <= availableWidth*e.WidthTolerance &&
		effectiveHeight <= availableHeight*e.HeightTolerance

	return Evaluation{
		Placement: Placement{
			X:               pole.X,
			Y:               pole.Y,
			Rotation:        rotation,
			FitsInside:      fits,
			AvailableWidth:  availableWidth,
			AvailableHeight: availableHeight,
			PolygonIndex:    index,
			Distance:        pole.Distance,
		},
		PaddingUsed: paddingUsed,
		SolverCells: pole.Cells,
	}, nil
}

func (e Evaluator) Place(polygon orb.Polygon, metrics TextMetrics, padding float64, index int) (Placement, error) {
	eval, err := e.Evaluate(polygon, metrics, padding, index)
	if err != nil {
		return Placement{}, err
	}
	return eval.Placement, nil
}

// PlaceAll places the label in every polygon, in order. Index i of the
// result belongs to polygons[i].
func (e Evaluator) PlaceAll(polygons []orb.Polygon, metrics TextMetrics, padding float64) ([]Placement, error) {
	placements := make([]Placement, len(polygons))
	for idx, polygon := range polygons {
		placement, err := e.Place(polygon, metrics, padding, idx)
		if err != nil {
			return nil, err
		}
		placements[idx] = placement
	}
	return placements, nil
}

// RotatedExtent is the axis-aligned size of a width x height box rotated
// by angle degrees.
func RotatedExtent(width, height, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle * math.Pi / 180)
	return math.Abs(width*cos) + math.Abs(height*sin),
		math.Abs(width*sin) + math.Abs(height*cos)
}

// Place evaluates one polygon with the default evaluator.
func Place(polygon orb.Polygon, metrics TextMetrics, padding float64, index int) (Placement, error) {
	return DefaultEvaluator().Place(polygon, metrics, padding, index)
}

func PlaceAll(polygons []orb.Polygon, metrics TextMetrics, padding float64) ([]Placement, error) {
	return DefaultEvaluator().PlaceAll(polygons, metrics, padding)
}
