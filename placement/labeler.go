package placement

import (
	"fmt"

	"github.com/paulmach/orb"
)

const (
	DEFAULT_PADDING   = 3.0
	DEFAULT_FONT_SIZE = 12.0
)

// Labeler places one text label over the parts of a river.
type Labeler struct {
	Padding   float64
	FontSize  float64
	Evaluator Evaluator
}

func NewLabeler(padding, fontSize float64) *Labeler {
	return &Labeler{
		Padding:   padding,
		FontSize:  fontSize,
		Evaluator: DefaultEvaluator(),
	}
}

func DefaultLabeler() *Labeler {
	return NewLabeler(DEFAULT_PADDING, DEFAULT_FONT_SIZE)
}

// PlaceLabel returns the best placement for text across all parts.
func (l *Labeler) PlaceLabel(polygons []orb.Polygon, text string) (Placement, error) {
	placements, err := l.PlaceLabelsIndividually(polygons, text)
	if err != nil {
		return Placement{}, err
	}

	best, err := SelectBest(placements)
	if err != nil {
		return Placement{}, fmt.Errorf("failed to place '%s': %w", text, err)
	}
	return best, nil
}

// PlaceLabelsIndividually returns one placement per part.
func (l *Labeler) PlaceLabelsIndividually(polygons []orb.Polygon, text string) ([]Placement, error) {
	metrics := EstimateTextMetrics(text, l.FontSize)
	return l.Evaluator.PlaceAll(polygons, metrics, l.Padding)
}
