package placement

import "errors"

// ErrEmptyInput is returned when asked to pick the best of no placements.
var ErrEmptyInput = errors.New("no placements to select from")

// TextMetrics is the size of a label's bounding box in polygon units.
// Text and FontSize are informational.
type TextMetrics struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
}

// Placement is where and how to draw a label inside one polygon.
type Placement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// counter-clockwise from horizontal, in (-90, 90]
	Rotation   float64 `json:"rotation_degrees"`
	FitsInside bool    `json:"fits_inside"`
	// space around the pole, derived from Distance
	AvailableWidth  float64 `json:"available_width"`
	AvailableHeight float64 `json:"available_height"`
	PolygonIndex    int     `json:"polygon_index"`
	// clearance radius found by the pole solver
	Distance float64 `json:"distance"`
}

func (p Placement) AvailableArea() float64 {
	return p.AvailableWidth * p.AvailableHeight
}

// Evaluation is a Placement plus how it was arrived at.
type Evaluation struct {
	Placement Placement
	// padding that produced the searched region: the requested padding,
	// half of it, or 0 when both collapsed the polygon
	PaddingUsed float64
	SolverCells int
}
