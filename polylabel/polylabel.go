// Package polylabel finds the pole of inaccessibility of a polygon: the
// interior point farthest from the exterior ring.
package polylabel

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/kartwerk/riverlabel/geo"
)

// DefaultPrecision is used when a caller passes a precision of zero or less.
const DefaultPrecision = 0.5

// Result is a solved pole. Cells counts every clearance evaluation the
// search made, seeds and incumbent candidates included.
type Result struct {
	X        float64
	Y        float64
	Distance float64
	Cells    int
}

func (r Result) Point() orb.Point {
	return orb.Point{r.X, r.Y}
}

// Solve returns the point inside the polygon farthest from its exterior
// ring, and that distance, accurate to within precision. Holes are not
// taken into account when measuring distance.
func Solve(polygon orb.Polygon, precision float64) (x, y, distance float64) {
	res := SolveWithStats(geo.NewShape(polygon), precision)
	return res.X, res.Y, res.Distance
}

// SolveShape is Solve for a prepared shape.
func SolveShape(shape *geo.Shape, precision float64) (x, y, distance float64) {
	res := SolveWithStats(shape, precision)
	return res.X, res.Y, res.Distance
}

func SolveWithStats(shape *geo.Shape, precision float64) Result {
	if precision <= 0 || math.IsNaN(precision) {
		precision = DefaultPrecision
	}

	polygon := shape.Polygon()
	if geo.IsDegenerate(polygon) {
		c := geo.Centroid(polygon)
		return Result{X: c[0], Y: c[1]}
	}

	bound := geo.PolygonEnvelope(polygon)
	width := bound.Max[0] - bound.Min[0]
	height := bound.Max[1] - bound.Min[1]
	cellSize := math.Max(width, height)
	h := cellSize / 2

	queue := &cellQueue{}
	cells := 0

	for x := bound.Min[0]; x < bound.Max[0]; x += cellSize {
		for y := bound.Min[1]; y < bound.Max[1]; y += cellSize {
			queue.push(newCell(shape, orb.Point{x + h, y + h}, h))
			cells++
		}
	}

	best := newCell(shape, geo.Centroid(polygon), 0)
	cells++
	if !shape.Contains(best.center) {
		rep := newCell(shape, geo.RepresentativePoint(polygon), 0)
		cells++
		if rep.d > best.d {
			best = rep
		}
	}

	for queue.Len() > 0 {
		c := queue.pop()

		if c.d > best.d {
			best = c
		}

		if c.max <= best.d+precision {
			continue
		}

		h := c.h / 2
		if h <= precision/2 {
			continue
		}
		for _, offset := range [4]orb.Point{{-h, -h}, {h, -h}, {-h, h}, {h, h}} {
			queue.push(newCell(shape, orb.Point{c.center[0] + offset[0], c.center[1] + offset[1]}, h))
		}
		cells += 4
	}

	return Result{
		X:        best.center[0],
		Y:        best.center[1],
		Distance: best.d,
		Cells:    cells,
	}
}
