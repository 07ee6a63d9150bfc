package polylabel

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartwerk/riverlabel/geo"
)

func rect(minX, minY, maxX, maxY float64) orb.Ring {
	return orb.Ring{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}
}

func regularPolygon(center orb.Point, radius float64, sides int) orb.Polygon {
	ring := make(orb.Ring, 0, sides+1)
	for i := 0; i < sides; i++ {
		a := 2 * math.Pi * float64(i) / float64(sides)
		ring = append(ring, orb.Point{center[0] + radius*math.Cos(a), center[1] + radius*math.Sin(a)})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

func bruteForceClearance(polygon orb.Polygon, step float64) float64 {
	bound := geo.PolygonEnvelope(polygon)
	best := math.Inf(-1)
	for x := bound.Min[0]; x <= bound.Max[0]; x += step {
		for y := bound.Min[1]; y <= bound.Max[1]; y += step {
			if d := geo.SignedClearance(polygon, orb.Point{x, y}); d > best {
				best = d
			}
		}
	}
	return best
}

func TestSolve_Rectangle(t *testing.T) {
	x, y, d := Solve(orb.Polygon{rect(0, 0, 100, 20)}, 0.5)

	assert.InDelta(t, 50.0, x, 1e-9)
	assert.InDelta(t, 10.0, y, 1e-9)
	assert.InDelta(t, 10.0, d, 1e-9)
}

func TestSolve_ConvexMatchesBruteForce(t *testing.T) {
	const precision = 0.5
	const step = 0.25

	shapes := map[string]orb.Polygon{
		"triangle":  {{{0, 0}, {40, 0}, {10, 30}, {0, 0}}},
		"trapezoid": {{{0, 0}, {60, 0}, {45, 18}, {12, 18}, {0, 0}}},
		"rotated":   geo.RotatePolygon(orb.Polygon{rect(0, 0, 50, 12)}, 33, orb.Point{25, 6}),
	}

	for name, polygon := range shapes {
		t.Run(name, func(t *testing.T) {
			x, y, d := Solve(polygon, precision)
			brute := bruteForceClearance(polygon, step)

			assert.True(t, planar.PolygonContains(polygon, orb.Point{x, y}))
			assert.InDelta(t, geo.SignedClearance(polygon, orb.Point{x, y}), d, 1e-9)
			assert.GreaterOrEqual(t, d, brute-precision)
			assert.LessOrEqual(t, d, brute+step*math.Sqrt2)
		})
	}
}

func TestSolve_RegularPolygon(t *testing.T) {
	const radius = 50.0
	polygon := regularPolygon(orb.Point{100, 100}, radius, 64)

	x, y, d := Solve(polygon, 0.5)

	// the inscribed circle of a 64-gon is about 0.06 short of the radius
	assert.InDelta(t, radius, d, 0.5+0.1)
	assert.InDelta(t, 100.0, x, 1.0)
	assert.InDelta(t, 100.0, y, 1.0)
}

func TestSolve_Degenerate(t *testing.T) {
	x, y, d := Solve(orb.Polygon{{{7, 3}, {7, 3}, {7, 3}, {7, 3}}}, 0.5)
	assert.Equal(t, 7.0, x)
	assert.Equal(t, 3.0, y)
	assert.Equal(t, 0.0, d)

	x, y, d = Solve(orb.Polygon{{{0, 0}, {10, 0}, {0, 0}}}, 0.5)
	assert.InDelta(t, 5.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)
	assert.Equal(t, 0.0, d)

	x, y, d = Solve(orb.Polygon{}, 0.5)
	assert.Equal(t, []float64{0, 0, 0}, []float64{x, y, d})
}

func TestSolve_NonConvex(t *testing.T) {
	u := orb.Polygon{{
		{0, 0}, {30, 0}, {30, 30}, {20, 30}, {20, 10}, {10, 10}, {10, 30}, {0, 30}, {0, 0},
	}}

	x, y, d := Solve(u, 0.5)

	assert.True(t, geo.Contains(u, orb.Point{x, y}))
	assert.Greater(t, d, 5.0)
	assert.LessOrEqual(t, d, 6.0)
}

func TestSolve_IgnoresHoles(t *testing.T) {
	polygon := orb.Polygon{rect(0, 0, 40, 40), rect(22, 18, 26, 22)}

	x, y, d := Solve(polygon, 0.5)
	p := orb.Point{x, y}

	require.True(t, geo.Contains(polygon, p))
	assert.GreaterOrEqual(t, d, 19.5)
	assert.LessOrEqual(t, d, 20.0)

	// the pole sits right next to the hole because only the exterior ring
	// counts
	hole := geo.BoundaryDistance(orb.Polygon{polygon[1]}, p)
	assert.Less(t, hole, 2.5)
}

func TestSolve_NonPositivePrecisionUsesDefault(t *testing.T) {
	polygon := orb.Polygon{{{0, 0}, {40, 0}, {10, 30}, {0, 0}}}

	x1, y1, d1 := Solve(polygon, 0)
	x2, y2, d2 := Solve(polygon, DefaultPrecision)

	assert.Equal(t, []float64{x2, y2, d2}, []float64{x1, y1, d1})
}

func TestSolveWithStats_Deterministic(t *testing.T) {
	shape := geo.NewShape(regularPolygon(orb.Point{0, 0}, 30, 7))

	first := SolveWithStats(shape, 0.1)
	second := SolveWithStats(shape, 0.1)

	assert.Equal(t, first, second)
	assert.Greater(t, first.Cells, 1)

	x, y, d := SolveShape(shape, 0.1)
	assert.Equal(t, first.Point(), orb.Point{x, y})
	assert.Equal(t, first.Distance, d)
}

func TestSolveWithStats_PrecisionTradeoff(t *testing.T) {
	shape := geo.NewShape(regularPolygon(orb.Point{0, 0}, 30, 9))

	coarse := SolveWithStats(shape, 2)
	fine := SolveWithStats(shape, 0.05)

	assert.GreaterOrEqual(t, fine.Distance, coarse.Distance-2)
}
