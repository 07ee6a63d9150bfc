package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func wavyRiver() orb.Polygon {
	var top, bottom orb.Ring
	for i := 0; i <= 60; i++ {
		x := float64(i) * 5
		y := 20 * math.Sin(float64(i)/6)
		bottom = append(bottom, orb.Point{x, y})
		top = append(top, orb.Point{x, y + 12 + 3*math.Cos(float64(i)/4)})
	}
	ring := orb.Ring{}
	ring = append(ring, bottom...)
	for i := len(top) - 1; i >= 0; i-- {
		ring = append(ring, top[i])
	}
	ring = append(ring, bottom[0])
	return orb.Polygon{ring}
}

func TestShape_MatchesBruteForce(t *testing.T) {
	polygon := wavyRiver()
	shape := NewShape(polygon)

	for x := -10.0; x <= 310; x += 7.3 {
		for y := -30.0; y <= 40; y += 3.1 {
			p := orb.Point{x, y}
			assert.InDelta(t, SignedClearance(polygon, p), shape.SignedClearance(p), 1e-9, "point %v", p)
		}
	}
}

func TestShape_ClearanceIncludesHoles(t *testing.T) {
	shape := NewShape(orb.Polygon{rect(0, 0, 40, 40), rect(15, 15, 25, 25)})

	p := orb.Point{12, 20}
	assert.InDelta(t, 12.0, shape.SignedClearance(p), 1e-9)
	assert.InDelta(t, 3.0, shape.Clearance(p), 1e-9)
	assert.InDelta(t, -5.0, shape.Clearance(orb.Point{20, 20}), 1e-9)
}

func TestShape_Empty(t *testing.T) {
	shape := NewShape(orb.Polygon{})

	assert.False(t, shape.Contains(orb.Point{0, 0}))
	assert.Equal(t, 0.0, shape.BoundaryDistance(orb.Point{1, 1}))
}

func TestEdgeRTree_Empty(t *testing.T) {
	rt := NewEdgeRTree()
	assert.Equal(t, 0, rt.Len())
	assert.True(t, math.IsInf(rt.Distance(orb.Point{0, 0}), 1))
}

func TestEdgeRTree_FarPoint(t *testing.T) {
	rt := NewEdgeRTree()
	rt.InsertRing(rect(0, 0, 1, 1))

	assert.Equal(t, 4, rt.Len())
	assert.InDelta(t, 999.0, rt.Distance(orb.Point{1000, 0.5}), 1e-9)
}
