package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rect(minX, minY, maxX, maxY float64) orb.Ring {
	return orb.Ring{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}
}

// uShape opens upwards, so its centroid falls in the notch.
func uShape() orb.Polygon {
	return orb.Polygon{{
		{0, 0}, {30, 0}, {30, 30}, {20, 30}, {20, 10}, {10, 10}, {10, 30}, {0, 30}, {0, 0},
	}}
}

func TestNormalize_ClosesRings(t *testing.T) {
	open := orb.Polygon{{{0, 0}, {10, 0}, {10, 10}}}

	normalized := Normalize(open)
	require.Len(t, normalized, 1)
	assert.Len(t, normalized[0], 4)
	assert.Equal(t, normalized[0][0], normalized[0][3])
	assert.Len(t, open[0], 3, "input must not be modified")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(orb.Polygon{rect(0, 0, 1, 1)}))
	assert.NoError(t, Validate(orb.Polygon{}), "empty polygons are not invalid")

	err := Validate(orb.Polygon{{{0, 0}, {math.NaN(), 1}, {1, 1}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidGeometry))

	err = Validate(orb.Polygon{{{0, 0}, {math.Inf(1), 1}, {1, 1}}})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestContains(t *testing.T) {
	polygon := orb.Polygon{rect(0, 0, 100, 20)}

	assert.True(t, Contains(polygon, orb.Point{50, 10}))
	assert.False(t, Contains(polygon, orb.Point{150, 10}))
	assert.True(t, Contains(polygon, orb.Point{0, 10}), "boundary counts as inside")
	assert.False(t, Contains(orb.Polygon{}, orb.Point{0, 0}))
}

func TestContains_Hole(t *testing.T) {
	polygon := orb.Polygon{rect(0, 0, 40, 40), rect(10, 10, 30, 30)}

	assert.False(t, Contains(polygon, orb.Point{20, 20}), "point in a hole is outside")
	assert.True(t, Contains(polygon, orb.Point{5, 5}))
}

func TestBoundaryDistance(t *testing.T) {
	polygon := orb.Polygon{rect(0, 0, 100, 20)}

	assert.InDelta(t, 10.0, BoundaryDistance(polygon, orb.Point{50, 10}), 1e-9)
	assert.InDelta(t, 10.0, BoundaryDistance(polygon, orb.Point{110, 10}), 1e-9)
	assert.InDelta(t, 0.0, BoundaryDistance(orb.Polygon{}, orb.Point{1, 1}), 1e-9)
}

func TestSignedClearance(t *testing.T) {
	polygon := orb.Polygon{rect(0, 0, 100, 20)}

	assert.InDelta(t, 10.0, SignedClearance(polygon, orb.Point{50, 10}), 1e-9)
	assert.InDelta(t, -10.0, SignedClearance(polygon, orb.Point{110, 10}), 1e-9)
}

func TestSignedClearance_IgnoresHoles(t *testing.T) {
	polygon := orb.Polygon{rect(0, 0, 40, 40), rect(15, 15, 25, 25)}

	// (12, 20) is 3 away from the hole but 12 away from the exterior
	assert.InDelta(t, 12.0, SignedClearance(polygon, orb.Point{12, 20}), 1e-9)

	// inside the hole the point is not contained, the magnitude still comes
	// from the exterior
	assert.InDelta(t, -20.0, SignedClearance(polygon, orb.Point{20, 20}), 1e-9)
}

func TestEnvelope(t *testing.T) {
	assert.Equal(t, orb.Bound{}, Envelope(nil))

	single := Envelope([]orb.Point{{3, 4}})
	assert.Equal(t, orb.Point{3, 4}, single.Min)
	assert.Equal(t, orb.Point{3, 4}, single.Max)

	bound := Envelope([]orb.Point{{3, 4}, {-1, 10}, {5, 0}})
	assert.Equal(t, orb.Point{-1, 0}, bound.Min)
	assert.Equal(t, orb.Point{5, 10}, bound.Max)
}

func TestIsDegenerate(t *testing.T) {
	assert.True(t, IsDegenerate(orb.Polygon{}))
	assert.True(t, IsDegenerate(orb.Polygon{{{1, 1}, {1, 1}, {1, 1}, {1, 1}}}))
	assert.True(t, IsDegenerate(orb.Polygon{{{0, 0}, {10, 0}, {5, 0}, {0, 0}}}))
	assert.False(t, IsDegenerate(orb.Polygon{rect(0, 0, 1, 1)}))
}

func TestAreaAndCentroid(t *testing.T) {
	polygon := orb.Polygon{rect(0, 0, 100, 20)}

	assert.InDelta(t, 2000.0, Area(polygon), 1e-9)
	c := Centroid(polygon)
	assert.InDelta(t, 50.0, c[0], 1e-9)
	assert.InDelta(t, 10.0, c[1], 1e-9)

	coincident := orb.Polygon{{{7, 3}, {7, 3}, {7, 3}, {7, 3}}}
	assert.Equal(t, 0.0, Area(coincident))
	assert.Equal(t, orb.Point{7, 3}, Centroid(coincident))
}

func TestRepresentativePoint(t *testing.T) {
	square := orb.Polygon{rect(0, 0, 10, 10)}
	p := RepresentativePoint(square)
	assert.InDelta(t, 5.0, p[0], 1e-9)
	assert.InDelta(t, 5.0, p[1], 1e-9)

	u := uShape()
	require.False(t, Contains(u, Centroid(u)), "u-shape centroid should be in the notch")
	assert.True(t, Contains(u, RepresentativePoint(u)))
}

func TestLargestPolygon(t *testing.T) {
	assert.Nil(t, LargestPolygon(nil))

	small := orb.Polygon{rect(0, 0, 1, 1)}
	big := orb.Polygon{rect(10, 10, 15, 15)}
	same := orb.Polygon{rect(20, 20, 25, 25)}

	assert.Equal(t, big, LargestPolygon(orb.MultiPolygon{small, big, same}), "first part wins ties")
	assert.Equal(t, small, LargestPolygon(orb.MultiPolygon{small}))
}

func TestPolygonParts(t *testing.T) {
	a := orb.Polygon{rect(0, 0, 10, 10)}
	b := orb.Polygon{rect(20, 0, 30, 10)}

	assert.Len(t, PolygonParts(a), 1)
	assert.Len(t, PolygonParts(orb.MultiPolygon{a, b}), 2)
	assert.Len(t, PolygonParts(orb.Collection{a, orb.Point{1, 1}, orb.MultiPolygon{b}}), 2)
	assert.Len(t, PolygonParts(orb.Bound{Max: orb.Point{1, 1}}), 1)
	assert.Nil(t, PolygonParts(orb.LineString{{0, 0}, {1, 1}}))
}
