package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Normalize returns a copy of the polygon with every ring closed. Empty
// rings are dropped, except that an empty exterior stays in place so hole
// indexes keep their meaning.
func Normalize(polygon orb.Polygon) orb.Polygon {
	normalized := make(orb.Polygon, 0, len(polygon))
	for idx, ring := range polygon {
		l := len(ring)
		if l == 0 {
			if idx == 0 {
				normalized = append(normalized, orb.Ring{})
			}
			continue
		}
		closed := make(orb.Ring, l, l+1)
		copy(closed, ring)
		if closed[0] != closed[l-1] {
			closed = append(closed, closed[0])
		}
		normalized = append(normalized, closed)
	}
	return normalized
}

// Validate checks that every coordinate is finite.
func Validate(polygon orb.Polygon) error {
	for ringIdx, ring := range polygon {
		for ptIdx, pt := range ring {
			if math.IsNaN(pt[0]) || math.IsNaN(pt[1]) || math.IsInf(pt[0], 0) || math.IsInf(pt[1], 0) {
				return fmt.Errorf("%w: ring %d point %d is not finite (%v)", ErrInvalidGeometry, ringIdx, ptIdx, pt)
			}
		}
	}
	return nil
}

func IsEmpty(polygon orb.Polygon) bool {
	return len(polygon) == 0 || len(polygon[0]) == 0
}

// Envelope returns the axis-aligned envelope of the points. A single point
// gives a zero-size bound and no points give the zero bound.
func Envelope(points []orb.Point) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}
	return orb.MultiPoint(points).Bound()
}

// PolygonEnvelope is the envelope of the exterior ring.
func PolygonEnvelope(polygon orb.Polygon) orb.Bound {
	if IsEmpty(polygon) {
		return orb.Bound{}
	}
	return Envelope(polygon[0])
}

// IsDegenerate reports whether the polygon has no usable extent in at
// least one direction.
func IsDegenerate(polygon orb.Polygon) bool {
	if IsEmpty(polygon) {
		return true
	}
	bound := PolygonEnvelope(polygon)
	return bound.Max[0]-bound.Min[0] == 0 || bound.Max[1]-bound.Min[1] == 0
}

// Area returns the planar area of the polygon minus its holes.
func Area(polygon orb.Polygon) float64 {
	if IsEmpty(polygon) {
		return 0
	}
	return planar.Area(polygon)
}

// Centroid returns the area centroid. Zero-area polygons fall back to the
// centroid of the exterior ring as a line, and to its first point when that
// has no length either.
func Centroid(polygon orb.Polygon) orb.Point {
	if IsEmpty(polygon) {
		return orb.Point{}
	}
	center, _ := planar.CentroidArea(polygon)
	return center
}

func Contains(polygon orb.Polygon, point orb.Point) bool {
	if IsEmpty(polygon) {
		return false
	}
	return planar.PolygonContains(polygon, point)
}

// BoundaryDistance is the distance from the point to the closest edge of the
// exterior ring. Holes are not considered.
func BoundaryDistance(polygon orb.Polygon, point orb.Point) float64 {
	if IsEmpty(polygon) {
		return 0
	}
	return ringDistance(polygon[0], point)
}

// SignedClearance is BoundaryDistance, negated when the point is not
// contained by the polygon.
func SignedClearance(polygon orb.Polygon, point orb.Point) float64 {
	d := BoundaryDistance(polygon, point)
	if !Contains(polygon, point) {
		return -d
	}
	return d
}

func ringDistance(ring orb.Ring, point orb.Point) float64 {
	switch len(ring) {
	case 0:
		return 0
	case 1:
		return planar.Distance(ring[0], point)
	}

	minDistSq := math.Inf(1)
	for i := 0; i < len(ring)-1; i++ {
		if d := planar.DistanceFromSegmentSquared(ring[i], ring[i+1], point); d < minDistSq {
			minDistSq = d
		}
	}
	return math.Sqrt(minDistSq)
}

func ringSignedArea(ring orb.Ring) float64 {
	l := len(ring)
	if l < 3 {
		return 0
	}
	area := 0.0
	offsetX, offsetY := ring[0][0], ring[0][1]
	for i := 0; i < l-1; i++ {
		area += (ring[i][0]-offsetX)*(ring[i+1][1]-offsetY) - (ring[i+1][0]-offsetX)*(ring[i][1]-offsetY)
	}
	return area / 2
}
