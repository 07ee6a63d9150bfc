package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Shape is a polygon prepared for repeated clearance queries. It keeps one
// edge index for the exterior ring and one for the holes.
type Shape struct {
	polygon  orb.Polygon
	exterior *EdgeRTree
	holes    *EdgeRTree
}

func (s *Shape) Polygon() orb.Polygon {
	return s.polygon
}

func (s *Shape) Contains(p orb.Point) bool {
	if IsEmpty(s.polygon) {
		return false
	}
	return planar.PolygonContains(s.polygon, p)
}

// BoundaryDistance measures to the exterior ring only.
func (s *Shape) BoundaryDistance(p orb.Point) float64 {
	if s.exterior.Len() == 0 {
		return 0
	}
	return s.exterior.Distance(p)
}

func (s *Shape) SignedClearance(p orb.Point) float64 {
	d := s.BoundaryDistance(p)
	if !s.Contains(p) {
		return -d
	}
	return d
}

// Clearance is like SignedClearance but also measures to the holes.
func (s *Shape) Clearance(p orb.Point) float64 {
	d := s.BoundaryDistance(p)
	if s.holes.Len() > 0 {
		d = math.Min(d, s.holes.Distance(p))
	}
	if !s.Contains(p) {
		return -d
	}
	return d
}

func NewShape(polygon orb.Polygon) *Shape {
	polygon = Normalize(polygon)

	shape := &Shape{
		polygon:  polygon,
		exterior: NewEdgeRTree(),
		holes:    NewEdgeRTree(),
	}

	for idx, ring := range polygon {
		if idx == 0 {
			shape.exterior.InsertRing(ring)
		} else {
			shape.holes.InsertRing(ring)
		}
	}

	return shape
}
