package geo

import (
	"math"

	venise_geo "github.com/dernise/venise/geo"
	"github.com/paulmach/orb"
)

func convertToVenisePolygon(orbPolygon orb.Polygon) venise_geo.Polygon {
	polygon := venise_geo.Polygon{
		Rings: make([][]venise_geo.Point, len(orbPolygon)),
	}
	for ringIdx, ring := range orbPolygon {
		ringPoints := make([]venise_geo.Point, len(ring))
		for ptsIdx, coord := range ring {
			ringPoints[ptsIdx] = venise_geo.Point(coord)
		}
		polygon.Rings[ringIdx] = ringPoints
	}
	return polygon
}

// LargestPolygon returns the part with the largest planar area. The first
// part wins ties.
func LargestPolygon(mp orb.MultiPolygon) orb.Polygon {
	switch len(mp) {
	case 0:
		return nil
	case 1:
		return mp[0]
	}

	bestPoly := mp[0]
	maxArea := Area(bestPoly)

	for _, poly := range mp[1:] {
		area := Area(poly)
		if area > maxArea {
			maxArea = area
			bestPoly = poly
		}
	}

	return bestPoly
}

// RepresentativePoint returns the centroid when the polygon contains it,
// otherwise a point guaranteed to be inside, found with polylabel at a
// precision relative to the polygon's size.
func RepresentativePoint(polygon orb.Polygon) orb.Point {
	center := Centroid(polygon)
	if IsDegenerate(polygon) || Contains(polygon, center) {
		return center
	}

	bound := PolygonEnvelope(polygon)
	precision := math.Max(bound.Max[0]-bound.Min[0], bound.Max[1]-bound.Min[1]) / 1000
	point := venise_geo.Polylabel(convertToVenisePolygon(polygon), precision, false)
	return orb.Point(point)
}

// PolygonParts splits a geometry into its polygon parts. Anything that is
// not a Polygon or MultiPolygon has no parts.
func PolygonParts(geometry orb.Geometry) []orb.Polygon {
	switch g := geometry.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return []orb.Polygon(g)
	case orb.Bound:
		return []orb.Polygon{g.ToPolygon()}
	case orb.Collection:
		var parts []orb.Polygon
		for _, child := range g {
			parts = append(parts, PolygonParts(child)...)
		}
		return parts
	}
	return nil
}
