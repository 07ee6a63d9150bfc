package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// RotatePoint rotates p counter-clockwise by angle degrees about origin.
func RotatePoint(p orb.Point, angle float64, origin orb.Point) orb.Point {
	rad := angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := p[0]-origin[0], p[1]-origin[1]
	return orb.Point{
		origin[0] + dx*cos - dy*sin,
		origin[1] + dx*sin + dy*cos,
	}
}

func RotatePoints(points []orb.Point, angle float64, origin orb.Point) []orb.Point {
	rotated := make([]orb.Point, len(points))
	for i, p := range points {
		rotated[i] = RotatePoint(p, angle, origin)
	}
	return rotated
}

// RotatePolygon returns a rotated copy. The input is not modified.
func RotatePolygon(polygon orb.Polygon, angle float64, origin orb.Point) orb.Polygon {
	rotated := make(orb.Polygon, len(polygon))
	for i, ring := range polygon {
		rotated[i] = orb.Ring(RotatePoints(ring, angle, origin))
	}
	return rotated
}
