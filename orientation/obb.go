// Package orientation estimates the reading direction of elongated shapes
// from a minimum-area oriented bounding box.
package orientation

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/kartwerk/riverlabel/geo"
)

// an edge only replaces the current box when it is smaller by more than
// this fraction
const relativeAreaEpsilon = 1e-9

// MinimumAreaOBB approximates the minimum-area oriented bounding box by
// trying the direction of each convex hull edge. It returns the box as a
// closed ring and the winning edge angle in degrees. Hulls with fewer than
// three vertices give the axis-aligned envelope at angle 0.
//
// Equal areas keep the first hull edge, starting from the leftmost vertex
// and going counter-clockwise. A rectangle's long and short sides tie, so
// its angle may run across the long axis rather than along it.
func MinimumAreaOBB(polygon orb.Polygon) (orb.Ring, float64) {
	envelope := geo.PolygonEnvelope(polygon).ToRing()

	hull := geo.ConvexHull(polygon)
	if len(hull) < 3 {
		return envelope, 0
	}

	pivot := geo.Centroid(polygon)
	exterior := polygon[0]

	minArea := math.Inf(1)
	bestAngle := 0.0
	var bestBox orb.Ring

	for i := range hull {
		p1 := hull[i]
		p2 := hull[(i+1)%len(hull)]

		angle := math.Atan2(p2[1]-p1[1], p2[0]-p1[0]) * 180 / math.Pi

		bound := geo.Envelope(geo.RotatePoints(exterior, -angle, pivot))
		area := (bound.Max[0] - bound.Min[0]) * (bound.Max[1] - bound.Min[1])

		if bestBox == nil || area < minArea-math.Abs(minArea)*relativeAreaEpsilon {
			minArea = area
			bestAngle = angle
			bestBox = orb.Ring(geo.RotatePoints(bound.ToRing(), angle, pivot))
		}
	}

	return bestBox, bestAngle
}

// NormalizeAngle maps any angle in degrees into (-90, 90] so text placed
// at that angle is never upside down.
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 180)
	if angle < 0 {
		angle += 180
	}
	if angle >= 180 {
		angle -= 180
	}
	if angle > 90 {
		angle -= 180
	}
	if angle == 0 {
		// math.Mod keeps the sign of -180
		return 0
	}
	return angle
}

// FlowDirection is the counter-clockwise reading angle of the polygon's
// dominant axis, in (-90, 90].
func FlowDirection(polygon orb.Polygon) float64 {
	_, angle := MinimumAreaOBB(polygon)
	return NormalizeAngle(angle)
}

func EstimateOrientation(polygon orb.Polygon) float64 {
	return FlowDirection(polygon)
}
