package geo

import (
	"sort"

	"github.com/paulmach/orb"
)

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// ConvexHull returns the hull of the exterior ring, counter-clockwise and
// without the closing point. Collinear points are dropped, so anything with
// fewer than three vertices is degenerate.
func ConvexHull(polygon orb.Polygon) []orb.Point {
	if IsEmpty(polygon) {
		return nil
	}
	return PointsConvexHull(polygon[0])
}

// PointsConvexHull is Andrew's monotone chain over an arbitrary point set.
func PointsConvexHull(points []orb.Point) []orb.Point {
	pts := make([]orb.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	// dedupe
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq

	if len(pts) < 3 {
		return append([]orb.Point(nil), pts...)
	}

	hull := make([]orb.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// the last point repeats pts[0]
	return hull[:len(hull)-1]
}
