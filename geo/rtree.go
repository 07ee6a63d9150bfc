package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"
)

type EdgeRTreeEntry struct {
	a, b orb.Point
}

func (e EdgeRTreeEntry) DistanceSquared(p orb.Point) float64 {
	return planar.DistanceFromSegmentSquared(e.a, e.b, p)
}

// EdgeRTree indexes ring edges by their bounding boxes so the closest edge
// to a point can be found without scanning every edge. It is read-only once
// built and safe for concurrent queries.
type EdgeRTree struct {
	rtree rtree.RTreeG[EdgeRTreeEntry]
	bound orb.Bound
	count int
}

func (rt *EdgeRTree) insertEdge(a, b orb.Point) {
	bbox := orb.MultiPoint{a, b}.Bound()
	if rt.count == 0 {
		rt.bound = bbox
	} else {
		rt.bound = rt.bound.Union(bbox)
	}
	rt.rtree.Insert(bbox.Min, bbox.Max, EdgeRTreeEntry{a: a, b: b})
	rt.count++
}

// InsertRing adds every edge of a closed ring. A ring with a single point
// is stored as a zero-length edge.
func (rt *EdgeRTree) InsertRing(ring orb.Ring) {
	switch len(ring) {
	case 0:
		return
	case 1:
		rt.insertEdge(ring[0], ring[0])
		return
	}
	for i := 0; i < len(ring)-1; i++ {
		rt.insertEdge(ring[i], ring[i+1])
	}
}

func (rt *EdgeRTree) Len() int {
	return rt.count
}

// Distance returns the distance from p to the closest indexed edge, or +Inf
// when the tree is empty.
func (rt *EdgeRTree) Distance(p orb.Point) float64 {
	if rt.count == 0 {
		return math.Inf(1)
	}

	best := math.Inf(1)
	target := [2]float64{p[0], p[1]}
	rt.rtree.Nearby(
		rtree.BoxDist[float64, EdgeRTreeEntry](target, target, func(_, _ [2]float64, entry EdgeRTreeEntry) float64 {
			return entry.DistanceSquared(p)
		}),
		func(_, _ [2]float64, _ EdgeRTreeEntry, distSq float64) bool {
			// the first item is the closest one
			best = distSq
			return false
		},
	)
	return math.Sqrt(best)
}

func (rt *EdgeRTree) Bound() orb.Bound {
	return rt.bound
}

func NewEdgeRTree() *EdgeRTree {
	return &EdgeRTree{}
}
