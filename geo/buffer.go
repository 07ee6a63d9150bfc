package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// cells across the polygon's mean width
	clearanceGridResolution = 16
	clearanceGridMaxSamples = 1 << 18
	// each refinement quarters the step
	clearanceRefineLimit = 6
)

// ClearanceField is the signed clearance of a polygon sampled on a regular
// grid. Clearance is positive inside, negative outside and measures to every
// ring, holes included. The grid extends one step past the polygon on every
// side so all contours extracted from it are closed.
type ClearanceField struct {
	shape  *Shape
	origin orb.Point
	step   float64
	nx, ny int
	values []float64
}

func (f *ClearanceField) Step() float64 {
	return f.step
}

func (f *ClearanceField) value(i, j int) float64 {
	return f.values[j*f.nx+i]
}

func (f *ClearanceField) hid(i, j int) int {
	return (j*f.nx + i) * 2
}

func (f *ClearanceField) vid(i, j int) int {
	return (j*f.nx+i)*2 + 1
}

// NewClearanceField samples the polygon's clearance. A polygon without
// area gives an empty field which erodes to nothing.
func NewClearanceField(polygon orb.Polygon) *ClearanceField {
	polygon = Normalize(polygon)
	area := Area(polygon)
	if IsDegenerate(polygon) || area <= 0 {
		return &ClearanceField{}
	}

	perimeter := 0.0
	for _, ring := range polygon {
		perimeter += planar.Length(ring)
	}
	meanWidth := 2 * area / perimeter
	return sampleClearance(NewShape(polygon), PolygonEnvelope(polygon), meanWidth/clearanceGridResolution)
}

func sampleClearance(shape *Shape, bound orb.Bound, step float64) *ClearanceField {
	w := bound.Max[0] - bound.Min[0]
	h := bound.Max[1] - bound.Min[1]
	if minStep := math.Sqrt(w * h / clearanceGridMaxSamples); step < minStep {
		step = minStep
	}

	f := &ClearanceField{
		shape:  shape,
		origin: orb.Point{bound.Min[0] - step, bound.Min[1] - step},
		step:   step,
		nx:     int(math.Ceil(w/step)) + 3,
		ny:     int(math.Ceil(h/step)) + 3,
	}
	f.values = make([]float64, f.nx*f.ny)

	for j := 0; j < f.ny; j++ {
		for i := 0; i < f.nx; i++ {
			p := orb.Point{f.origin[0] + float64(i)*step, f.origin[1] + float64(j)*step}
			f.values[j*f.nx+i] = shape.Clearance(p)
		}
	}

	return f
}

// Refine resamples, at a quarter of the step, the neighbourhood of every
// sample close enough to distance that clearance above distance may lie
// between samples. It reports false when no sample is that close.
//
// Clearance is 1-Lipschitz, so points a full step outside the resampled
// window stay at or below distance and the refined contours are closed.
func (f *ClearanceField) Refine(distance float64) (*ClearanceField, bool) {
	if len(f.values) == 0 {
		return nil, false
	}

	reach := distance - f.step*math.Sqrt2/2
	var bound orb.Bound
	found := false
	for j := 0; j < f.ny; j++ {
		for i := 0; i < f.nx; i++ {
			if f.value(i, j) <= reach {
				continue
			}
			p := orb.Point{f.origin[0] + float64(i)*f.step, f.origin[1] + float64(j)*f.step}
			if !found {
				bound = orb.Bound{Min: p, Max: p}
				found = true
			} else {
				bound = bound.Extend(p)
			}
		}
	}
	if !found {
		return nil, false
	}

	return sampleClearance(f.shape, bound.Pad(f.step), f.step/4), true
}

type crossing struct {
	edge int
	out  bool
}

// Erode extracts the region whose clearance exceeds distance. Parts thinner
// than the grid step may vanish, see Refine. Shells are counter-clockwise
// and holes clockwise.
func (f *ClearanceField) Erode(distance float64) orb.MultiPolygon {
	if len(f.values) == 0 {
		return orb.MultiPolygon{}
	}

	inside := func(v float64) bool { return v-distance > 0 }

	points := make(map[int]orb.Point)
	point := func(edge, i, j int, vertical bool) {
		if _, ok := points[edge]; ok {
			return
		}
		va := f.value(i, j) - distance
		var vb float64
		if vertical {
			vb = f.value(i, j+1) - distance
		} else {
			vb = f.value(i+1, j) - distance
		}
		t := va / (va - vb)
		x := f.origin[0] + float64(i)*f.step
		y := f.origin[1] + float64(j)*f.step
		if vertical {
			y += t * f.step
		} else {
			x += t * f.step
		}
		points[edge] = orb.Point{x, y}
	}

	next := make(map[int]int)
	var starts []int

	for j := 0; j < f.ny-1; j++ {
		for i := 0; i < f.nx-1; i++ {
			corners := [4]float64{
				f.value(i, j),
				f.value(i+1, j),
				f.value(i+1, j+1),
				f.value(i, j+1),
			}
			edges := [4]int{
				f.hid(i, j),
				f.vid(i+1, j),
				f.hid(i, j+1),
				f.vid(i, j),
			}

			// sample each edge is measured from, in the edge's canonical direction
			anchors := [4][2]int{{i, j}, {i + 1, j}, {i, j + 1}, {i, j}}

			var crossings [4]crossing
			n := 0
			for k := 0; k < 4; k++ {
				a, b := inside(corners[k]), inside(corners[(k+1)%4])
				if a == b {
					continue
				}
				point(edges[k], anchors[k][0], anchors[k][1], k%2 == 1)
				crossings[n] = crossing{edge: edges[k], out: a}
				n++
			}
			if n == 0 {
				continue
			}

			switch n {
			case 2:
				if crossings[0].out {
					next[crossings[0].edge] = crossings[1].edge
					starts = append(starts, crossings[0].edge)
				} else {
					next[crossings[1].edge] = crossings[0].edge
					starts = append(starts, crossings[1].edge)
				}
			case 4:
				center := (corners[0]+corners[1]+corners[2]+corners[3])/4 - distance
				offset := 3
				if center > 0 {
					offset = 1
				}
				for k := 0; k < 4; k++ {
					if !crossings[k].out {
						continue
					}
					next[crossings[k].edge] = crossings[(k+offset)%4].edge
					starts = append(starts, crossings[k].edge)
				}
			}
		}
	}

	var shells, holes []orb.Ring
	visited := make(map[int]bool, len(starts))
	for _, start := range starts {
		if visited[start] {
			continue
		}

		var ring orb.Ring
		edge := start
		closed := false
		for !visited[edge] {
			visited[edge] = true
			p := points[edge]
			if len(ring) == 0 || ring[len(ring)-1] != p {
				ring = append(ring, p)
			}
			nextEdge, ok := next[edge]
			if !ok {
				break
			}
			if nextEdge == start {
				closed = true
				break
			}
			edge = nextEdge
		}
		if !closed {
			continue
		}
		if ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		if len(ring) < 4 {
			continue
		}

		switch area := ringSignedArea(ring); {
		case area > 0:
			shells = append(shells, ring)
		case area < 0:
			holes = append(holes, ring)
		}
	}

	result := make(orb.MultiPolygon, len(shells))
	shellAreas := make([]float64, len(shells))
	for idx, shell := range shells {
		result[idx] = orb.Polygon{shell}
		shellAreas[idx] = ringSignedArea(shell)
	}

	for _, hole := range holes {
		owner := -1
		for idx, shell := range shells {
			if !planar.RingContains(shell, hole[0]) {
				continue
			}
			if owner == -1 || shellAreas[idx] < shellAreas[owner] {
				owner = idx
			}
		}
		if owner >= 0 {
			result[owner] = append(result[owner], hole)
		}
	}

	return result
}

// BufferInward shrinks the polygon by distance. A distance of zero or less
// returns the polygon as is. The result is empty when nothing survives.
// Regions thinner than the sampling grid are recovered by refining the grid
// around them.
func BufferInward(polygon orb.Polygon, distance float64) (orb.MultiPolygon, error) {
	if err := Validate(polygon); err != nil {
		return nil, err
	}
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return nil, fmt.Errorf("%w: buffer distance %v", ErrInvalidGeometry, distance)
	}
	if IsEmpty(polygon) {
		return orb.MultiPolygon{}, nil
	}
	if distance <= 0 {
		return orb.MultiPolygon{polygon}, nil
	}

	field := NewClearanceField(polygon)
	parts := field.Erode(distance)
	for i := 0; len(parts) == 0 && i < clearanceRefineLimit; i++ {
		refined, ok := field.Refine(distance)
		if !ok || refined.step >= field.step {
			break
		}
		field = refined
		parts = field.Erode(distance)
	}
	return parts, nil
}
