package polylabel

import (
	"container/heap"
	"math"

	"github.com/paulmach/orb"

	"github.com/kartwerk/riverlabel/geo"
)

type cell struct {
	center orb.Point
	h      float64
	d      float64
	max    float64
	seq    int
}

func newCell(shape *geo.Shape, center orb.Point, h float64) *cell {
	d := shape.SignedClearance(center)
	return &cell{
		center: center,
		h:      h,
		d:      d,
		max:    d + h*math.Sqrt2,
	}
}

// cellQueue pops the cell with the largest potential first. Equal
// potentials come out in insertion order.
type cellQueue struct {
	cells []*cell
	seq   int
}

func (q *cellQueue) Len() int { return len(q.cells) }

func (q *cellQueue) Less(i, j int) bool {
	a, b := q.cells[i], q.cells[j]
	if a.max != b.max {
		return a.max > b.max
	}
	return a.seq < b.seq
}

func (q *cellQueue) Swap(i, j int) {
	q.cells[i], q.cells[j] = q.cells[j], q.cells[i]
}

func (q *cellQueue) Push(x any) {
	q.cells = append(q.cells, x.(*cell))
}

func (q *cellQueue) Pop() any {
	l := len(q.cells)
	c := q.cells[l-1]
	q.cells[l-1] = nil
	q.cells = q.cells[:l-1]
	return c
}

func (q *cellQueue) push(c *cell) {
	c.seq = q.seq
	q.seq++
	heap.Push(q, c)
}

func (q *cellQueue) pop() *cell {
	return heap.Pop(q).(*cell)
}
