package labels

import (
	"container/heap"

	"github.com/umitools/cellseg/internal/grid"
	"github.com/umitools/cellseg/internal/morph"
)

// Watershed assigns individual instances by flooding the Gaussian-blurred
// intensity surface from the supplied markers, restricted to the mask. The
// blur kernel size is k. Brighter pixels are claimed first, so basins form
// around intensity maxima.
//
// Markers must be an integer label grid; use WatershedFromSeeds for a
// boolean seed mask. Marker pixels outside the mask are dropped. An
// all-false mask yields an all-zero label grid.
func Watershed(x *grid.Float64, mask *grid.Bool, markers *grid.Int, k int) *grid.Int {
	blur := morph.GaussianBlur(x, k)

	out := grid.NewInt(x.W, x.H)
	pq := &floodQueue{}
	heap.Init(pq)
	age := 0

	for i, label := range markers.Data {
		if label > 0 && mask.Data[i] {
			out.Data[i] = label
			// Flood on the negated blur: brightest pixels first.
			heap.Push(pq, floodItem{value: -blur.Data[i], age: age, idx: i})
			age++
		}
	}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(floodItem)
		cx, cy := item.idx%x.W, item.idx/x.W
		label := out.Data[item.idx]
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= x.W || ny >= x.H {
				continue
			}
			ni := ny*x.W + nx
			if !mask.Data[ni] || out.Data[ni] != 0 {
				continue
			}
			out.Data[ni] = label
			heap.Push(pq, floodItem{value: -blur.Data[ni], age: age, idx: ni})
			age++
		}
	}
	return out
}

// WatershedFromSeeds is Watershed with a boolean seed mask: connected seed
// regions are first collapsed into uniquely labeled markers.
func WatershedFromSeeds(x *grid.Float64, mask *grid.Bool, seeds *grid.Bool, k int) *grid.Int {
	markers, _ := morph.ConnectedComponents(seeds)
	return Watershed(x, mask, markers, k)
}

// floodItem is a pixel queued for flooding. Lower values flood first; ties
// resolve by insertion age, which keeps the flood deterministic.
type floodItem struct {
	value float64
	age   int
	idx   int
}

type floodQueue []floodItem

func (q floodQueue) Len() int { return len(q) }

func (q floodQueue) Less(i, j int) bool {
	if q[i].value != q[j].value {
		return q[i].value < q[j].value
	}
	return q[i].age < q[j].age
}

func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *floodQueue) Push(v any) { *q = append(*q, v.(floodItem)) }

func (q *floodQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
