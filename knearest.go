package kdtree

import (
	"container/heap"
	"fmt"
	"math"
)

// KNearest returns up to k live points closest to id, excluding id itself,
// ordered by ascending distance. Fewer than k results are returned when
// fewer than k other live points exist.
//
// The query runs as an unbounded radius search that keeps the k best
// candidates in a max-heap and shrinks the search radius to the k-th best
// distance as soon as the heap fills, so the traversal prunes like a
// nearest-neighbor search after the first k hits.
func (t *Tree) KNearest(id, k int) (ids []int, dists []float64, err error) {
	if err := t.checkID(id); err != nil {
		return nil, nil, err
	}
	if k < 1 {
		return nil, nil, fmt.Errorf("kdtree: k must be >= 1, got %d", k)
	}

	h := &neighborHeap{}
	heap.Init(h)

	err = t.WithinRadius(id, math.Inf(1), func(q *RadiusQuery, found int, dist float64) {
		if found == id {
			return
		}
		if h.Len() < k {
			heap.Push(h, neighborItem{id: found, dist: dist})
		} else if dist < (*h)[0].dist {
			(*h)[0] = neighborItem{id: found, dist: dist}
			heap.Fix(h, 0)
		}
		if h.Len() == k {
			// The heap top only ever decreases, so this cannot fail.
			_ = q.ShrinkRadius((*h)[0].dist)
		}
	})
	if err != nil {
		return nil, nil, err
	}

	// Pop into ascending distance order.
	m := h.Len()
	ids = make([]int, m)
	dists = make([]float64, m)
	for i := m - 1; i >= 0; i-- {
		item := heap.Pop(h).(neighborItem)
		ids[i] = item.id
		dists[i] = item.dist
	}
	return ids, dists, nil
}

type neighborItem struct {
	id   int
	dist float64
}

// neighborHeap is a max-heap of neighborItem (largest distance on top)
// used as a bounded priority queue for KNearest.
type neighborHeap []neighborItem

func (h neighborHeap) Len() int           { return len(h) }
func (h neighborHeap) Less(i, j int) bool { return h[i].dist > h[j].dist } // max-heap
func (h neighborHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x any)        { *h = append(*h, x.(neighborItem)) }
func (h *neighborHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
