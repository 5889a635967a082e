package kdtree

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// NearestNeighborBatch runs NearestNeighbor for every id across a bounded
// pool of goroutines and returns the neighbors and distances in input
// order. workers <= 0 uses runtime.NumCPU().
//
// Queries are read-only with per-call state, so running them concurrently
// is safe; the batch must still not overlap Delete, Undelete, or
// UndeleteAll on the same tree. The first invalid id aborts the batch.
func (t *Tree) NearestNeighborBatch(ids []int, workers int) (neighbors []int, dists []float64, err error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	neighbors = make([]int, len(ids))
	dists = make([]float64, len(ids))

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			nb, d, err := t.NearestNeighbor(id)
			if err != nil {
				return err
			}
			neighbors[i] = nb
			dists[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return neighbors, dists, nil
}
