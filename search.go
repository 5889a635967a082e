package kdtree

import (
	"errors"
	"fmt"
	"math"
)

// ErrRadiusExceedsAllowed is returned by RadiusQuery.ShrinkRadius when the
// requested radius is larger than the current search radius.
var ErrRadiusExceedsAllowed = errors.New("kdtree: radius exceeds current search radius")

// nnQuery carries the per-call state of a nearest-neighbor search: the
// query point, the current pruning radius, and the best candidate so far.
// allowed and the best distance shrink together, so allowed doubles as the
// result distance.
type nnQuery struct {
	target  int
	tx, ty  float64
	allowed float64
	best    int
}

func (q *nnQuery) coord(axis Axis) float64 {
	if axis == AxisX {
		return q.tx
	}
	return q.ty
}

// NearestNeighbor returns the closest live point to id, excluding id
// itself, together with its distance. The search starts in id's own
// bucket, which usually yields a near-optimal candidate immediately, then
// ascends toward the root visiting sibling subtrees only when the
// splitting plane is closer than the best distance found so far; ascent
// stops as soon as the candidate ball fits inside the current node's box.
//
// If every other point is deleted, the result is (-1, +Inf). The query
// point itself may be deleted; the search still runs against the live set.
func (t *Tree) NearestNeighbor(id int) (neighbor int, dist float64, err error) {
	if err := t.checkID(id); err != nil {
		return 0, 0, err
	}
	q := &nnQuery{
		target:  id,
		tx:      t.src.X(id),
		ty:      t.src.Y(id),
		allowed: math.Inf(1),
		best:    -1,
	}

	child := t.bucketOf[id]
	t.scanBucketNN(child, q)

	for {
		p := t.nodes[child].parent
		if p == noNode {
			break
		}
		pn := &t.nodes[p]
		other := pn.loSon
		if other == child {
			other = pn.hiSon
		}
		if math.Abs(q.coord(pn.cutAxis)-pn.cutVal) < q.allowed {
			t.searchNN(other, q)
		}
		child = p
		if pn.box.containsBall(q.tx, q.ty, q.allowed) {
			break
		}
	}
	return q.best, q.allowed, nil
}

// NearestNeighborTopDown is the root-first variant of NearestNeighbor. It
// returns the same result; the bottom-up search is usually faster because
// it seeds the pruning radius from the query point's own bucket.
func (t *Tree) NearestNeighborTopDown(id int) (neighbor int, dist float64, err error) {
	if err := t.checkID(id); err != nil {
		return 0, 0, err
	}
	q := &nnQuery{
		target:  id,
		tx:      t.src.X(id),
		ty:      t.src.Y(id),
		allowed: math.Inf(1),
		best:    -1,
	}
	t.searchNN(t.root, q)
	return q.best, q.allowed, nil
}

// searchNN is the shared pruning traversal for nearest-neighbor queries.
// Fully deleted subtrees are skipped outright. At an internal node the
// half-space containing the target is searched first; the far side is
// searched only if the splitting plane is strictly closer than the current
// best distance.
func (t *Tree) searchNN(n int, q *nnQuery) {
	nd := &t.nodes[n]
	if nd.deleted {
		return
	}
	if nd.kind == bucketNode {
		t.scanBucketNN(n, q)
		return
	}

	diff := q.coord(nd.cutAxis) - nd.cutVal
	if diff < 0 {
		t.searchNN(nd.loSon, q)
		if -diff < q.allowed {
			t.searchNN(nd.hiSon, q)
		}
	} else {
		t.searchNN(nd.hiSon, q)
		if diff < q.allowed {
			t.searchNN(nd.loSon, q)
		}
	}
}

// scanBucketNN scans a bucket's active range, tightening the candidate on
// every strictly smaller distance.
func (t *Tree) scanBucketNN(n int, q *nnQuery) {
	nd := &t.nodes[n]
	for i := nd.lo; i <= nd.hi; i++ {
		id := t.perm[i]
		if id == q.target {
			continue
		}
		if d := t.src.Distance(q.target, id); d < q.allowed {
			q.allowed = d
			q.best = id
		}
	}
}

// RadiusQuery is the per-call state of a WithinRadius traversal, handed to
// the callback so it can narrow the remaining search radius mid-query.
type RadiusQuery struct {
	target  int
	tx, ty  float64
	allowed float64
	visit   func(q *RadiusQuery, id int, dist float64)
}

// Target returns the query point's id.
func (q *RadiusQuery) Target() int { return q.target }

// Radius returns the current search radius.
func (q *RadiusQuery) Radius() float64 { return q.allowed }

// ShrinkRadius narrows the search radius for the remainder of the
// traversal. Growing the radius is not possible once pruning has happened
// under the old one, so a radius above the current value fails with
// ErrRadiusExceedsAllowed and leaves the query untouched.
func (q *RadiusQuery) ShrinkRadius(radius float64) error {
	if radius > q.allowed {
		return fmt.Errorf("%w: %v > %v", ErrRadiusExceedsAllowed, radius, q.allowed)
	}
	q.allowed = radius
	return nil
}

func (q *RadiusQuery) coord(axis Axis) float64 {
	if axis == AxisX {
		return q.tx
	}
	return q.ty
}

// WithinRadius calls visit exactly once for every live point within radius
// of id, the point id itself included (its distance is zero). The boundary
// is inclusive. Delivery order is traversal order, not distance order.
//
// The callback runs synchronously on the caller's stack. It may call
// ShrinkRadius on the supplied query to narrow the rest of the traversal;
// it must not mutate the tree (Delete/Undelete/UndeleteAll), because the
// active ranges being iterated would shift underneath the traversal.
func (t *Tree) WithinRadius(id int, radius float64, visit func(q *RadiusQuery, id int, dist float64)) error {
	if err := t.checkID(id); err != nil {
		return err
	}
	if visit == nil {
		return errors.New("kdtree: nil WithinRadius callback")
	}
	if radius < 0 || math.IsNaN(radius) {
		return fmt.Errorf("kdtree: radius must be >= 0, got %v", radius)
	}

	q := &RadiusQuery{
		target:  id,
		tx:      t.src.X(id),
		ty:      t.src.Y(id),
		allowed: radius,
		visit:   visit,
	}

	// Same bottom-up ascent as NearestNeighbor, with inclusive
	// comparisons and no implicit shrinking.
	child := t.bucketOf[id]
	t.scanBucketRadius(child, q)

	for {
		p := t.nodes[child].parent
		if p == noNode {
			break
		}
		pn := &t.nodes[p]
		other := pn.loSon
		if other == child {
			other = pn.hiSon
		}
		if math.Abs(q.coord(pn.cutAxis)-pn.cutVal) <= q.allowed {
			t.searchRadius(other, q)
		}
		child = p
		if pn.box.containsBall(q.tx, q.ty, q.allowed) {
			break
		}
	}
	return nil
}

// searchRadius is the shared pruning traversal for radius queries: the
// inclusive counterpart of searchNN.
func (t *Tree) searchRadius(n int, q *RadiusQuery) {
	nd := &t.nodes[n]
	if nd.deleted {
		return
	}
	if nd.kind == bucketNode {
		t.scanBucketRadius(n, q)
		return
	}

	diff := q.coord(nd.cutAxis) - nd.cutVal
	if diff < 0 {
		t.searchRadius(nd.loSon, q)
		if -diff <= q.allowed {
			t.searchRadius(nd.hiSon, q)
		}
	} else {
		t.searchRadius(nd.hiSon, q)
		if diff <= q.allowed {
			t.searchRadius(nd.loSon, q)
		}
	}
}

// scanBucketRadius delivers every live bucket point within the current
// radius. The callback may shrink the radius between deliveries.
func (t *Tree) scanBucketRadius(n int, q *RadiusQuery) {
	nd := &t.nodes[n]
	for i := nd.lo; i <= nd.hi; i++ {
		id := t.perm[i]
		if d := t.src.Distance(q.target, id); d <= q.allowed {
			q.visit(q, id, d)
		}
	}
}
