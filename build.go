package kdtree

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// DefaultBucketSize is the bucket capacity used by New. Buckets this small
// keep deletion scans cheap while still amortizing per-node overhead.
const DefaultBucketSize = 5

// Tree is a semidynamic kd-tree over a fixed 2-D point set. The tree shape
// is fixed at construction; Delete and Undelete only toggle liveness
// bookkeeping. Build once with New, then query and soft-delete freely.
//
// A Tree is not safe for concurrent mutation. Queries are read-only and
// may run concurrently with each other, but not with Delete, Undelete, or
// UndeleteAll.
type Tree struct {
	src        PointSource
	bucketSize int
	n          int

	perm     []int  // tree position -> point id
	nodes    []node // arena; the root is nodes[root]
	root     int
	bucketOf []int // point id -> arena index of its owning bucket

	deleted *roaring.Bitmap // ids currently soft-deleted
	live    int
}

// New builds a tree over src with DefaultBucketSize.
func New(src PointSource) (*Tree, error) {
	return NewWithBucketSize(src, DefaultBucketSize)
}

// NewWithBucketSize builds a tree over src with the given bucket capacity.
// The source must contain at least one point and bucketSize must be >= 1.
//
// Build cost is O(n log n) expected: each level places its median with a
// quickselect rather than a full sort. Adversarial orderings can degrade a
// level to quadratic, a known quickselect characteristic.
func NewWithBucketSize(src PointSource, bucketSize int) (*Tree, error) {
	if src == nil {
		return nil, errors.New("kdtree: nil point source")
	}
	n := src.Size()
	if n < 1 {
		return nil, fmt.Errorf("kdtree: point source must hold at least one point, got %d", n)
	}
	if bucketSize < 1 {
		return nil, fmt.Errorf("kdtree: bucket size must be >= 1, got %d", bucketSize)
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	minX, minY, maxX, maxY := src.Bounds()

	t := &Tree{
		src:        src,
		bucketSize: bucketSize,
		n:          n,
		perm:       perm,
		nodes:      make([]node, 0, maxNodes(n, bucketSize)),
		bucketOf:   make([]int, n),
		deleted:    roaring.New(),
		live:       n,
	}
	t.root = t.buildRange(0, n-1, Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, noNode)
	return t, nil
}

// maxNodes returns an upper bound on the arena size for n points. A split
// range of size s produces children of size ceil(s/2) and floor(s/2), so
// no bucket ever holds fewer than ceil((bucketSize+1)/2) points.
func maxNodes(n, bucketSize int) int {
	minBucket := (bucketSize + 1) / 2
	leaves := (n + minBucket - 1) / minBucket
	return 2*leaves + 1
}

// buildRange builds the subtree over perm[lo..hi] (inclusive) bounded by
// box, and returns its arena index. The node is appended to the arena
// before its children are built, so children always see a valid parent
// index at creation time.
func (t *Tree) buildRange(lo, hi int, box Box, parent int) int {
	idx := len(t.nodes)

	if hi-lo+1 <= t.bucketSize {
		t.nodes = append(t.nodes, node{
			kind:   bucketNode,
			parent: parent,
			box:    box,
			loSon:  noNode,
			hiSon:  noNode,
			lo0:    lo,
			lo:     lo,
			hi:     hi,
			end:    hi,
		})
		for i := lo; i <= hi; i++ {
			t.bucketOf[t.perm[i]] = idx
		}
		return idx
	}

	// Split on the axis with the larger box extent; for skewed
	// distributions this keeps the tree balanced where always cycling
	// axes would not.
	axis := box.widestAxis()
	m := (lo + hi) / 2
	t.selectMedian(lo, hi, m, axis)
	cut := t.src.Coord(t.perm[m], axis)

	t.nodes = append(t.nodes, node{
		kind:    internalNode,
		parent:  parent,
		box:     box,
		cutAxis: axis,
		cutVal:  cut,
		loSon:   noNode,
		hiSon:   noNode,
	})

	loSon := t.buildRange(lo, m, box.splitLo(axis, cut), idx)
	hiSon := t.buildRange(m+1, hi, box.splitHi(axis, cut), idx)
	t.nodes[idx].loSon = loSon
	t.nodes[idx].hiSon = hiSon
	return idx
}

// selectMedian partially orders perm[lo..hi] on the axis coordinate so
// that position m holds a median: every position < m has coordinate <= the
// value at m, every position > m has coordinate >= it. Quickselect: keep
// partitioning, narrowing to whichever side still contains m, until the
// pivot lands exactly on m.
func (t *Tree) selectMedian(lo, hi, m int, axis Axis) {
	for lo < hi {
		p := t.partition(lo, hi, m, axis)
		switch {
		case p == m:
			return
		case p < m:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

// partition runs a single-pass Lomuto partition of perm[lo..hi] keyed on
// the axis coordinate, pivoting on the element currently at pivot. It
// returns the pivot's final position p, with every position in [lo, p)
// holding a coordinate <= the pivot value and every position in (p, hi]
// holding a coordinate >= it. Ties may land on either side.
func (t *Tree) partition(lo, hi, pivot int, axis Axis) int {
	t.perm[pivot], t.perm[hi] = t.perm[hi], t.perm[pivot]
	pv := t.src.Coord(t.perm[hi], axis)

	p := lo
	for i := lo; i < hi; i++ {
		if t.src.Coord(t.perm[i], axis) < pv {
			t.perm[i], t.perm[p] = t.perm[p], t.perm[i]
			p++
		}
	}
	t.perm[p], t.perm[hi] = t.perm[hi], t.perm[p]
	return p
}

// NumPoints returns the total number of points in the tree, live or deleted.
func (t *Tree) NumPoints() int { return t.n }

// Size returns the number of currently live points.
func (t *Tree) Size() int { return t.live }

// BucketSize returns the bucket capacity the tree was built with.
func (t *Tree) BucketSize() int { return t.bucketSize }

// Bounds returns the bounding box covering every point, live or deleted.
func (t *Tree) Bounds() (minX, minY, maxX, maxY float64) {
	b := t.nodes[t.root].box
	return b.MinX, b.MinY, b.MaxX, b.MaxY
}

// checkID validates a caller-supplied point id.
func (t *Tree) checkID(id int) error {
	if id < 0 || id >= t.n {
		return fmt.Errorf("kdtree: point id %d out of range [0, %d)", id, t.n)
	}
	return nil
}
