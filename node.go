package kdtree

// nodeKind discriminates the two node variants stored in the arena.
type nodeKind uint8

const (
	internalNode nodeKind = iota
	bucketNode
)

// noNode marks an absent arena link (the root's parent).
const noNode = -1

// node is one slot of the tree arena. Parent and child links are arena
// indices rather than pointers, so the parent back-references never form
// ownership cycles.
//
// Internal nodes use cutAxis, cutVal, loSon, and hiSon. Buckets own the
// backing sub-range [lo0, end] of the permutation array, fixed at build
// time, and the active sub-range [lo, hi] within it; lo > hi means the
// bucket holds no live points. Positions (hi, end] hold deleted ids.
type node struct {
	kind    nodeKind
	deleted bool
	parent  int
	box     Box

	cutAxis Axis
	cutVal  float64
	loSon   int
	hiSon   int

	lo0 int
	lo  int
	hi  int
	end int
}

// isEmpty reports whether a bucket's active range holds no live points.
func (nd *node) isEmpty() bool { return nd.lo > nd.hi }
