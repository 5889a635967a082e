// Package kdtree implements a semidynamic kd-tree spatial index over a
// fixed set of 2-D points.
//
// The point set is fixed at construction time: points may be soft-deleted
// and later restored, but never inserted. Deletion never restructures the
// tree; it only shrinks the affected bucket's active range and maintains
// per-node liveness flags, so delete/undelete cycles stay cheap even under
// heavy churn.
//
// Basic usage:
//
//	src, _ := kdtree.NewFlatSource([]float64{0, 0, 1, 0, 2, 0, 0, 1, 1, 1, 2, 1}, nil)
//	tree, _ := kdtree.New(src)
//	neighbor, dist, _ := tree.NearestNeighbor(1)
//	// neighbor is the closest live point to point 1
//
//	_ = tree.Delete(neighbor) // soft delete; no rebuild
//	_ = tree.WithinRadius(1, 1.5, func(q *kdtree.RadiusQuery, id int, dist float64) {
//		// called once per live point within 1.5 of point 1, point 1 included
//	})
//	_ = tree.Undelete(neighbor)
//
// Point coordinates live in a caller-supplied [PointSource]; the tree stores
// only a permutation of point ids plus per-node bounding boxes.
// [NewFlatSource] and [NewVecSource] cover the common cases.
//
// # Query algorithms
//
// [Tree.NearestNeighbor] starts at the query point's own bucket and ascends
// toward the root, pruning with bounding-box certificates; for clustered
// data it inspects only a handful of buckets. [Tree.NearestNeighborTopDown]
// is the classic root-first traversal, kept mainly as a cross-check.
// [Tree.WithinRadius] reports every live point within a radius through a
// callback, which may progressively narrow the remaining search radius via
// [RadiusQuery.ShrinkRadius]; [Tree.KNearest] is built on exactly that.
//
// Read-only queries carry their state in per-call structs and may run
// concurrently with each other. Delete, Undelete, and UndeleteAll mutate
// shared state and require external mutual exclusion against everything
// else on the same tree.
package kdtree
