package kdtree

import "fmt"

// Delete soft-deletes a point. The point's id is swapped to the inactive
// tail of its bucket's backing range, so Undelete can restore it without
// any rebuild. If the bucket runs empty, ancestors whose subtrees are now
// fully deleted are flagged so searches skip them.
//
// Deleting an already-deleted point is an error.
func (t *Tree) Delete(id int) error {
	if err := t.checkID(id); err != nil {
		return err
	}
	if t.deleted.Contains(uint32(id)) {
		return fmt.Errorf("kdtree: point %d is already deleted", id)
	}

	nd := &t.nodes[t.bucketOf[id]]
	j := nd.lo
	for t.perm[j] != id {
		j++
	}
	t.perm[j], t.perm[nd.hi] = t.perm[nd.hi], t.perm[j]
	nd.hi--

	t.deleted.Add(uint32(id))
	t.live--

	if nd.isEmpty() {
		nd.deleted = true
		// Ascend while both children are deleted; the first ancestor
		// with a live sibling subtree stops the walk, and everything
		// above it is already correct.
		for p := nd.parent; p != noNode; p = t.nodes[p].parent {
			pn := &t.nodes[p]
			if !t.nodes[pn.loSon].deleted || !t.nodes[pn.hiSon].deleted {
				break
			}
			pn.deleted = true
		}
	}
	return nil
}

// Undelete restores a previously deleted point: the id is swapped from the
// bucket's inactive tail back into the active range, and the deleted flag
// is cleared on the bucket and on every ancestor up to the root. Clearing
// unconditionally is a safe over-approximation: an ancestor containing a
// live point can never be fully deleted.
//
// Undeleting a live point is an error.
func (t *Tree) Undelete(id int) error {
	if err := t.checkID(id); err != nil {
		return err
	}
	if !t.deleted.Contains(uint32(id)) {
		return fmt.Errorf("kdtree: point %d is not deleted", id)
	}

	nd := &t.nodes[t.bucketOf[id]]
	j := nd.hi + 1
	for t.perm[j] != id {
		j++
	}
	nd.hi++
	t.perm[j], t.perm[nd.hi] = t.perm[nd.hi], t.perm[j]

	t.deleted.Remove(uint32(id))
	t.live++

	nd.deleted = false
	for p := nd.parent; p != noNode; p = t.nodes[p].parent {
		t.nodes[p].deleted = false
	}
	return nil
}

// UndeleteAll restores every deleted point in one pass: each bucket's
// active range grows back to its full backing range and every deleted flag
// is cleared. Linear in the number of nodes.
func (t *Tree) UndeleteAll() {
	for i := range t.nodes {
		nd := &t.nodes[i]
		nd.deleted = false
		if nd.kind == bucketNode {
			nd.lo = nd.lo0
			nd.hi = nd.end
		}
	}
	t.deleted.Clear()
	t.live = t.n
}

// Deleted reports whether id is currently soft-deleted. Out-of-range ids
// report false.
func (t *Tree) Deleted(id int) bool {
	return id >= 0 && id < t.n && t.deleted.Contains(uint32(id))
}

// DeletedIDs returns the currently deleted ids in ascending order.
func (t *Tree) DeletedIDs() []int {
	ids := make([]int, 0, t.deleted.GetCardinality())
	it := t.deleted.Iterator()
	for it.HasNext() {
		ids = append(ids, int(it.Next()))
	}
	return ids
}
