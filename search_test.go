package kdtree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteNearest is the oracle for NearestNeighbor: a linear scan over the
// live set, excluding the query point.
func bruteNearest(tree *Tree, id int) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for other := 0; other < tree.NumPoints(); other++ {
		if other == id || tree.Deleted(other) {
			continue
		}
		if d := tree.src.Distance(id, other); d < bestDist {
			best, bestDist = other, d
		}
	}
	return best, bestDist
}

// bruteWithin is the oracle for WithinRadius: ids of all live points
// (query point included) within radius, as a set.
func bruteWithin(tree *Tree, id int, radius float64) map[int]float64 {
	want := make(map[int]float64)
	for other := 0; other < tree.NumPoints(); other++ {
		if tree.Deleted(other) {
			continue
		}
		if d := tree.src.Distance(id, other); d <= radius {
			want[other] = d
		}
	}
	return want
}

func TestNearestNeighbor_BruteForceMatch(t *testing.T) {
	for _, metric := range []Metric{
		EuclideanMetric{},
		ManhattanMetric{},
		ChebyshevMetric{},
		MinkowskiMetric{P: 3},
	} {
		const n = 150
		rng := rand.New(rand.NewSource(21))
		data := make([]float64, 2*n)
		for i := range data {
			data[i] = rng.Float64() * 50
		}
		src, err := NewFlatSource(data, metric)
		if err != nil {
			t.Fatalf("%T: NewFlatSource: %v", metric, err)
		}
		tree, err := NewWithBucketSize(src, 4)
		if err != nil {
			t.Fatalf("%T: NewWithBucketSize: %v", metric, err)
		}

		// Check against the oracle with no deletions, then with a third
		// of the points deleted.
		for round := 0; round < 2; round++ {
			for id := 0; id < n; id++ {
				wantID, wantDist := bruteNearest(tree, id)
				nb, d, err := tree.NearestNeighbor(id)
				if err != nil {
					t.Fatalf("%T: NearestNeighbor(%d): %v", metric, id, err)
				}
				if d != wantDist {
					t.Errorf("%T round %d: NearestNeighbor(%d) dist = %v, brute force = %v (got id %d, want %d)",
						metric, round, id, d, wantDist, nb, wantID)
				}
				nb, d, err = tree.NearestNeighborTopDown(id)
				if err != nil {
					t.Fatalf("%T: NearestNeighborTopDown(%d): %v", metric, id, err)
				}
				if d != wantDist {
					t.Errorf("%T round %d: top-down dist for %d = %v, brute force = %v (got id %d)",
						metric, round, id, d, wantDist, nb)
				}
			}
			for _, id := range rng.Perm(n)[:n/3] {
				if !tree.Deleted(id) {
					if err := tree.Delete(id); err != nil {
						t.Fatalf("Delete(%d): %v", id, err)
					}
				}
			}
		}
	}
}

func TestNearestNeighbor_ScenarioGrid(t *testing.T) {
	src, err := NewFlatSource([]float64{0, 0, 1, 0, 2, 0, 0, 1, 1, 1, 2, 1}, nil)
	require.NoError(t, err)
	tree, err := NewWithBucketSize(src, 3)
	require.NoError(t, err)

	nb, d, err := tree.NearestNeighbor(1) // point (1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d)
	assert.Contains(t, []int{0, 2, 4}, nb, "neighbor must be one of (0,0), (2,0), (1,1)")
}

func TestNearestNeighbor_DeletedTarget(t *testing.T) {
	src := randomFlatSource(t, 40, 22)
	tree, err := NewWithBucketSize(src, 3)
	require.NoError(t, err)

	require.NoError(t, tree.Delete(7))
	wantID, wantDist := bruteNearest(tree, 7)
	nb, d, err := tree.NearestNeighbor(7)
	require.NoError(t, err)
	assert.Equal(t, wantDist, d)
	assert.Equal(t, wantID, nb)
}

func TestNearestNeighbor_NoLiveNeighbor(t *testing.T) {
	src := randomFlatSource(t, 6, 23)
	tree, err := NewWithBucketSize(src, 2)
	require.NoError(t, err)

	for id := 1; id < 6; id++ {
		require.NoError(t, tree.Delete(id))
	}
	nb, d, err := tree.NearestNeighbor(0)
	require.NoError(t, err)
	assert.Equal(t, -1, nb)
	assert.True(t, math.IsInf(d, 1))
}

func TestWithinRadius_CompletenessAndExactlyOnce(t *testing.T) {
	const n = 120
	src := randomFlatSource(t, n, 24)
	tree, err := NewWithBucketSize(src, 4)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(24))
	for _, id := range rng.Perm(n)[:n/4] {
		require.NoError(t, tree.Delete(id))
	}

	for _, radius := range []float64{0, 1, 10, 45, math.Inf(1)} {
		for id := 0; id < n; id += 7 {
			want := bruteWithin(tree, id, radius)
			got := make(map[int]int)
			err := tree.WithinRadius(id, radius, func(q *RadiusQuery, found int, dist float64) {
				got[found]++
				if wantDist, ok := want[found]; !ok {
					t.Errorf("radius %v query %d: unexpected delivery of %d at %v", radius, id, found, dist)
				} else if dist != wantDist {
					t.Errorf("radius %v query %d: distance for %d = %v, want %v", radius, id, found, dist, wantDist)
				}
			})
			require.NoError(t, err)
			for found, count := range got {
				if count != 1 {
					t.Errorf("radius %v query %d: point %d delivered %d times", radius, id, found, count)
				}
			}
			if len(got) != len(want) {
				t.Errorf("radius %v query %d: delivered %d points, want %d", radius, id, len(got), len(want))
			}
		}
	}
}

func TestWithinRadius_IncludesSelf(t *testing.T) {
	src := randomFlatSource(t, 30, 25)
	tree, err := New(src)
	require.NoError(t, err)

	self := false
	err = tree.WithinRadius(9, 0.5, func(q *RadiusQuery, id int, dist float64) {
		if id == 9 {
			self = true
			assert.Equal(t, 0.0, dist)
		}
	})
	require.NoError(t, err)
	assert.True(t, self, "query point must be delivered to its own radius query")
}

func TestWithinRadius_ScenarioDeleteUndelete(t *testing.T) {
	// Points (0,0),(1,0),(2,0),(0,1),(1,1),(2,1). Delete (1,0): a radius
	// query around (0,0) must skip it until it is restored.
	src, err := NewFlatSource([]float64{0, 0, 1, 0, 2, 0, 0, 1, 1, 1, 2, 1}, nil)
	require.NoError(t, err)
	tree, err := NewWithBucketSize(src, 3)
	require.NoError(t, err)

	collect := func() []int {
		var ids []int
		err := tree.WithinRadius(0, 1.5, func(q *RadiusQuery, id int, dist float64) {
			ids = append(ids, id)
		})
		require.NoError(t, err)
		return ids
	}

	require.NoError(t, tree.Delete(1))
	assert.NotContains(t, collect(), 1)

	require.NoError(t, tree.Undelete(1))
	assert.Contains(t, collect(), 1)
}

func TestShrinkRadius_Guard(t *testing.T) {
	src := randomFlatSource(t, 50, 26)
	tree, err := New(src)
	require.NoError(t, err)

	calls := 0
	err = tree.WithinRadius(0, 10, func(q *RadiusQuery, id int, dist float64) {
		calls++
		growErr := q.ShrinkRadius(11)
		assert.ErrorIs(t, growErr, ErrRadiusExceedsAllowed)
		assert.Equal(t, 10.0, q.Radius(), "failed shrink must leave the radius unchanged")
	})
	require.NoError(t, err)
	require.Positive(t, calls)
}

func TestShrinkRadius_NarrowsTraversal(t *testing.T) {
	const n = 100
	src := randomFlatSource(t, n, 27)
	tree, err := NewWithBucketSize(src, 4)
	require.NoError(t, err)

	// After the first delivery, shrink to zero: every later delivery must
	// be at distance zero (i.e. the query point or an exact duplicate).
	first := true
	err = tree.WithinRadius(3, math.Inf(1), func(q *RadiusQuery, id int, dist float64) {
		if first {
			first = false
			require.NoError(t, q.ShrinkRadius(0))
			return
		}
		assert.Equal(t, 0.0, dist, "delivery of %d after shrinking to 0", id)
	})
	require.NoError(t, err)

	// Shrinking to the same value is allowed.
	err = tree.WithinRadius(3, 5, func(q *RadiusQuery, id int, dist float64) {
		assert.NoError(t, q.ShrinkRadius(q.Radius()))
	})
	require.NoError(t, err)
}

func TestWithinRadius_Validation(t *testing.T) {
	src := randomFlatSource(t, 10, 28)
	tree, err := New(src)
	require.NoError(t, err)

	noop := func(q *RadiusQuery, id int, dist float64) {}
	assert.Error(t, tree.WithinRadius(-1, 1, noop))
	assert.Error(t, tree.WithinRadius(10, 1, noop))
	assert.Error(t, tree.WithinRadius(0, -1, noop))
	assert.Error(t, tree.WithinRadius(0, math.NaN(), noop))
	assert.Error(t, tree.WithinRadius(0, 1, nil))

	_, _, err = tree.NearestNeighbor(-1)
	assert.Error(t, err)
	_, _, err = tree.NearestNeighborTopDown(99)
	assert.Error(t, err)
}

func TestSearch_DuplicateCoordinates(t *testing.T) {
	// Many points sharing coordinates exercise ties on the splitting
	// plane: every duplicate must still be reachable exactly once.
	data := []float64{
		1, 1, 1, 1, 1, 1,
		2, 2, 2, 2,
		1, 2, 2, 1,
	}
	src, err := NewFlatSource(data, nil)
	require.NoError(t, err)
	tree, err := NewWithBucketSize(src, 2)
	require.NoError(t, err)
	checkTreeInvariants(t, tree)

	for id := 0; id < tree.NumPoints(); id++ {
		want := bruteWithin(tree, id, 0)
		got := map[int]bool{}
		err := tree.WithinRadius(id, 0, func(q *RadiusQuery, found int, dist float64) {
			require.False(t, got[found], "duplicate delivery of %d", found)
			got[found] = true
		})
		require.NoError(t, err)
		assert.Len(t, got, len(want))

		_, d, err := tree.NearestNeighbor(id)
		require.NoError(t, err)
		_, wantDist := bruteNearest(tree, id)
		assert.Equal(t, wantDist, d)
	}
}
