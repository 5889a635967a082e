package kdtree

import "math"

// Metric computes the distance between two points in the plane.
//
// Tree pruning additionally requires two geometric properties of the
// metric: the coordinate gap to an axis-aligned line never exceeds the
// metric distance, and the metric ball of radius r is contained in the
// axis-aligned square of half-width r. Every Minkowski metric (p >= 1,
// including the Chebyshev limit) satisfies both; the bundled point sources
// reject metrics outside that family.
type Metric interface {
	Distance(ax, ay, bx, by float64) float64
}

// DistanceFunc adapts a plain function into a Metric. Sources built with a
// DistanceFunc cannot be indexed by a Tree, because an arbitrary function
// gives no pruning guarantees.
type DistanceFunc func(ax, ay, bx, by float64) float64

func (f DistanceFunc) Distance(ax, ay, bx, by float64) float64 { return f(ax, ay, bx, by) }

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(ax-bx, ay-by)
}

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(ax, ay, bx, by float64) float64 {
	return math.Abs(ax-bx) + math.Abs(ay-by)
}

// ChebyshevMetric computes the Chebyshev (L-infinity) distance.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(ax, ay, bx, by float64) float64 {
	return math.Max(math.Abs(ax-bx), math.Abs(ay-by))
}

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P must be >= 1. Panics if P < 1.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(ax, ay, bx, by float64) float64 {
	if m.P < 1 {
		panic("MinkowskiMetric: P must be >= 1")
	}
	return math.Pow(math.Pow(math.Abs(ax-bx), m.P)+math.Pow(math.Abs(ay-by), m.P), 1.0/m.P)
}

// prunable reports whether the metric carries the pruning guarantees the
// tree relies on (see Metric).
func prunable(m Metric) bool {
	switch m.(type) {
	case EuclideanMetric, ManhattanMetric, ChebyshevMetric, MinkowskiMetric:
		return true
	default:
		return false
	}
}
