package kdtree

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Axis selects one of the two coordinate axes.
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
)

// PointSource supplies the fixed point set a Tree indexes. Point ids are
// stable integers in [0, Size()).
//
// Implementations must stay stable for the lifetime of any Tree built over
// them: coordinate mutation after construction invalidates the tree's
// bounding boxes. Distance must be non-negative, symmetric, and zero iff
// the ids are equal, and must carry the pruning guarantees described on
// [Metric]; the bundled sources enforce this by rejecting metrics outside
// the Minkowski family.
type PointSource interface {
	// Size returns the number of points.
	Size() int

	// X and Y return the coordinates of a point.
	X(id int) float64
	Y(id int) float64

	// Coord returns one coordinate of a point, selected by axis.
	Coord(id int, axis Axis) float64

	// Distance returns the distance between two points.
	Distance(i, j int) float64

	// Bounds returns a bounding box covering every point.
	Bounds() (minX, minY, maxX, maxY float64)
}

// FlatSource is a PointSource over flat row-major coordinate data:
// [x0, y0, x1, y1, ...]. The data is copied at construction.
type FlatSource struct {
	data   []float64
	n      int
	metric Metric
	box    Box
}

// NewFlatSource creates a FlatSource from flat row-major coordinates.
// A nil metric defaults to EuclideanMetric.
func NewFlatSource(data []float64, metric Metric) (*FlatSource, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("kdtree: flat point data length %d is not a multiple of 2", len(data))
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}
	if !prunable(metric) {
		return nil, fmt.Errorf("kdtree: metric %T is not supported by kd-tree pruning", metric)
	}

	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)

	s := &FlatSource{
		data:   dataCopy,
		n:      len(data) / 2,
		metric: metric,
	}
	s.box = pointBounds(s.n, s.X, s.Y)
	return s, nil
}

func (s *FlatSource) Size() int        { return s.n }
func (s *FlatSource) X(id int) float64 { return s.data[2*id] }
func (s *FlatSource) Y(id int) float64 { return s.data[2*id+1] }

func (s *FlatSource) Coord(id int, axis Axis) float64 { return s.data[2*id+int(axis)] }

func (s *FlatSource) Distance(i, j int) float64 {
	return s.metric.Distance(s.data[2*i], s.data[2*i+1], s.data[2*j], s.data[2*j+1])
}

func (s *FlatSource) Bounds() (minX, minY, maxX, maxY float64) {
	return s.box.MinX, s.box.MinY, s.box.MaxX, s.box.MaxY
}

// VecSource is a PointSource over a slice of gonum r2 vectors. The slice is
// not copied; callers must not mutate it while a Tree uses the source.
type VecSource struct {
	pts    []r2.Vec
	metric Metric
	box    Box
}

// NewVecSource creates a VecSource over pts. A nil metric defaults to
// EuclideanMetric.
func NewVecSource(pts []r2.Vec, metric Metric) (*VecSource, error) {
	if metric == nil {
		metric = EuclideanMetric{}
	}
	if !prunable(metric) {
		return nil, fmt.Errorf("kdtree: metric %T is not supported by kd-tree pruning", metric)
	}

	s := &VecSource{pts: pts, metric: metric}
	s.box = pointBounds(len(pts), s.X, s.Y)
	return s, nil
}

func (s *VecSource) Size() int        { return len(s.pts) }
func (s *VecSource) X(id int) float64 { return s.pts[id].X }
func (s *VecSource) Y(id int) float64 { return s.pts[id].Y }

func (s *VecSource) Coord(id int, axis Axis) float64 {
	if axis == AxisX {
		return s.pts[id].X
	}
	return s.pts[id].Y
}

func (s *VecSource) Distance(i, j int) float64 {
	return s.metric.Distance(s.pts[i].X, s.pts[i].Y, s.pts[j].X, s.pts[j].Y)
}

func (s *VecSource) Bounds() (minX, minY, maxX, maxY float64) {
	return s.box.MinX, s.box.MinY, s.box.MaxX, s.box.MaxY
}

// pointBounds computes the bounding box of n points given coordinate
// accessors. Empty input yields an inverted (infinite) box.
func pointBounds(n int, x, y func(int) float64) Box {
	b := Box{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for i := 0; i < n; i++ {
		b.MinX = math.Min(b.MinX, x(i))
		b.MaxX = math.Max(b.MaxX, x(i))
		b.MinY = math.Min(b.MinY, y(i))
		b.MaxY = math.Max(b.MaxY, y(i))
	}
	return b
}
