package kmeans

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Point is a fixed-dimension vector, one sampled colour.
type Point []float64

// Clone returns a copy of p that shares no storage with it.
func (p Point) Clone() Point {
	c := make(Point, len(p))
	copy(c, p)
	return c
}

// SquaredDistance returns the squared Euclidean distance between a and b.
func SquaredDistance(a, b Point) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// CentroidOf returns the mean of points.
func CentroidOf(points []Point) (Point, error) {
	if len(points) == 0 {
		return nil, ErrEmptySet
	}
	c := make(Point, len(points[0]))
	for _, p := range points {
		floats.Add(c, p)
	}
	floats.Scale(1/float64(len(points)), c)
	return c, nil
}

// AddPointToCentroid updates centroid in place to include point, given the
// cluster size before the addition.
func AddPointToCentroid(centroid, point Point, previousSize int) {
	n := float64(previousSize)
	floats.Scale(n, centroid)
	floats.Add(centroid, point)
	floats.Scale(1/(n+1), centroid)
}

// RemovePointFromCentroid updates centroid in place to exclude point, given
// the cluster size before the removal. Removing the last member is an error:
// the caller must mark the cluster empty instead.
func RemovePointFromCentroid(centroid, point Point, previousSize int) error {
	if previousSize <= 1 {
		return fmt.Errorf("remove from cluster of size %d: %w", previousSize, ErrEmptySet)
	}
	n := float64(previousSize)
	floats.Scale(n, centroid)
	floats.Sub(centroid, point)
	floats.Scale(1/(n-1), centroid)
	return nil
}

// nearest returns the index of the active cluster closest to p. Ties go to
// the lowest index. It returns -1 when no cluster is active.
func nearest(p Point, states []clusterState) (int, float64) {
	best, bestDist := -1, 0.0
	for j := range states {
		if !states[j].active {
			continue
		}
		d := SquaredDistance(p, states[j].centroid)
		if best == -1 || d < bestDist {
			best, bestDist = j, d
		}
	}
	return best, bestDist
}

// validate checks the arguments shared by every algorithm and initializer.
func validate(k int, points []Point) error {
	if k < 1 {
		return fmt.Errorf("k must be at least 1, got %d: %w", k, ErrInvalidArgument)
	}
	if len(points) == 0 {
		return fmt.Errorf("no points to cluster: %w", ErrInvalidArgument)
	}
	if k > len(points) {
		return fmt.Errorf("k (%d) exceeds point count (%d): %w", k, len(points), ErrInvalidArgument)
	}
	dim := len(points[0])
	if dim == 0 {
		return fmt.Errorf("points have zero dimensions: %w", ErrInvalidArgument)
	}
	for i, p := range points {
		if len(p) != dim {
			return fmt.Errorf("point %d has %d dimensions, want %d: %w", i, len(p), dim, ErrInvalidArgument)
		}
	}
	return nil
}
