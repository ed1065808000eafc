package kmeans

import (
	"slices"
	"sync"
)

// Cluster is a non-empty cluster of a Result.
type Cluster struct {
	Index    int
	Centroid Point
	Points   []Point
}

// Size returns the number of member points.
func (c Cluster) Size() int { return len(c.Points) }

// Representative returns the member closest to the centroid.
func (c Cluster) Representative() Point {
	var best Point
	bestDist := 0.0
	for _, p := range c.Points {
		if d := SquaredDistance(p, c.Centroid); best == nil || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// Result is the outcome of a single clustering run. It is read-only.
type Result struct {
	// K is the number of clusters that was requested.
	K int
	// Points are the clustered points, shared with the caller.
	Points []Point
	// Assignment maps every point index to its cluster index in [0, K).
	Assignment []int
	// Centroids holds one mean per cluster index, nil for empty clusters.
	Centroids []Point
	// Sizes holds the member count per cluster index.
	Sizes []int
	// Iterations is the number of full passes over the points.
	Iterations int
	// Transfers counts single point moves (Hartigan-Wong only).
	Transfers int

	clusters []Cluster

	elbowOnce      sync.Once
	elbow          float64
	silhouetteOnce sync.Once
	silhouette     float64
}

func newResult(k int, points []Point, assignment []int, states []clusterState, iterations, transfers int) *Result {
	r := &Result{
		K:          k,
		Points:     points,
		Assignment: assignment,
		Centroids:  make([]Point, k),
		Sizes:      sizesOf(states),
		Iterations: iterations,
		Transfers:  transfers,
	}
	members := make([][]Point, k)
	for i, p := range points {
		members[assignment[i]] = append(members[assignment[i]], p)
	}
	for j, s := range states {
		if !s.active || s.size == 0 {
			continue
		}
		r.Centroids[j] = s.centroid
		r.clusters = append(r.clusters, Cluster{Index: j, Centroid: s.centroid, Points: members[j]})
	}
	slices.SortStableFunc(r.clusters, func(a, b Cluster) int {
		return len(b.Points) - len(a.Points)
	})
	return r
}

// Clusters returns the non-empty clusters, largest first.
func (r *Result) Clusters() []Cluster {
	return r.clusters
}

// Len returns the number of non-empty clusters.
func (r *Result) Len() int {
	return len(r.clusters)
}

// Degenerate reports whether fewer than K clusters survived. This is an
// expected outcome, not an error.
func (r *Result) Degenerate() bool {
	return len(r.clusters) < r.K
}

// Prevalences returns, for every cluster in Clusters order, its share of
// the points.
func (r *Result) Prevalences() []float64 {
	out := make([]float64, len(r.clusters))
	for i, c := range r.clusters {
		out[i] = float64(len(c.Points)) / float64(len(r.Points))
	}
	return out
}

// Elbow returns the mean within-cluster squared distance, computed once.
func (r *Result) Elbow() float64 {
	r.elbowOnce.Do(func() { r.elbow = Elbow(r) })
	return r.elbow
}

// Silhouette returns the silhouette score, computed once.
func (r *Result) Silhouette() float64 {
	r.silhouetteOnce.Do(func() { r.silhouette = Silhouette(r) })
	return r.silhouette
}
