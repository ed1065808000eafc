package kmeans

import (
	"fmt"
	"time"
)

// HartiganWong improves a starting partition by moving single points
// between clusters whenever the move lowers the within-cluster cost. It is
// the slowest of the three algorithms and the most precise.
//
// With a nil Init the starting partition comes from RandomPartition.
// Otherwise every point starts in the cluster of its nearest seed.
type HartiganWong struct {
	Init Initializer
}

func (HartiganWong) algorithm() {}

func (a HartiganWong) String() string { return "hartigan-wong" }

func (a HartiganWong) run(k int, points []Point, rng Rand, o options) (*Result, error) {
	assignment, err := a.partition(k, points, rng)
	if err != nil {
		return nil, err
	}

	log := o.logger.With("algorithm", a.String())
	log.Debug("running", "points", len(points), "k", k)
	start := time.Now()

	states := batchStates(k, points, assignment)
	n := len(points)
	// clean counts consecutive evaluations without a transfer. The scan
	// stops once every point has been looked at since the last move.
	clean := 0
	transfers := 0
	pass := 0
	for i := 0; clean < n; i = (i + 1) % n {
		if i == 0 {
			pass++
		}
		source := assignment[i]
		p := points[i]
		target, best := -1, 0.0
		for j := range states {
			if j == source || !states[j].active {
				continue
			}
			gain := Improvement(p, states[source].centroid, states[source].size, states[j].centroid, states[j].size)
			if gain > best {
				target, best = j, gain
			}
		}
		if target == -1 {
			clean++
		} else {
			states[source].remove(p)
			states[target].add(p)
			assignment[i] = target
			transfers++
			clean = 0
		}

		if i == n-1 || clean == n {
			o.observe(pass, assignment, states)
			if clean < n && o.capped(pass) {
				log.Warn("iteration cap reached before convergence", "passes", pass)
				break
			}
		}
	}

	log.Debug("finished", "iterations", pass, "transfers", transfers, "duration", time.Since(start))
	return newResult(k, points, assignment, states, pass, transfers), nil
}

func (a HartiganWong) partition(k int, points []Point, rng Rand) ([]int, error) {
	if a.Init == nil {
		return RandomPartition(k, points, rng)
	}
	seeds, err := a.Init.Select(k, points, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to select initial centers: %w", err)
	}
	states := make([]clusterState, k)
	for j, idx := range seeds {
		states[j] = seededState(points[idx])
	}
	assignment := make([]int, len(points))
	for i, p := range points {
		assignment[i], _ = nearest(p, states)
	}
	return assignment, nil
}

// RandomPartition labels points uniformly at random after first giving
// every cluster one distinct random member, so no cluster starts empty.
// With k equal to the number of points every cluster is a singleton.
func RandomPartition(k int, points []Point, rng Rand) ([]int, error) {
	if err := validate(k, points); err != nil {
		return nil, err
	}
	perm := rng.Perm(len(points))
	assignment := make([]int, len(points))
	for rank, idx := range perm {
		if rank < k {
			assignment[idx] = rank
		} else {
			assignment[idx] = rng.IntN(k)
		}
	}
	return assignment, nil
}

// Improvement is the reduction in cost from moving point out of a cluster
// with the given centroid and size into another one. Only strictly positive
// values lead to a transfer.
func Improvement(point, sourceCentroid Point, sourceSize int, targetCentroid Point, targetSize int) float64 {
	ns, nt := float64(sourceSize), float64(targetSize)
	return ns*SquaredDistance(sourceCentroid, point)/(ns+1) -
		nt*SquaredDistance(targetCentroid, point)/(nt+1)
}
