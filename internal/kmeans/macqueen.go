package kmeans

import (
	"fmt"
	"time"
)

// MacQueen is the online algorithm: a centroid moves as soon as a single
// point joins or leaves its cluster, so later points in the same sweep see
// the updated means.
type MacQueen struct {
	Init Initializer
}

func (MacQueen) algorithm() {}

func (a MacQueen) String() string { return "macqueen" }

func (a MacQueen) run(k int, points []Point, rng Rand, o options) (*Result, error) {
	init := a.Init
	if init == nil {
		init = KMeansPlusPlus{}
	}
	seeds, err := init.Select(k, points, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to select initial centers: %w", err)
	}

	log := o.logger.With("algorithm", a.String(), "init", init.String())
	log.Debug("running", "points", len(points), "k", k)
	start := time.Now()

	assignment := make([]int, len(points))
	for i := range assignment {
		assignment[i] = -1
	}
	// Each seed point starts as the single member of the first cluster that
	// chose it. A repeated seed leaves its later clusters with a centroid but
	// no members yet.
	states := make([]clusterState, k)
	for j, idx := range seeds {
		states[j] = seededState(points[idx])
		if assignment[idx] == -1 {
			assignment[idx] = j
			states[j].size = 1
		}
	}

	pass := 0
	for {
		pass++
		moved := 0
		for i, p := range points {
			from := assignment[i]
			target, _ := nearest(p, states)
			if target == from {
				continue
			}
			if from != -1 {
				states[from].remove(p)
			}
			states[target].add(p)
			assignment[i] = target
			moved++
		}
		o.observe(pass, assignment, states)

		if moved == 0 {
			break
		}
		if o.capped(pass) {
			log.Warn("iteration cap reached before convergence", "passes", pass)
			break
		}
	}

	// A repeated seed that never won a point leaves a cluster without members.
	for j := range states {
		if states[j].active && states[j].size == 0 {
			states[j].clear()
		}
	}

	log.Debug("finished", "iterations", pass, "duration", time.Since(start))
	return newResult(k, points, assignment, states, pass, 0), nil
}
