package kmeans

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Lloyd is the batch algorithm: every pass reassigns all points and only then
// recomputes the centroids. A cluster left without members after a pass is
// dropped and receives no further points.
type Lloyd struct {
	Init Initializer
}

func (Lloyd) algorithm() {}

func (a Lloyd) String() string { return "lloyd" }

func (a Lloyd) run(k int, points []Point, rng Rand, o options) (*Result, error) {
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

	states := make([]clusterState, k)
	for j, idx := range seeds {
		states[j] = seededState(points[idx])
	}
	assignment := make([]int, len(points))
	for i := range assignment {
		assignment[i] = -1
	}
	sums := make([]Point, k)
	for j := range sums {
		sums[j] = make(Point, len(points[0]))
	}

	pass := 0
	for {
		pass++
		moved := 0
		for i, p := range points {
			target, _ := nearest(p, states)
			if target != assignment[i] {
				if from := assignment[i]; from != -1 {
					states[from].size--
				}
				assignment[i] = target
				states[target].size++
				moved++
			}
			floats.Add(sums[target], p)
		}

		for j := range states {
			s := &states[j]
			if !s.active {
				continue
			}
			if s.size == 0 {
				s.clear()
				continue
			}
			floats.ScaleTo(s.centroid, 1/float64(s.size), sums[j])
			clear(sums[j])
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

	log.Debug("finished", "iterations", pass, "duration", time.Since(start))
	return newResult(k, points, assignment, states, pass, 0), nil
}
