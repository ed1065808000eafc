package kmeans

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// Initializer selects the indices of the points used as starting centers.
type Initializer interface {
	// Select returns k indices into points.
	Select(k int, points []Point, rng Rand) ([]int, error)
	String() string
}

// Random picks k indices uniformly. Without Distinct the draws are made with
// replacement, so two clusters may start on the same point.
type Random struct {
	Distinct bool
}

// Select implements Initializer.
func (r Random) Select(k int, points []Point, rng Rand) ([]int, error) {
	if err := validate(k, points); err != nil {
		return nil, err
	}
	if r.Distinct {
		return rng.Perm(len(points))[:k], nil
	}
	indexes := make([]int, k)
	for i := range indexes {
		indexes[i] = rng.IntN(len(points))
	}
	return indexes, nil
}

func (r Random) String() string {
	if r.Distinct {
		return "random-distinct"
	}
	return "random"
}

// KMeansPlusPlus seeds by D² sampling: after a uniform first pick, each next
// center is drawn with probability proportional to the squared distance to
// the nearest center chosen so far.
type KMeansPlusPlus struct{}

// Select implements Initializer.
func (KMeansPlusPlus) Select(k int, points []Point, rng Rand) ([]int, error) {
	if err := validate(k, points); err != nil {
		return nil, err
	}
	centers := []int{rng.IntN(len(points))}
	minDist := make([]float64, len(points))
	for i := range minDist {
		minDist[i] = math.Inf(1)
	}
	return extendByDistance(centers, k, points, minDist, rng), nil
}

func (KMeansPlusPlus) String() string { return "kmeans++" }

// extendByDistance appends D²-sampled centers until there are k. minDist
// holds each point's squared distance to the nearest center among all but
// the last element of centers; it is updated in place.
func extendByDistance(centers []int, k int, points []Point, minDist []float64, rng Rand) []int {
	cumulative := make([]float64, len(points))
	updated := len(centers) - 1
	for len(centers) < k {
		for _, c := range centers[updated:] {
			for i, p := range points {
				if d := SquaredDistance(points[c], p); d < minDist[i] {
					minDist[i] = d
				}
			}
		}
		updated = len(centers)

		var sum float64
		for i, d := range minDist {
			sum += d
			cumulative[i] = sum
		}
		if sum == 0 {
			// Every point sits on a center already.
			centers = append(centers, unusedIndex(centers, len(points), rng))
			continue
		}
		r := rng.Float64() * sum
		p := sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > r })
		if p == len(cumulative) {
			// r rounded up to sum; take the last point with any weight.
			for p = len(minDist) - 1; minDist[p] == 0; p-- {
			}
		}
		centers = append(centers, p)
	}
	return centers
}

// unusedIndex picks uniformly among the indices in [0, n) that are not in
// taken. It falls back to any index when all are taken.
func unusedIndex(taken []int, n int, rng Rand) int {
	used := make([]bool, n)
	free := n
	for _, i := range taken {
		if !used[i] {
			used[i] = true
			free--
		}
	}
	if free == 0 {
		return rng.IntN(n)
	}
	r := rng.IntN(free)
	for i, u := range used {
		if u {
			continue
		}
		if r == 0 {
			return i
		}
		r--
	}
	return n - 1
}

// ScalableKMeans implements k-means|| seeding. Candidates are oversampled in
// a logarithmic number of rounds and then reduced to k by sampling without
// replacement, weighted by how many points each candidate attracts.
type ScalableKMeans struct {
	// Oversampling is the expected number of candidates added per round.
	// Zero means DefaultOversampling.
	Oversampling float64
}

// DefaultOversampling is the oversampling factor used when none is set.
const DefaultOversampling = 5

// Select implements Initializer.
func (s ScalableKMeans) Select(k int, points []Point, rng Rand) ([]int, error) {
	if err := validate(k, points); err != nil {
		return nil, err
	}
	l := s.oversampling()

	candidates := []int{rng.IntN(len(points))}
	minDist := make([]float64, len(points))
	var cost float64
	for i, p := range points {
		minDist[i] = SquaredDistance(points[candidates[0]], p)
		cost += minDist[i]
	}

	rounds := 0
	if cost > 1 {
		rounds = int(math.Ceil(math.Log(cost)))
	}
	for round := 0; round < rounds && cost > 0; round++ {
		added := len(candidates)
		for i := range points {
			if rng.Float64() < l*minDist[i]/cost {
				candidates = append(candidates, i)
			}
		}
		cost = 0
		for i, p := range points {
			for _, c := range candidates[added:] {
				if d := SquaredDistance(points[c], p); d < minDist[i] {
					minDist[i] = d
				}
			}
			cost += minDist[i]
		}
	}

	if len(candidates) < k {
		// Too few candidates survived; continue with plain D² sampling.
		return extendByDistance(candidates, k, points, minDist, rng), nil
	}
	return reduceWeighted(candidates, candidateWeights(candidates, points), k, rng), nil
}

func (s ScalableKMeans) String() string { return "scalable" }

func (s ScalableKMeans) oversampling() float64 {
	if s.Oversampling <= 0 {
		return DefaultOversampling
	}
	return s.Oversampling
}

// candidateWeights counts, for every candidate, the points for which it is
// the nearest candidate. Ties go to the earliest candidate.
func candidateWeights(candidates []int, points []Point) []float64 {
	weights := make([]float64, len(candidates))
	for _, p := range points {
		best, bestDist := 0, math.Inf(1)
		for ci, c := range candidates {
			if d := SquaredDistance(points[c], p); d < bestDist {
				best, bestDist = ci, d
			}
		}
		weights[best]++
	}
	return weights
}

// reduceWeighted draws k candidates without replacement with probability
// proportional to their weights, renormalising after every draw.
func reduceWeighted(candidates []int, weights []float64, k int, rng Rand) []int {
	candidates = slices.Clone(candidates)
	weights = slices.Clone(weights)
	selected := make([]int, 0, k)
	for len(selected) < k {
		var total float64
		for _, w := range weights {
			total += w
		}
		w := 0
		if total > 0 {
			r := rng.Float64() * total
			var cum float64
			for w = 0; w < len(weights)-1; w++ {
				cum += weights[w]
				if cum > r {
					break
				}
			}
		} else {
			w = rng.IntN(len(candidates))
		}
		selected = append(selected, candidates[w])
		candidates = slices.Delete(candidates, w, w+1)
		weights = slices.Delete(weights, w, w+1)
	}
	return selected
}

// ParseInitializer returns the initializer registered under name.
func ParseInitializer(name string) (Initializer, error) {
	switch name {
	case "random":
		return Random{}, nil
	case "random-distinct":
		return Random{Distinct: true}, nil
	case "kmeans++", "kmeanspp", "":
		return KMeansPlusPlus{}, nil
	case "scalable", "kmeans||":
		return ScalableKMeans{}, nil
	default:
		return nil, fmt.Errorf("unknown initializer: %s (valid: %v): %w", name, InitializerNames(), ErrInvalidArgument)
	}
}

// InitializerNames lists the names accepted by ParseInitializer.
func InitializerNames() []string {
	return []string{"random", "random-distinct", "kmeans++", "scalable"}
}
