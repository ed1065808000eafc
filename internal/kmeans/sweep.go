package kmeans

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Criterion selects how Sweep chooses between candidate values of k.
type Criterion string

const (
	// CriterionElbow picks the sharpest bend of the elbow score curve.
	CriterionElbow Criterion = "elbow"
	// CriterionSilhouette picks the highest silhouette score.
	CriterionSilhouette Criterion = "silhouette"
)

// ParseCriterion validates a criterion name. An empty name means elbow.
func ParseCriterion(name string) (Criterion, error) {
	switch Criterion(name) {
	case CriterionElbow, "":
		return CriterionElbow, nil
	case CriterionSilhouette:
		return CriterionSilhouette, nil
	default:
		return "", fmt.Errorf("unknown criterion: %s (valid: elbow, silhouette): %w", name, ErrInvalidArgument)
	}
}

// SweepOptions configures Sweep.
type SweepOptions struct {
	// Seed derives one random source per k.
	Seed int64
	// Parallelism bounds the number of concurrent runs. Zero means GOMAXPROCS.
	Parallelism int
	// Criterion defaults to CriterionElbow.
	Criterion Criterion
	// Options are passed to every Run.
	Options []Option
}

// SweepResult holds every run of a sweep and the chosen one.
type SweepResult struct {
	// Best is the result for K.
	Best *Result
	K    int
	// Results holds every run keyed by k, including the neighbours of the
	// requested range.
	Results map[int]*Result
	// Scores are the normalised elbow scores for k = kMin-1 .. kMax+1 when
	// the elbow criterion was used.
	Scores []float64
}

// Sweep clusters points once for every k around [kMin, kMax] and picks the
// best k. Runs are independent and execute concurrently; each k gets its own
// random source derived from the seed, so the outcome does not depend on
// scheduling.
func Sweep(ctx context.Context, alg Algorithm, kMin, kMax int, points []Point, so SweepOptions) (*SweepResult, error) {
	if kMin < 1 || kMax < kMin {
		return nil, fmt.Errorf("invalid k range [%d, %d]: %w", kMin, kMax, ErrInvalidArgument)
	}
	if err := validate(kMax, points); err != nil {
		return nil, err
	}
	criterion, err := ParseCriterion(string(so.Criterion))
	if err != nil {
		return nil, err
	}

	if kMin == kMax {
		r, err := Run(alg, kMin, points, SeedFor(so.Seed, kMin), so.Options...)
		if err != nil {
			return nil, err
		}
		return &SweepResult{Best: r, K: kMin, Results: map[int]*Result{kMin: r}}, nil
	}

	lo := max(1, kMin-1)
	hi := min(len(points), kMax+1)
	runs := make([]*Result, hi-lo+1)

	parallelism := so.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for k := lo; k <= hi; k++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := Run(alg, k, points, SeedFor(so.Seed, k), so.Options...)
			if err != nil {
				return fmt.Errorf("k=%d: %w", k, err)
			}
			r.Elbow()
			if criterion == CriterionSilhouette && k >= kMin && k <= kMax {
				r.Silhouette()
			}
			runs[k-lo] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &SweepResult{Results: make(map[int]*Result, len(runs))}
	for i, r := range runs {
		out.Results[lo+i] = r
	}

	switch criterion {
	case CriterionSilhouette:
		candidates := runs[kMin-lo : kMax-lo+1]
		best := BestBySilhouette(candidates)
		out.K = kMin + best
	default:
		elbows := make([]float64, 0, kMax-kMin+3)
		for _, r := range runs {
			elbows = append(elbows, r.Elbow())
		}
		// Missing neighbours at k = 0 or k = n+1 continue the curve in a
		// straight line, so the edge of the range is never a false elbow.
		if lo > kMin-1 {
			elbows = append([]float64{2*elbows[0] - elbows[1]}, elbows...)
		}
		if hi < kMax+1 {
			last := len(elbows) - 1
			elbows = append(elbows, 2*elbows[last]-elbows[last-1])
		}
		out.Scores = Normalize(elbows)
		k, err := EstimateBestK(kMin, kMax, out.Scores)
		if err != nil {
			return nil, err
		}
		out.K = k
	}
	out.Best = out.Results[out.K]
	return out, nil
}

// SeedFor returns the random source Sweep uses for k.
func SeedFor(seed int64, k int) Rand {
	return NewRand(seed ^ int64(k))
}
