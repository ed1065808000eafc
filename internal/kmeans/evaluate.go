package kmeans

import (
	"fmt"
	"math"
)

// Elbow returns the mean squared distance of every point to the centroid of
// its cluster. It never increases as k grows on the same points.
func Elbow(r *Result) float64 {
	if len(r.Points) == 0 {
		return 0
	}
	var wcss float64
	for i, p := range r.Points {
		wcss += SquaredDistance(p, r.Centroids[r.Assignment[i]])
	}
	return wcss / float64(len(r.Points))
}

// Silhouette returns the mean silhouette over all points, using squared
// distances. A point alone in its cluster scores 0, as does every point when
// only one cluster is left. Higher is better; the range is about [-1, 1].
func Silhouette(r *Result) float64 {
	n := len(r.Points)
	if n == 0 {
		return 0
	}
	sums := make([]float64, r.K)
	var total float64
	for i, p := range r.Points {
		own := r.Assignment[i]
		if r.Sizes[own] == 1 {
			continue
		}
		clear(sums)
		for j, q := range r.Points {
			sums[r.Assignment[j]] += SquaredDistance(p, q)
		}
		a := sums[own] / float64(r.Sizes[own]-1)
		b := math.Inf(1)
		for c, size := range r.Sizes {
			if c == own || size == 0 {
				continue
			}
			if mean := sums[c] / float64(size); mean < b {
				b = mean
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}

// Normalize rescales scores linearly onto [0, 1]. Equal scores all map to 0.
func Normalize(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	lo, hi := scores[0], scores[0]
	for _, s := range scores {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	if hi == lo {
		return out
	}
	for i, s := range scores {
		out[i] = (s - lo) / (hi - lo)
	}
	return out
}

// EstimateBestK picks the sharpest elbow of a distortion curve.
//
// scores[i] is the normalised elbow score for k = kMin-1+i, so the slice
// holds one extra value on each side of [kMin, kMax]. Each k in the range is
// treated as the point (score*scale, k) with scale = len(scores)-1, and the
// angle it forms with its two neighbours is computed with the law of
// cosines. The smallest angle wins; ties go to the lowest k.
func EstimateBestK(kMin, kMax int, scores []float64) (int, error) {
	if kMin < 1 || kMax < kMin {
		return 0, fmt.Errorf("invalid k range [%d, %d]: %w", kMin, kMax, ErrInvalidArgument)
	}
	if want := kMax - kMin + 3; len(scores) != want {
		return 0, fmt.Errorf("got %d scores for k range [%d, %d], want %d: %w", len(scores), kMin, kMax, want, ErrInvalidArgument)
	}
	scale := float64(len(scores) - 1)
	point := func(i int) [2]float64 {
		return [2]float64{scores[i] * scale, float64(kMin - 1 + i)}
	}
	sq := func(p, q [2]float64) float64 {
		dx, dy := p[0]-q[0], p[1]-q[1]
		return dx*dx + dy*dy
	}

	best, bestAngle := kMin, math.Inf(1)
	for i := 1; i < len(scores)-1; i++ {
		prev, cur, next := point(i-1), point(i), point(i+1)
		a, b, c := sq(prev, cur), sq(cur, next), sq(prev, next)
		cos := (a + b - c) / (2 * math.Sqrt(a*b))
		angle := math.Acos(math.Max(-1, math.Min(1, cos)))
		if angle < bestAngle {
			best, bestAngle = kMin-1+i, angle
		}
	}
	return best, nil
}

// BestBySilhouette returns the index of the result with the highest
// silhouette score. Ties go to the earliest result.
func BestBySilhouette(results []*Result) int {
	best := -1
	bestScore := math.Inf(-1)
	for i, r := range results {
		if s := r.Silhouette(); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}
