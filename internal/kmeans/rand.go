package kmeans

import "math/rand/v2"

// Rand is the random source threaded through initializers and algorithms.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Perm(n int) []int
}

// NewRand returns a deterministic source for seed.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed) // #nosec G115 -- bit pattern reuse is intended
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
