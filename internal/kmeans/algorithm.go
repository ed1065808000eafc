package kmeans

import "fmt"

// Algorithm is one of Lloyd, MacQueen or HartiganWong.
type Algorithm interface {
	String() string
	algorithm()
}

// Run clusters points into at most k clusters using alg.
//
// rng is read and advanced by the run and must not be shared with a
// concurrent call. Clusters that end up empty are left out of the result,
// so callers may receive fewer than k clusters.
func Run(alg Algorithm, k int, points []Point, rng Rand, opts ...Option) (*Result, error) {
	if err := validate(k, points); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source: %w", ErrInvalidArgument)
	}
	o := buildOptions(opts)

	switch a := alg.(type) {
	case Lloyd:
		return a.run(k, points, rng, o)
	case MacQueen:
		return a.run(k, points, rng, o)
	case HartiganWong:
		return a.run(k, points, rng, o)
	case nil:
		return nil, fmt.Errorf("nil algorithm: %w", ErrInvalidArgument)
	default:
		return nil, fmt.Errorf("unsupported algorithm %T: %w", alg, ErrInvalidArgument)
	}
}

// ParseAlgorithm builds an algorithm from its name and an initializer. An
// empty name means Hartigan-Wong, which only uses init when it is not nil.
func ParseAlgorithm(name string, init Initializer) (Algorithm, error) {
	switch name {
	case "lloyd":
		return Lloyd{Init: init}, nil
	case "macqueen":
		return MacQueen{Init: init}, nil
	case "hartigan-wong", "hartiganwong", "hw", "":
		return HartiganWong{Init: init}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid: %v): %w", name, AlgorithmNames(), ErrInvalidArgument)
	}
}

// AlgorithmNames lists the names accepted by ParseAlgorithm.
func AlgorithmNames() []string {
	return []string{"lloyd", "macqueen", "hartigan-wong"}
}
