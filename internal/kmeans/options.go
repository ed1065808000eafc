package kmeans

import "github.com/hashicorp/go-hclog"

// Snapshot describes the partition after a full pass. The slices belong to
// the running algorithm and must not be retained or modified.
type Snapshot struct {
	Pass       int
	Assignment []int
	Sizes      []int
}

type options struct {
	logger        hclog.Logger
	maxIterations int
	observer      func(Snapshot)
}

// Option configures a clustering run.
type Option func(*options)

// WithLogger sets the logger used for run diagnostics.
// If nil is passed, logging is disabled.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = hclog.NewNullLogger()
		}
		o.logger = l
	}
}

// WithMaxIterations caps the number of full passes. Zero means no cap.
// A capped run still returns a consistent partition, but it may not have
// converged.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxIterations = n
	}
}

// WithObserver registers fn to be called after every full pass.
func WithObserver(fn func(Snapshot)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o *options) capped(pass int) bool {
	return o.maxIterations > 0 && pass >= o.maxIterations
}

func (o *options) observe(pass int, assignment []int, states []clusterState) {
	if o.observer == nil {
		return
	}
	o.observer(Snapshot{Pass: pass, Assignment: assignment, Sizes: sizesOf(states)})
}
