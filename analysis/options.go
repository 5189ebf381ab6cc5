// SPDX-License-Identifier: MIT

package analysis

import (
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/drainvuln/centrality"
	"github.com/katalvlaran/drainvuln/network"
	"github.com/katalvlaran/drainvuln/spectral"
)

// Recorder observes finished runs; metrics.Registry implements it.
type Recorder interface {
	ObserveRun(res *Result, elapsed time.Duration)
	ObserveFailure(stage Stage)
}

// Options configures Run.
type Options struct {
	Logger     *zap.Logger
	Recorder   Recorder
	Graph      []network.Option
	Spectral   []spectral.Option
	Centrality []centrality.Option
	Seed       int64
}

// Option is a functional option for Run.
type Option func(*Options)

// DefaultOptions returns a no-op logger, no recorder and stage defaults.
func DefaultOptions() Options {
	return Options{Logger: zap.NewNop()}
}

// WithLogger sets the run logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithRecorder attaches a run observer.
func WithRecorder(r Recorder) Option {
	return func(o *Options) { o.Recorder = r }
}

// WithSelfLoops forwards the self-loop policy to the graph builder.
func WithSelfLoops(p network.SelfLoopPolicy) Option {
	return func(o *Options) { o.Graph = append(o.Graph, network.WithSelfLoops(p)) }
}

// WithSolver selects the eigensolver for spectral analysis.
func WithSolver(s spectral.Solver) Option {
	return func(o *Options) { o.Spectral = append(o.Spectral, spectral.WithSolver(s)) }
}

// WithSeed seeds power iteration. Seed 0 selects the fixed default seed.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
		o.Centrality = append(o.Centrality, centrality.WithSeed(seed))
	}
}

// WithCentrality forwards raw options to power iteration.
func WithCentrality(opts ...centrality.Option) Option {
	return func(o *Options) { o.Centrality = append(o.Centrality, opts...) }
}
