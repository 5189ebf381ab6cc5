// SPDX-License-Identifier: MIT

package centrality

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors.
var (
	// ErrTooFewNodes indicates n < 2 for degree centrality.
	ErrTooFewNodes = errors.New("centrality: at least two nodes are required")

	// ErrBadTolerance indicates a non-positive or non-finite tolerance.
	ErrBadTolerance = errors.New("centrality: tolerance must be positive and finite")

	// ErrBadMaxIterations indicates MaxIterations < 1.
	ErrBadMaxIterations = errors.New("centrality: max iterations must be ≥ 1")

	// ErrBadInitialVector indicates a start vector of the wrong length, with
	// non-finite entries, or with zero norm.
	ErrBadInitialVector = errors.New("centrality: invalid initial vector")
)

// Defaults.
const (
	DefaultTolerance         = 1e-6
	DefaultMaxIterations     = 100
	DefaultCollapseThreshold = 1e-10

	// defaultRNGSeed is used when callers pass seed == 0.
	defaultRNGSeed int64 = 1
)

// Outcome is the terminal state of power iteration.
type Outcome int

const (
	// Converged: successive iterates closer than the tolerance.
	Converged Outcome = iota

	// MaxIterationsReached: the iteration cap was hit first.
	MaxIterationsReached

	// CollapsedFallback: ‖A·x‖ fell under the collapse threshold and the
	// normalized degree sequence was used instead.
	CollapsedFallback
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max-iterations"
	case CollapsedFallback:
		return "collapsed-fallback"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the output of PowerIteration.
type Result struct {
	Scores     []float64 // |x| min-max normalized to [0,1]
	Vector     []float64 // final unit iterate (or normalized degrees on fallback), signed
	Outcome    Outcome
	Iterations int     // matrix-vector products performed
	Eigenvalue float64 // Rayleigh quotient xᵀAx of the final vector
	Degenerate bool    // |x| had zero range; Scores are all zero
}

// Options configures PowerIteration.
type Options struct {
	Tolerance         float64
	MaxIterations     int
	CollapseThreshold float64
	Seed              int64
	Initial           []float64
}

// Option is a functional option for PowerIteration.
type Option func(*Options)

// DefaultOptions returns tol 1e-6, 100 iterations, collapse threshold 1e-10, seed 0.
func DefaultOptions() Options {
	return Options{
		Tolerance:         DefaultTolerance,
		MaxIterations:     DefaultMaxIterations,
		CollapseThreshold: DefaultCollapseThreshold,
	}
}

// WithTolerance sets the convergence tolerance on ‖x_{k+1} − x_k‖.
func WithTolerance(tol float64) Option {
	return func(o *Options) { o.Tolerance = tol }
}

// WithMaxIterations caps the number of iterations.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithSeed seeds the random start vector. Seed 0 selects the fixed default.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithInitialVector fixes x₀ (normalized internally). Overrides WithSeed.
func WithInitialVector(x []float64) Option {
	return func(o *Options) {
		o.Initial = append([]float64(nil), x...)
	}
}

// validate checks option ranges.
func (o Options) validate(n int) error {
	if o.Tolerance <= 0 || math.IsNaN(o.Tolerance) || math.IsInf(o.Tolerance, 0) {
		return ErrBadTolerance
	}
	if o.MaxIterations < 1 {
		return ErrBadMaxIterations
	}
	if o.Initial != nil && len(o.Initial) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrBadInitialVector, len(o.Initial), n)
	}

	return nil
}
