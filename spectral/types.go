// SPDX-License-Identifier: MIT

package spectral

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/drainvuln/matrix"
)

// Sentinel errors.
var (
	// ErrTooFewNodes indicates n < 2, where no second eigenvalue exists.
	ErrTooFewNodes = errors.New("spectral: at least two nodes are required")

	// ErrNilSolver indicates WithSolver(nil).
	ErrNilSolver = errors.New("spectral: solver is nil")

	// ErrUnknownSolver indicates an unrecognized solver name.
	ErrUnknownSolver = errors.New("spectral: unknown solver")

	// ErrSolverFailed indicates the LAPACK factorization did not succeed.
	ErrSolverFailed = errors.New("spectral: eigen solver failed")
)

// Thresholds of the advisory bands.
const (
	FragileBelow  = 0.1 // λ₂ < 0.1 ⇒ fragile
	ModerateBelow = 0.5 // λ₂ < 0.5 ⇒ moderate
	StarFactor    = 1.5 // ρ > 1.5·mean degree ⇒ star-like
	HubFactor     = 1.2 // ρ > 1.2·mean degree ⇒ hub present
)

// ConnectivityBand classifies algebraic connectivity.
type ConnectivityBand int

const (
	Fragile ConnectivityBand = iota
	Moderate
	Robust
)

// String implements fmt.Stringer.
func (b ConnectivityBand) String() string {
	switch b {
	case Fragile:
		return "fragile"
	case Moderate:
		return "moderate"
	case Robust:
		return "robust"
	default:
		return fmt.Sprintf("ConnectivityBand(%d)", int(b))
	}
}

// ClassifyConnectivity maps λ₂ onto its advisory band.
func ClassifyConnectivity(lambda2 float64) ConnectivityBand {
	switch {
	case lambda2 < FragileBelow:
		return Fragile
	case lambda2 < ModerateBelow:
		return Moderate
	default:
		return Robust
	}
}

// TopologyClass classifies hub dominance from ρ(A) against the mean degree.
type TopologyClass int

const (
	MeshLike TopologyClass = iota
	HubPresent
	StarLike
)

// String implements fmt.Stringer.
func (c TopologyClass) String() string {
	switch c {
	case MeshLike:
		return "mesh-like"
	case HubPresent:
		return "hub-present"
	case StarLike:
		return "star-like"
	default:
		return fmt.Sprintf("TopologyClass(%d)", int(c))
	}
}

// ClassifyTopology compares the spectral radius with the mean degree.
func ClassifyTopology(radius, meanDegree float64) TopologyClass {
	switch {
	case radius > StarFactor*meanDegree:
		return StarLike
	case radius > HubFactor*meanDegree:
		return HubPresent
	default:
		return MeshLike
	}
}

// Spectrum is the immutable output of Analyze.
type Spectrum struct {
	Eigenvalues           []float64     // Laplacian eigenvalues, ascending
	Eigenvectors          *matrix.Dense // column k pairs with Eigenvalues[k]
	AlgebraicConnectivity float64       // Eigenvalues[1]
	AdjacencyEigenvalues  []float64     // eigenvalues of A, ascending
	SpectralRadius        float64       // max |λ(A)|
	MeanDegree            float64
	Components            int // connected components (BFS over A)
	Connectivity          ConnectivityBand
	Topology              TopologyClass
}

// Options configures Analyze.
type Options struct {
	Solver Solver
	err    error
}

// Option is a functional option for Analyze.
type Option func(*Options)

// DefaultOptions returns the defaults: JacobiSolver with DefaultJacobiTolerance.
func DefaultOptions() Options {
	return Options{Solver: NewJacobiSolver()}
}

// WithSolver selects the eigensolver. A nil solver is reported by Analyze.
func WithSolver(s Solver) Option {
	return func(o *Options) {
		if s == nil {
			o.err = ErrNilSolver
			return
		}
		o.Solver = s
	}
}
