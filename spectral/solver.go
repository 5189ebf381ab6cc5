// SPDX-License-Identifier: MIT

package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/drainvuln/matrix"
)

// Solver computes the full eigendecomposition of a symmetric matrix.
// Implementations return eigenvalues in any order together with a matrix whose
// column k is the unit eigenvector for value k; Analyze sorts the pairs.
type Solver interface {
	EigenSym(m *matrix.Dense) ([]float64, *matrix.Dense, error)
	Name() string
}

// Solver names accepted by ParseSolver.
const (
	SolverJacobi = "jacobi"
	SolverLAPACK = "lapack"
)

// Jacobi defaults.
const (
	DefaultJacobiTolerance = 1e-12
	DefaultJacobiSweeps    = 100
)

// JacobiSolver runs cyclic Jacobi sweeps from the matrix package.
type JacobiSolver struct {
	Tol       float64 // convergence threshold on max |off-diagonal|
	MaxSweeps int     // cap on full sweeps
}

// NewJacobiSolver returns a JacobiSolver with the package defaults.
func NewJacobiSolver() JacobiSolver {
	return JacobiSolver{Tol: DefaultJacobiTolerance, MaxSweeps: DefaultJacobiSweeps}
}

// EigenSym implements Solver.
func (s JacobiSolver) EigenSym(m *matrix.Dense) ([]float64, *matrix.Dense, error) {
	return matrix.EigenSym(m, s.Tol, s.MaxSweeps)
}

// Name implements Solver.
func (JacobiSolver) Name() string { return SolverJacobi }

// LAPACKSolver delegates to gonum's symmetric eigendecomposition.
type LAPACKSolver struct{}

// EigenSym implements Solver. Symmetry is checked first because gonum reads
// only the upper triangle and would silently accept an asymmetric input.
func (LAPACKSolver) EigenSym(m *matrix.Dense) ([]float64, *matrix.Dense, error) {
	if err := matrix.ValidateSymmetric(m, DefaultJacobiTolerance); err != nil {
		return nil, nil, fmt.Errorf("LAPACKSolver: %w", err)
	}
	n := m.Rows()
	data := make([]float64, 0, n*n)
	var i int
	for i = 0; i < n; i++ {
		row, err := m.Row(i)
		if err != nil {
			return nil, nil, fmt.Errorf("LAPACKSolver: %w", err)
		}
		data = append(data, row...)
	}

	var es mat.EigenSym
	if ok := es.Factorize(mat.NewSymDense(n, data), true); !ok {
		return nil, nil, fmt.Errorf("LAPACKSolver: %w", ErrSolverFailed)
	}
	vals := es.Values(nil)
	var ev mat.Dense
	es.VectorsTo(&ev)

	vecs, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, nil, fmt.Errorf("LAPACKSolver: %w", err)
	}
	var j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if err = vecs.Set(i, j, ev.At(i, j)); err != nil {
				return nil, nil, fmt.Errorf("LAPACKSolver: %w", err)
			}
		}
	}

	return vals, vecs, nil
}

// Name implements Solver.
func (LAPACKSolver) Name() string { return SolverLAPACK }

// ParseSolver maps a configuration name onto a Solver.
func ParseSolver(name string) (Solver, error) {
	switch name {
	case "", SolverJacobi:
		return NewJacobiSolver(), nil
	case SolverLAPACK:
		return LAPACKSolver{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
	}
}
