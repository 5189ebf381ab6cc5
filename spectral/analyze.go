// SPDX-License-Identifier: MIT

package spectral

import (
	"fmt"
	"math"

	"github.com/katalvlaran/drainvuln/matrix"
	"github.com/katalvlaran/drainvuln/network"
)

// Analyze computes the Laplacian spectrum and the adjacency spectral radius.
//
// Implementation:
//   - Stage 1: guard n ≥ 2 and option errors.
//   - Stage 2: Solver.EigenSym(L), then matrix.SortEigen for the ascending
//     spectrum; λ₂ = eigenvalues[1].
//   - Stage 3: Solver.EigenSym(A); ρ = max |λ|.
//   - Stage 4: connected components via network.Components and the advisory bands.
//
// Inputs:
//   - m: builder output; only Adjacency, Laplacian and Degrees are read.
//
// Errors:
//   - ErrTooFewNodes, ErrNilSolver, solver errors (wrapped).
//
// Determinism:
//   - Both bundled solvers are deterministic for identical input.
//
// Complexity:
//   - Jacobi: O(sweeps·n³) per matrix. LAPACK: O(n³).
func Analyze(m network.Matrices, opts ...Option) (Spectrum, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return Spectrum{}, o.err
	}
	n := m.N()
	if n < 2 || m.Laplacian == nil || m.Adjacency == nil {
		return Spectrum{}, fmt.Errorf("Analyze: n=%d: %w", n, ErrTooFewNodes)
	}

	// Operation A: Laplacian spectrum.
	vals, vecs, err := o.Solver.EigenSym(m.Laplacian)
	if err != nil {
		return Spectrum{}, fmt.Errorf("Analyze: laplacian (%s): %w", o.Solver.Name(), err)
	}
	vals, vecs, err = matrix.SortEigen(vals, vecs)
	if err != nil {
		return Spectrum{}, fmt.Errorf("Analyze: laplacian: %w", err)
	}

	// Operation B: adjacency spectrum and radius.
	adjVals, adjVecs, err := o.Solver.EigenSym(m.Adjacency)
	if err != nil {
		return Spectrum{}, fmt.Errorf("Analyze: adjacency (%s): %w", o.Solver.Name(), err)
	}
	adjVals, _, err = matrix.SortEigen(adjVals, adjVecs)
	if err != nil {
		return Spectrum{}, fmt.Errorf("Analyze: adjacency: %w", err)
	}
	radius := 0.0
	for _, v := range adjVals {
		radius = math.Max(radius, math.Abs(v))
	}

	components, _, err := network.Components(m.Adjacency)
	if err != nil {
		return Spectrum{}, fmt.Errorf("Analyze: components: %w", err)
	}

	mean := 0.0
	for _, d := range m.Degrees {
		mean += d
	}
	mean /= float64(n)

	return Spectrum{
		Eigenvalues:           vals,
		Eigenvectors:          vecs,
		AlgebraicConnectivity: vals[1],
		AdjacencyEigenvalues:  adjVals,
		SpectralRadius:        radius,
		MeanDegree:            mean,
		Components:            components,
		Connectivity:          ClassifyConnectivity(vals[1]),
		Topology:              ClassifyTopology(radius, mean),
	}, nil
}
