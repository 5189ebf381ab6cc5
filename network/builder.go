// SPDX-License-Identifier: MIT

package network

import (
	"fmt"

	"github.com/katalvlaran/drainvuln/matrix"
)

// BuildMatrices constructs the adjacency, degree and Laplacian matrices of an
// undirected, unweighted drainage network.
//
// Implementation:
//   - Stage 1: validate n ≥ 2 and the self-loop policy.
//   - Stage 2: for each edge (s,t) in input order, bounds-check both endpoints
//     and set A[s−1,t−1] = A[t−1,s−1] = 1 (binary write, never an increment).
//   - Stage 3: Degrees = RowSums(A); D = diag(Degrees); L = D − A.
//
// Inputs:
//   - n:     node count.
//   - edges: 1-based endpoints; direction is discarded.
//
// Errors:
//   - ErrTooFewNodes, ErrNodeOutOfRange (wrapped with the edge position and
//     value), ErrBadSelfLoopPolicy.
//
// Determinism:
//   - Binary writes commute, so edge order never changes the output.
//
// Complexity:
//   - Time O(n² + m), Space O(n²).
func BuildMatrices(n int, edges []Edge, opts ...Option) (Matrices, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if n < 2 {
		return Matrices{}, fmt.Errorf("BuildMatrices: n=%d: %w", n, ErrTooFewNodes)
	}
	if o.SelfLoops != SelfLoopDrop && o.SelfLoops != SelfLoopKeep {
		return Matrices{}, fmt.Errorf("BuildMatrices: %w", ErrBadSelfLoopPolicy)
	}

	A, err := matrix.NewDense(n, n)
	if err != nil {
		return Matrices{}, fmt.Errorf("BuildMatrices: %w", err)
	}
	var s, t int
	for k, e := range edges {
		s, t = e.Source-1, e.Target-1
		if s < 0 || s >= n || t < 0 || t >= n {
			return Matrices{}, fmt.Errorf("BuildMatrices: edge #%d (%s) with n=%d: %w", k, e, n, ErrNodeOutOfRange)
		}
		if s == t && o.SelfLoops == SelfLoopDrop {
			continue
		}
		// Indices are validated above; Set cannot fail on a finite 1.
		_ = A.Set(s, t, 1)
		_ = A.Set(t, s, 1)
	}

	deg, err := matrix.RowSums(A)
	if err != nil {
		return Matrices{}, fmt.Errorf("BuildMatrices: %w", err)
	}
	D, err := matrix.NewDiagonal(deg)
	if err != nil {
		return Matrices{}, fmt.Errorf("BuildMatrices: %w", err)
	}
	L, err := matrix.Sub(D, A)
	if err != nil {
		return Matrices{}, fmt.Errorf("BuildMatrices: %w", err)
	}

	return Matrices{
		Adjacency: A,
		Degree:    D,
		Laplacian: L.(*matrix.Dense), // Sub always returns *Dense
		Degrees:   deg,
	}, nil
}
