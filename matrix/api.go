// SPDX-License-Identifier: MIT
// Package matrix: public API facades.
//
// Purpose:
//   - Thin, intention-revealing constructors and reductions used by the
//     network builder (degree vector, degree matrix).
//   - Each facade delegates to the canonical kernel; no loop duplication.
//
// Determinism & Policy:
//   - Facades never change the loop orders or numeric policy of underlying kernels.

package matrix

// NewDiagonal returns the n×n matrix with d on the main diagonal.
// Used to materialize the degree matrix D = diag(deg).
//
// Errors: ErrInvalidDimensions (empty d), ErrNaNInf (non-finite entry).
// Complexity: O(n^2) zeroing + O(n) writes.
func NewDiagonal(d []float64) (*Dense, error) {
	if err := ValidateFiniteVec(d); err != nil {
		return nil, matrixErrorf(opDiagonal, err)
	}
	n := len(d)
	D, err := NewDense(n, n) // rejects n == 0
	if err != nil {
		return nil, matrixErrorf(opDiagonal, err)
	}
	for i := 0; i < n; i++ { // fixed i order guarantees reproducibility
		D.data[i*n+i] = d[i]
	}

	return D, nil
}

// RowSums returns vector r where r[i] = sum_j m[i,j].
// Implementation: MatVec(m, ones(cols)). No custom loops.
// Complexity: O(rc).
//
// AI-Hints: on a binary adjacency matrix this is exactly the degree vector.
func RowSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	ones := make([]float64, m.Cols())
	for j := range ones {
		ones[j] = 1.0 // neutral element for summation
	}

	return MatVec(m, ones)
}
