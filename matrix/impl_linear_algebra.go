// SPDX-License-Identifier: MIT
// Package matrix provides the linear-algebra kernels used by the network
// analysis stages: element-wise subtraction (Laplacian L = D − A),
// matrix-vector products (power iteration) and symmetric eigendecomposition
// (Laplacian spectrum, adjacency spectral radius).
//
// Purpose:
//   - Declare canonical kernels and the operation tags used for error wrapping.
//   - Keep every kernel on central validators; wrap failures via matrixErrorf.
//
// Notes:
//   - Kernels never mutate their inputs; results are freshly allocated.
//   - *Dense operands take a flat-slice fast path; other Matrix values fall
//     back to At/Set with the same loop order.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// ZeroSum is the initial accumulator for dot products and norms.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opSub      = "Sub"
	opMatVec   = "MatVec"
	opEigen    = "EigenSym"
	opSortEig  = "SortEigen"
	opRowSums  = "RowSums"
	opDiagonal = "NewDiagonal"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// Complexity:
//   - Time O(1), Space O(1).
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Sub computes the element-wise difference C = A - B and returns a fresh Dense result.
// Implementation:
//   - Stage 1: Validate both operands are non-nil and have identical shapes.
//   - Stage 2: If both are *Dense, run a single flat loop; otherwise fall back to i→j.
//
// Inputs:
//   - a: left matrix operand (any Matrix).
//   - b: right matrix operand (any Matrix) with the same shape as a.
//
// Returns:
//   - Matrix: a new Dense with C[i,j] = A[i,j] - B[i,j].
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
//
// AI-Hints:
//   - network.BuildMatrices calls Sub(D, A) to form the Laplacian.
func Sub(a, b Matrix) (Matrix, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	rows, cols := a.Rows(), a.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}

	// Fast-path: both *Dense → one flat walk.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range res.data {
				res.data[idx] = da.data[idx] - db.data[idx]
			}

			return res, nil
		}
	}

	// Fallback: generic interface loop using At (shape already validated).
	var i, j int
	var av, bv float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opSub, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opSub, err)
			}
			res.data[i*cols+j] = av - bv
		}
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; x non-nil; len(x) == m.Cols().
// Fast-path: *Dense performs one pass per row with flat indexing.
// Determinism: fixed i→j loop order.
// Complexity: Time O(r*c), Space O(r) for y.
//
// AI-Hints:
//   - Power iteration calls this once per step; adjacency rows are mostly
//     zero so skipping zero x[j] rarely helps, but skipping zero a[i,j] does.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	// Fast-path: *Dense allows flat, row-major dot-products.
	if d, ok := m.(*Dense); ok {
		var i, j, base int
		var acc, aij float64
		for i = 0; i < d.r; i++ {
			acc = ZeroSum
			base = i * d.c
			for j = 0; j < d.c; j++ {
				aij = d.data[base+j]
				if aij != 0 { // sparse adjacency rows
					acc += aij * x[j]
				}
			}
			y[i] = acc
		}

		return y, nil
	}

	// Fallback: interface-based dot-products via At.
	var i, j int
	var mv float64
	var err error
	for i = 0; i < rows; i++ {
		y[i] = ZeroSum
		for j = 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// EigenSym computes eigenvalues and eigenvectors of a symmetric matrix via
// cyclic Jacobi sweeps.
//
// Implementation:
//   - Stage 1: Validate symmetric square input within tol.
//   - Stage 2: Copy into a flat working buffer A and start Q = I.
//   - Stage 3: Each sweep visits every (p,q), p<q, in row order and applies a
//     Jacobi rotation zeroing A[p,q]; the rotation is accumulated into Q.
//   - Stage 4: Stop once max |A[p,q]| < tol; otherwise fail after maxSweeps.
//
// Behavior highlights:
//   - Symmetric-only solver: eigenvalues are real and Q is orthogonal by
//     construction, no complex intermediate ever appears.
//   - After three sweeps, entries already negligible against both diagonal
//     neighbours are flushed to zero instead of rotated.
//
// Inputs:
//   - m: symmetric Matrix (within tol); n := m.Rows().
//   - tol: convergence threshold on the largest off-diagonal magnitude.
//   - maxSweeps: safety cap on full sweeps (each sweep is n(n−1)/2 rotations).
//
// Returns:
//   - []float64: eigenvalues in diagonal order (unsorted).
//   - *Dense: Q whose column k is the unit eigenvector for eigenvalue k.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (non-square), ErrAsymmetry,
//     ErrNaNInf (bad tol), ErrMatrixEigenFailed (max off-diagonal ≥ tol after
//     maxSweeps).
//
// Determinism:
//   - Fixed p→q visiting order produces identical results for identical input.
//
// Complexity:
//   - Time O(maxSweeps · n^3), Space O(n^2). Convergence is quadratic, so
//     ~6–10 sweeps are typical for double precision.
//
// AI-Hints:
//   - Pair with SortEigen to get the ascending spectrum the Laplacian analysis expects.
func EigenSym(m Matrix, tol float64, maxSweeps int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	if maxSweeps <= 0 {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}
	tol = math.Abs(tol)

	src, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := src.r
	a := make([]float64, len(src.data)) // working copy; input stays untouched
	copy(a, src.data)
	Q, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	q := Q.data
	var i int
	for i = 0; i < n; i++ {
		q[i*n+i] = 1.0
	}

	var (
		sweep        int
		p, r         int     // pivot indices (r plays the role of q)
		app, arr     float64 // diagonal entries A[p,p], A[r,r]
		apr, g       float64 // off-diagonal entry and its scaled magnitude
		theta, t     float64 // rotation parameters
		c, s         float64 // cosine and sine
		aip, air     float64 // temporaries for A[i,p], A[i,r]
		qip, qir     float64 // temporaries for Q[i,p], Q[i,r]
		converged    bool
		maxOff       float64
		newIP, newIR float64
	)
	for sweep = 0; sweep < maxSweeps; sweep++ {
		// J.1: convergence check on the current off-diagonal mass.
		maxOff = maxOffDiagonal(a, n)
		if maxOff < tol {
			converged = true
			break
		}

		// J.2: one cyclic sweep over the strict upper triangle.
		for p = 0; p < n-1; p++ {
			for r = p + 1; r < n; r++ {
				apr = a[p*n+r]
				if apr == 0 {
					continue
				}
				app = a[p*n+p]
				arr = a[r*n+r]
				g = 100 * math.Abs(apr)
				// Flush entries that no longer change either diagonal value.
				if sweep > 3 && math.Abs(app)+g == math.Abs(app) && math.Abs(arr)+g == math.Abs(arr) {
					a[p*n+r], a[r*n+p] = 0, 0
					continue
				}

				// θ = (arr−app)/(2*apr); t = sign(θ) / (|θ|+√(θ²+1))
				theta = (arr - app) / (2 * apr)
				t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
				c = 1.0 / math.Sqrt(t*t+1)
				s = t * c

				// J.3: rotate rows/columns p and r of A.
				for i = 0; i < n; i++ {
					if i == p || i == r {
						continue
					}
					aip = a[i*n+p]
					air = a[i*n+r]
					newIP = c*aip - s*air
					newIR = s*aip + c*air
					a[i*n+p], a[p*n+i] = newIP, newIP
					a[i*n+r], a[r*n+i] = newIR, newIR
				}
				a[p*n+p] = c*c*app - 2*c*s*apr + s*s*arr
				a[r*n+r] = s*s*app + 2*c*s*apr + c*c*arr
				a[p*n+r], a[r*n+p] = 0, 0

				// J.4: accumulate the rotation into Q (columns p and r).
				for i = 0; i < n; i++ {
					qip = q[i*n+p]
					qir = q[i*n+r]
					q[i*n+p] = c*qip - s*qir
					q[i*n+r] = s*qip + c*qir
				}
			}
		}
	}
	if !converged && maxOffDiagonal(a, n) >= tol {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a[i*n+i]
	}

	return eigs, Q, nil
}

// maxOffDiagonal returns max_{i<j} |a[i,j]| over a flat n×n buffer.
// Complexity: O(n²).
func maxOffDiagonal(a []float64, n int) float64 {
	var i, j int
	var off, maxOff float64
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			off = math.Abs(a[i*n+j])
			if off > maxOff {
				maxOff = off
			}
		}
	}

	return maxOff
}

// SortEigen reorders an eigen pair ascending by eigenvalue and permutes the
// eigenvector columns to match. Inputs are not mutated.
//
// Errors:
//   - ErrNilMatrix (nil vecs), ErrDimensionMismatch (len(vals) != vecs.Cols()).
//
// Determinism:
//   - Stable sort: equal eigenvalues keep their solver order.
//
// Complexity:
//   - Time O(n log n + n²), Space O(n²).
func SortEigen(vals []float64, vecs *Dense) ([]float64, *Dense, error) {
	if vecs == nil {
		return nil, nil, matrixErrorf(opSortEig, ErrNilMatrix)
	}
	if err := ValidateVecLen(vals, vecs.c); err != nil {
		return nil, nil, matrixErrorf(opSortEig, err)
	}
	n := len(vals)
	order := make([]int, n)
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(x, y int) bool { return vals[order[x]] < vals[order[y]] })

	sortedVals := make([]float64, n)
	sortedVecs, err := NewDense(vecs.r, vecs.c)
	if err != nil {
		return nil, nil, matrixErrorf(opSortEig, err)
	}
	var i, k int
	for k = 0; k < n; k++ {
		sortedVals[k] = vals[order[k]]
		for i = 0; i < vecs.r; i++ {
			sortedVecs.data[i*vecs.c+k] = vecs.data[i*vecs.c+order[k]]
		}
	}

	return sortedVals, sortedVecs, nil
}
