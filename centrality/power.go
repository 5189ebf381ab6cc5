// SPDX-License-Identifier: MIT

package centrality

import (
	"fmt"

	"github.com/katalvlaran/drainvuln/matrix"
)

// PowerIteration computes eigenvector centrality of adjacency A.
//
// Implementation:
//   - Stage 1: validate A (square) and options; build x₀ from the initial
//     vector or the seeded RNG, normalized to unit length.
//   - Stage 2: loop k = 1..MaxIterations:
//     y = A·x; if ‖y‖ < CollapseThreshold ⇒ CollapsedFallback;
//     x' = y/‖y‖; if ‖x' − x‖ < Tolerance ⇒ Converged; x = x'.
//     Exhausting the loop ⇒ MaxIterationsReached.
//   - Stage 3: on fallback, x = RowSums(A)/‖RowSums(A)‖ (all zeros when A has
//     no edges). Scores = MinMaxNormalize(|x|).
//
// Errors:
//   - matrix.ErrNilMatrix / ErrDimensionMismatch for bad A; ErrBadTolerance,
//     ErrBadMaxIterations, ErrBadInitialVector for bad options.
//
// Complexity:
//   - Time O(k·n²) for k iterations on a dense A; Space O(n).
func PowerIteration(A matrix.Matrix, opts ...Option) (Result, error) {
	if err := matrix.ValidateSquareNonNil(A); err != nil {
		return Result{}, fmt.Errorf("PowerIteration: %w", err)
	}
	n := A.Rows()
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(n); err != nil {
		return Result{}, fmt.Errorf("PowerIteration: %w", err)
	}

	x0 := o.Initial
	if x0 == nil {
		x0 = randomVector(rngFromSeed(o.Seed), n)
	} else if err := matrix.ValidateFiniteVec(x0); err != nil {
		return Result{}, fmt.Errorf("PowerIteration: %w: %v", ErrBadInitialVector, err)
	}
	x, err := matrix.Normalize(x0)
	if err != nil {
		return Result{}, fmt.Errorf("PowerIteration: %w: %v", ErrBadInitialVector, err)
	}

	var (
		res   = Result{Outcome: MaxIterationsReached}
		y, xn []float64
		delta float64
		norm  float64
		k     int
	)
iterate:
	for k = 1; k <= o.MaxIterations; k++ {
		if y, err = matrix.MatVec(A, x); err != nil {
			return Result{}, fmt.Errorf("PowerIteration: %w", err)
		}
		res.Iterations = k
		norm = matrix.Norm2(y)
		if norm < o.CollapseThreshold {
			res.Outcome = CollapsedFallback
			break iterate
		}
		xn = matrix.ScaleVec(y, 1.0/norm)
		if delta, err = matrix.Distance2(xn, x); err != nil {
			return Result{}, fmt.Errorf("PowerIteration: %w", err)
		}
		x = xn
		if delta < o.Tolerance {
			res.Outcome = Converged
			break iterate
		}
	}

	if res.Outcome == CollapsedFallback {
		if x, err = degreeFallback(A); err != nil {
			return Result{}, fmt.Errorf("PowerIteration: %w", err)
		}
	}

	if y, err = matrix.MatVec(A, x); err != nil {
		return Result{}, fmt.Errorf("PowerIteration: %w", err)
	}
	res.Eigenvalue = matrix.Dot(x, y)
	res.Vector = x

	scores, ok := matrix.MinMaxNormalize(matrix.Abs(x))
	res.Scores = scores
	res.Degenerate = !ok

	return res, nil
}

// degreeFallback returns the unit-normalized degree sequence of A, or the zero
// vector when A has no edges.
func degreeFallback(A matrix.Matrix) ([]float64, error) {
	deg, err := matrix.RowSums(A)
	if err != nil {
		return nil, err
	}
	if matrix.Norm2(deg) == 0 {
		return deg, nil
	}

	return matrix.Normalize(deg)
}
