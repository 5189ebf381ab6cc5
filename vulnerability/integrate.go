// SPDX-License-Identifier: MIT

package vulnerability

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/drainvuln/matrix"
)

// Integration constants.
const (
	WeightEigenvector = 0.30
	WeightDegree      = 0.30
	WeightHydraulic   = 0.40
	ShapeExponent     = 0.7
	MaxScore          = 0.95
)

// ErrLengthMismatch indicates input vectors of different lengths.
var ErrLengthMismatch = errors.New("vulnerability: input lengths differ")

// ErrEmpty indicates empty input.
var ErrEmpty = errors.New("vulnerability: no scores")

// Integration is the output of Integrate.
type Integration struct {
	Combined   []float64 // V, the weighted sum
	Scores     []float64 // S, shaped and rescaled
	Degenerate bool      // max W == 0; Scores are all zero
}

// Integrate combines eigenvector centrality, degree centrality and hydraulic
// vulnerability into the final score.
//
// Errors: ErrEmpty, ErrLengthMismatch, matrix.ErrNaNInf for non-finite input.
// Complexity: O(n).
func Integrate(eigen, degree, hydraulic []float64) (Integration, error) {
	n := len(eigen)
	if n == 0 {
		return Integration{}, fmt.Errorf("Integrate: %w", ErrEmpty)
	}
	if len(degree) != n || len(hydraulic) != n {
		return Integration{}, fmt.Errorf("Integrate: %d/%d/%d: %w", n, len(degree), len(hydraulic), ErrLengthMismatch)
	}
	for _, v := range [][]float64{eigen, degree, hydraulic} {
		if err := matrix.ValidateFiniteVec(v); err != nil {
			return Integration{}, fmt.Errorf("Integrate: %w", err)
		}
	}

	out := Integration{
		Combined: make([]float64, n),
		Scores:   make([]float64, n),
	}
	shaped := make([]float64, n)
	peak := 0.0
	for i := 0; i < n; i++ {
		out.Combined[i] = WeightEigenvector*eigen[i] + WeightDegree*degree[i] + WeightHydraulic*hydraulic[i]
		shaped[i] = math.Pow(math.Max(out.Combined[i], 0), ShapeExponent)
		peak = math.Max(peak, shaped[i])
	}
	if peak == 0 {
		out.Degenerate = true
		return out, nil
	}
	scale := MaxScore / peak
	for i, v := range shaped {
		out.Scores[i] = v * scale
		if v == peak {
			out.Scores[i] = MaxScore // exact for the top node
		}
	}

	return out, nil
}
