// SPDX-License-Identifier: MIT

package centrality

import (
	"fmt"

	"github.com/katalvlaran/drainvuln/matrix"
)

// DegreeCentrality returns degree(i)/(n−1) for every node.
// On a simple graph each value lies in [0,1] and equals 1 only for a node
// adjacent to every other node. A kept self-loop counts toward the degree, so
// values are clamped to 1; a looped node reaches 1 at degree n−1.
//
// Errors: ErrTooFewNodes when len(degrees) < 2.
// Complexity: O(n).
func DegreeCentrality(degrees []float64) ([]float64, error) {
	n := len(degrees)
	if n < 2 {
		return nil, fmt.Errorf("DegreeCentrality: n=%d: %w", n, ErrTooFewNodes)
	}
	out := make([]float64, n)
	denom := float64(n - 1)
	var err error
	for i, d := range degrees {
		if out[i], err = matrix.Clamp(d/denom, 0, 1); err != nil {
			return nil, fmt.Errorf("DegreeCentrality: node %d: %w", i+1, err)
		}
	}

	return out, nil
}
