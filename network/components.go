// SPDX-License-Identifier: MIT

package network

import "github.com/katalvlaran/drainvuln/matrix"

// Components labels the connected components of the graph behind adjacency A
// with a breadth-first walk from every unvisited index in ascending order.
//
// Returns the component count and, per node, the 0-based component label.
// Isolated nodes form singleton components. The number of components equals
// the multiplicity of the Laplacian eigenvalue 0, so a count above 1 pairs
// with λ₂ = 0.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrDimensionMismatch (non-square).
// Complexity: O(n²) time, O(n) space.
func Components(A matrix.Matrix) (int, []int, error) {
	if err := matrix.ValidateSquareNonNil(A); err != nil {
		return 0, nil, err
	}
	n := A.Rows()
	label := make([]int, n)
	for i := range label {
		label[i] = -1
	}
	queue := make([]int, 0, n)

	var (
		count, root, u, v int
		a                 float64
		err               error
	)
	for root = 0; root < n; root++ {
		if label[root] >= 0 {
			continue
		}
		label[root] = count
		queue = append(queue[:0], root)
		for len(queue) > 0 {
			u, queue = queue[0], queue[1:]
			for v = 0; v < n; v++ {
				if label[v] >= 0 {
					continue
				}
				if a, err = A.At(u, v); err != nil {
					return 0, nil, err
				}
				if a != 0 {
					label[v] = count
					queue = append(queue, v)
				}
			}
		}
		count++
	}

	return count, label, nil
}
