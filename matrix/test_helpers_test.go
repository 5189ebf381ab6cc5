// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures for kernels.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/drainvuln/matrix"
)

// hide WRAPS any Matrix to hide its concrete type from type assertions,
// forcing the interface fallback path in kernels.
type hide struct{ matrix.Matrix }

// MustDense ALLOCATES an r×c *Dense or fails the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err, "NewDense(%d,%d)", r, c)

	return m
}

// FromRows BUILDS a *Dense from literal rows or fails the test.
func FromRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)

	return m
}

// MustAt READS m[i,j] or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err, "At(%d,%d)", i, j)

	return v
}

// MustSet WRITES m[i,j] or fails the test.
func MustSet(t *testing.T, m matrix.Matrix, i, j int, v float64) {
	t.Helper()
	require.NoError(t, m.Set(i, j, v), "Set(%d,%d)", i, j)
}

// CompareClose ASSERTS element-wise |want-got| ≤ atol.
func CompareClose(t *testing.T, want [][]float64, got matrix.Matrix, atol float64) {
	t.Helper()
	require.Equal(t, len(want), got.Rows(), "rows")
	var i, j int
	for i = 0; i < len(want); i++ {
		require.Equal(t, len(want[i]), got.Cols(), "cols")
		for j = 0; j < len(want[i]); j++ {
			require.InDeltaf(t, want[i][j], MustAt(t, got, i, j), atol, "cell [%d,%d]", i, j)
		}
	}
}

// pathLaplacian4 is the Laplacian of the path 0-1-2-3; its spectrum is
// 2 − 2cos(kπ/4), k = 0..3.
func pathLaplacian4() [][]float64 {
	return [][]float64{
		{1, -1, 0, 0},
		{-1, 2, -1, 0},
		{0, -1, 2, -1},
		{0, 0, -1, 1},
	}
}

// pathSpectrum4 returns the closed-form ascending spectrum of pathLaplacian4.
func pathSpectrum4() []float64 {
	out := make([]float64, 4)
	for k := 0; k < 4; k++ {
		out[k] = 2 - 2*math.Cos(float64(k)*math.Pi/4)
	}

	return out
}
