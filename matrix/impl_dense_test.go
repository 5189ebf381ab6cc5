// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for Dense storage and accessors.
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/drainvuln/matrix"
)

func TestNewDenseInvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 3}} {
		_, err := matrix.NewDense(dims[0], dims[1])
		require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	}
}

func TestNewDenseDefaultZero(t *testing.T) {
	m := MustDense(t, 3, 4)
	r, c := m.Shape()
	require.Equal(t, 3, r)
	require.Equal(t, 4, c)
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			require.Zero(t, MustAt(t, m, i, j))
		}
	}
}

func TestNewDenseFromRows(t *testing.T) {
	m := FromRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.Equal(t, 6.0, MustAt(t, m, 2, 1))

	_, err := matrix.NewDenseFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFromRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDenseFromRows([][]float64{{math.NaN()}})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestAtSetOutOfBounds(t *testing.T) {
	m := MustDense(t, 2, 2)
	_, err := m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.At(0, -1)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(-1, 0, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 5, 1), matrix.ErrOutOfRange)
}

func TestSetRejectsNonFinite(t *testing.T) {
	m := MustDense(t, 1, 1)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.Zero(t, MustAt(t, m, 0, 0), "failed Set must not write")
}

func TestCloneIndependence(t *testing.T) {
	m := FromRows(t, [][]float64{{1, 2}, {3, 4}})
	cl := m.Clone()
	MustSet(t, cl, 0, 0, 42)
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0))
	assert.Equal(t, 42.0, MustAt(t, cl, 0, 0))
}

func TestRowCol(t *testing.T) {
	m := FromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	row, err := m.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, row)
	col, err := m.Col(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6}, col)

	row[0] = 99
	assert.Equal(t, 4.0, MustAt(t, m, 1, 0), "Row must return a copy")

	_, err = m.Row(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.Col(-1)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestStringOutput(t *testing.T) {
	m := FromRows(t, [][]float64{{1, 2}, {3, 4.5}})
	assert.Equal(t, "[1, 2]\n[3, 4.5]\n", m.String())
}
