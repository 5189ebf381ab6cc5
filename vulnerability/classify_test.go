// SPDX-License-Identifier: MIT
package vulnerability_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/drainvuln/vulnerability"
)

func TestPercentileLinear(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		p, want float64
	}{
		{0, 1},
		{100, 5},
		{50, 3},
		{70, 3.8},
		{30, 2.2},
	}
	for _, tc := range tests {
		assert.InDeltaf(t, tc.want, vulnerability.Percentile(sorted, tc.p), 1e-12, "p%v", tc.p)
	}
	assert.Equal(t, 0.0, vulnerability.Percentile(nil, 50))
	assert.Equal(t, 7.0, vulnerability.Percentile([]float64{7}, 30))
}

func TestClassifyThresholds(t *testing.T) {
	scores := []float64{0.5, 0.1, 0.95, 0.3, 0.7}
	c, err := vulnerability.Classify(scores)
	require.NoError(t, err)

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	assert.InDelta(t, vulnerability.Percentile(sorted, 70), c.High, 0)
	assert.InDelta(t, vulnerability.Percentile(sorted, 30), c.Low, 0)
	// Ranks 2.8 and 1.2 over {0.1, 0.3, 0.5, 0.7, 0.95}.
	assert.InDelta(t, 0.66, c.High, 1e-12)
	assert.InDelta(t, 0.34, c.Low, 1e-12)
	assert.Equal(t, []vulnerability.Category{
		vulnerability.Medium, vulnerability.Low, vulnerability.High, vulnerability.Low, vulnerability.High,
	}, c.Categories)
	assert.Equal(t, 2, c.Counts[vulnerability.High])
	assert.Equal(t, 1, c.Counts[vulnerability.Medium])
	assert.Equal(t, 2, c.Counts[vulnerability.Low])
}

func TestClassifyAllTiedLeavesLowEmpty(t *testing.T) {
	c, err := vulnerability.Classify([]float64{0.95, 0.95, 0.95, 0.95})
	require.NoError(t, err)
	assert.Equal(t, 4, c.Counts[vulnerability.High])
	assert.Equal(t, 0, c.Counts[vulnerability.Low])
	assert.Equal(t, 0, c.Counts[vulnerability.Medium])
}

func TestClassifyMostlyTiedAtTop(t *testing.T) {
	// 8 of 10 share the maximum: both percentiles land on it.
	scores := []float64{0.95, 0.95, 0.2, 0.95, 0.95, 0.95, 0.4, 0.95, 0.95, 0.95}
	c, err := vulnerability.Classify(scores)
	require.NoError(t, err)
	assert.Equal(t, 0.95, c.High)
	assert.Equal(t, 0.95, c.Low)
	assert.Equal(t, 8, c.Counts[vulnerability.High])
	assert.Equal(t, 0, c.Counts[vulnerability.Medium])
	assert.Equal(t, 2, c.Counts[vulnerability.Low])
}

func TestClassifyEmpty(t *testing.T) {
	_, err := vulnerability.Classify(nil)
	require.ErrorIs(t, err, vulnerability.ErrEmpty)
}
