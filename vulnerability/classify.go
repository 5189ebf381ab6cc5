// SPDX-License-Identifier: MIT

package vulnerability

import (
	"fmt"
	"math"
	"sort"
)

// Category is a vulnerability tier.
type Category string

// Tiers.
const (
	High   Category = "high"
	Medium Category = "medium"
	Low    Category = "low"
)

// Percentile cut points.
const (
	HighPercentile = 70.0
	LowPercentile  = 30.0
)

// Classification is the output of Classify.
type Classification struct {
	Categories []Category // per node, input order
	High       float64    // p70 threshold
	Low        float64    // p30 threshold
	Counts     map[Category]int
}

// Classify buckets scores by their 30th and 70th percentiles.
//
// Errors: ErrEmpty.
// Complexity: O(n log n).
func Classify(scores []float64) (Classification, error) {
	if len(scores) == 0 {
		return Classification{}, fmt.Errorf("Classify: %w", ErrEmpty)
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	c := Classification{
		Categories: make([]Category, len(scores)),
		High:       Percentile(sorted, HighPercentile),
		Low:        Percentile(sorted, LowPercentile),
		Counts:     map[Category]int{High: 0, Medium: 0, Low: 0},
	}
	for i, s := range scores {
		switch {
		case s >= c.High:
			c.Categories[i] = High
		case s <= c.Low:
			c.Categories[i] = Low
		default:
			c.Categories[i] = Medium
		}
		c.Counts[c.Categories[i]]++
	}

	return c, nil
}

// Percentile returns the p-th percentile (0..100) of an ascending slice using
// linear interpolation between the closest ranks: rank = p/100·(n−1).
// An empty slice yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)

	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
