// SPDX-License-Identifier: MIT

// Package matrix - dense vector helpers.
//
// Purpose:
//   - Norms, normalization and min-max shaping shared by power iteration,
//     hydraulic risk and score integration.
//   - Helpers return fresh slices; inputs are never mutated.
//
// Numeric policy:
//   - Degenerate inputs (zero norm, zero range) are reported, not hidden:
//     Normalize returns ErrZeroVector, MinMaxNormalize returns ok=false.

package matrix

import "math"

const (
	opNormalize = "Normalize"
	opClamp     = "Clamp"
	opDistance  = "Distance2"
)

// Norm2 returns the Euclidean norm ‖x‖₂ using math.Hypot accumulation to
// avoid intermediate overflow.
// Complexity: O(n).
func Norm2(x []float64) float64 {
	norm := ZeroSum
	for _, v := range x {
		norm = math.Hypot(norm, v)
	}

	return norm
}

// Normalize returns x/‖x‖₂.
// Errors: ErrZeroVector when ‖x‖₂ == 0.
// Complexity: O(n).
func Normalize(x []float64) ([]float64, error) {
	norm := Norm2(x)
	if norm == 0 {
		return nil, matrixErrorf(opNormalize, ErrZeroVector)
	}

	return ScaleVec(x, 1.0/norm), nil
}

// ScaleVec returns alpha·x.
// Complexity: O(n).
func ScaleVec(x []float64, alpha float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = alpha * v
	}

	return out
}

// Distance2 returns ‖x − y‖₂.
// Errors: ErrDimensionMismatch when lengths differ.
// Complexity: O(n).
func Distance2(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, matrixErrorf(opDistance, ErrDimensionMismatch)
	}
	d := ZeroSum
	for i := range x {
		d = math.Hypot(d, x[i]-y[i])
	}

	return d, nil
}

// Dot returns Σ x[i]·y[i]; the caller guarantees equal lengths.
// Complexity: O(n).
func Dot(x, y []float64) float64 {
	acc := ZeroSum
	for i := range x {
		acc += x[i] * y[i]
	}

	return acc
}

// Abs returns the component-wise absolute value of x.
// Complexity: O(n).
func Abs(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Abs(v)
	}

	return out
}

// MinMax returns the smallest and largest entries of a non-empty x.
// Complexity: O(n).
func MinMax(x []float64) (lo, hi float64) {
	if len(x) == 0 {
		return 0, 0
	}
	lo, hi = x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return lo, hi
}

// MinMaxNormalize maps x onto [0,1] via (x − min)/(max − min).
//
// Behavior highlights:
//   - The shift by min is always applied; the division only when the range
//     is positive. A constant vector therefore becomes all zeros and ok=false
//     reports the degenerate (zero-range) case to the caller.
//
// Complexity: O(n).
func MinMaxNormalize(x []float64) (out []float64, ok bool) {
	lo, hi := MinMax(x)
	out = make([]float64, len(x))
	span := hi - lo
	for i, v := range x {
		out[i] = v - lo
		if span > 0 {
			out[i] /= span
		}
	}

	return out, span > 0
}

// Clamp returns min(max(v, lo), hi). NaN bounds are rejected; NaN values map to lo.
// Errors: ErrNaNInf on NaN bounds.
// Complexity: O(1).
func Clamp(v, lo, hi float64) (float64, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, matrixErrorf(opClamp, ErrNaNInf)
	}
	if lo > hi {
		lo, hi = hi, lo // normalize bound order
	}
	switch {
	case math.IsNaN(v), v < lo:
		return lo, nil
	case v > hi:
		return hi, nil
	default:
		return v, nil
	}
}
