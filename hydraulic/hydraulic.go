// SPDX-License-Identifier: MIT

// Package hydraulic composes a per-node physical risk score from four static
// attributes: elevation, demand against capacity, sediment and hydraulic load.
// These are proxies, not simulated dynamics.
package hydraulic

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/drainvuln/matrix"
	"github.com/katalvlaran/drainvuln/network"
)

// Component weights of the composite score; they sum to 1.
const (
	WeightElevation = 0.25
	WeightCapacity  = 0.30
	WeightSediment  = 0.25
	WeightLoad      = 0.20

	// CapacityScale is the empirical unit-scaling factor applied to flow
	// capacity before comparing it with rainfall intensity.
	CapacityScale = 10.0
)

// ErrNoNodes indicates an empty node slice.
var ErrNoNodes = errors.New("hydraulic: no nodes")

// ErrNonFinite indicates a NaN or ±Inf attribute.
var ErrNonFinite = errors.New("hydraulic: non-finite attribute")

// Components holds the four per-node risks before weighting.
type Components struct {
	Elevation []float64 // 1 − (e − min)/(max − min); 0 when all elevations are equal
	Capacity  []float64 // clamp(rain / (capacity·10), 0, 1)
	Sediment  []float64 // node attribute, as stored
	Load      []float64 // node attribute, as stored
}

// Assessment is the output of Assess.
type Assessment struct {
	Components
	Raw                 []float64 // weighted sum before normalization
	Vulnerability       []float64 // Raw min-max normalized to [0,1]
	ElevationDegenerate bool      // zero elevation range
	ScoreDegenerate     bool      // zero range of Raw; Vulnerability is all zero
}

// Assess computes hydraulic vulnerability for nodes in order.
//
// Implementation:
//   - Stage 1: elevation risk from the elevation range (guarded at zero range).
//   - Stage 2: capacity risk = clamp(rain/(capacity·10), 0, 1). A non-positive
//     capacity cannot carry any load: risk is 1 when rain > 0, else 0.
//   - Stage 3: H = 0.25·elev + 0.30·cap + 0.25·sed + 0.20·load.
//   - Stage 4: min-max normalize H; a constant H becomes all zeros.
//
// Errors: ErrNoNodes, ErrNonFinite.
// Complexity: O(n).
func Assess(nodes []network.Node) (Assessment, error) {
	n := len(nodes)
	if n == 0 {
		return Assessment{}, ErrNoNodes
	}
	elev := make([]float64, n)
	for i, nd := range nodes {
		if err := finite(nd); err != nil {
			return Assessment{}, err
		}
		elev[i] = nd.Elevation
	}

	a := Assessment{
		Components: Components{
			Elevation: make([]float64, n),
			Capacity:  make([]float64, n),
			Sediment:  make([]float64, n),
			Load:      make([]float64, n),
		},
		Raw: make([]float64, n),
	}

	lo, hi := matrix.MinMax(elev)
	span := hi - lo
	a.ElevationDegenerate = span == 0

	var err error
	for i, nd := range nodes {
		if span > 0 {
			a.Elevation[i] = 1 - (nd.Elevation-lo)/span
		}
		if a.Capacity[i], err = capacityRisk(nd.RainfallIntensity, nd.FlowCapacity); err != nil {
			return Assessment{}, fmt.Errorf("Assess: node %d: %w", nd.ID, err)
		}
		a.Sediment[i] = nd.SedimentRisk
		a.Load[i] = nd.HydraulicLoad
		a.Raw[i] = WeightElevation*a.Elevation[i] +
			WeightCapacity*a.Capacity[i] +
			WeightSediment*a.Sediment[i] +
			WeightLoad*a.Load[i]
	}

	var ok bool
	a.Vulnerability, ok = matrix.MinMaxNormalize(a.Raw)
	a.ScoreDegenerate = !ok

	return a, nil
}

// capacityRisk is the demand/supply ratio clamped to [0,1].
func capacityRisk(rain, capacity float64) (float64, error) {
	if capacity <= 0 {
		if rain > 0 {
			return 1, nil
		}
		return 0, nil
	}

	return matrix.Clamp(rain/(capacity*CapacityScale), 0, 1)
}

func finite(nd network.Node) error {
	for _, v := range [...]float64{nd.Elevation, nd.FlowCapacity, nd.RainfallIntensity, nd.SedimentRisk, nd.HydraulicLoad} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("Assess: node %d: %w", nd.ID, ErrNonFinite)
		}
	}

	return nil
}
