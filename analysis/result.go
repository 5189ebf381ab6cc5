// SPDX-License-Identifier: MIT

package analysis

import (
	"math"
	"sort"

	"github.com/katalvlaran/drainvuln/centrality"
	"github.com/katalvlaran/drainvuln/hydraulic"
	"github.com/katalvlaran/drainvuln/matrix"
	"github.com/katalvlaran/drainvuln/network"
	"github.com/katalvlaran/drainvuln/spectral"
	"github.com/katalvlaran/drainvuln/vulnerability"
)

// Row is one line of the ranked table.
type Row struct {
	NodeID                 int                    `json:"node_id"`
	Latitude               float64                `json:"latitude"`
	Longitude              float64                `json:"longitude"`
	Type                   network.NodeType       `json:"type"`
	Degree                 int                    `json:"degree"`
	EigenvalueCentrality   float64                `json:"eigenvalue_centrality"`
	DegreeCentrality       float64                `json:"degree_centrality"`
	HydraulicVulnerability float64                `json:"hydraulic_vulnerability"`
	VulnerabilityScore     float64                `json:"vulnerability_score"`
	VulnerabilityCategory  vulnerability.Category `json:"vulnerability_category"`
	Elevation              float64                `json:"elevation"`
	FlowCapacity           float64                `json:"flow_capacity"`
	RainfallIntensity      float64                `json:"rainfall_intensity"`
	SedimentRisk           float64                `json:"sediment_risk"`
	HydraulicLoad          float64                `json:"hydraulic_load"`
}

// Range is a closed [Min, Max] interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Summary carries the network statistics printed after a run.
type Summary struct {
	Nodes                 int                            `json:"nodes"`
	Edges                 int                            `json:"edges"`
	Degree                Range                          `json:"degree"`
	MeanDegree            float64                        `json:"mean_degree"`
	LaplacianRange        Range                          `json:"laplacian_eigenvalues"`
	AlgebraicConnectivity float64                        `json:"algebraic_connectivity"`
	SpectralRadius        float64                        `json:"spectral_radius"`
	Components            int                            `json:"components"`
	Connectivity          string                         `json:"connectivity"`
	Topology              string                         `json:"topology"`
	Elevation             Range                          `json:"elevation"`
	FlowCapacity          Range                          `json:"flow_capacity"`
	Rainfall              Range                          `json:"rainfall_intensity"`
	Sediment              Range                          `json:"sediment_risk"`
	Score                 Range                          `json:"score"`
	ScoreMean             float64                        `json:"score_mean"`
	ScoreStd              float64                        `json:"score_std"`
	HighThreshold         float64                        `json:"high_threshold"`
	LowThreshold          float64                        `json:"low_threshold"`
	Counts                map[vulnerability.Category]int `json:"counts"`
	PowerOutcome          string                         `json:"power_iteration"`
	PowerIterations       int                            `json:"power_iterations"`
	DominantEigenvalue    float64                        `json:"dominant_eigenvalue"`
	Seed                  int64                          `json:"seed"`
}

// Result is the complete, immutable output of Run.
type Result struct {
	Nodes            []network.Node
	Edges            []network.Edge
	Matrices         network.Matrices
	Spectrum         spectral.Spectrum
	Centrality       centrality.Result
	DegreeCentrality []float64
	Hydraulic        hydraulic.Assessment
	Integration      vulnerability.Integration
	Classification   vulnerability.Classification
	Table            []Row // sorted by VulnerabilityScore, descending; ties keep node order
	Warnings         []Warning
	Summary          Summary
}

// Scores returns the final score per node in node order.
func (r *Result) Scores() []float64 { return r.Integration.Scores }

// Top returns the first k rows of the ranked table (all rows when k ≤ 0 or k > n).
func (r *Result) Top(k int) []Row {
	if k <= 0 || k > len(r.Table) {
		return r.Table
	}

	return r.Table[:k]
}

// buildTable assembles one row per node and sorts by score descending.
func buildTable(r *Result) []Row {
	rows := make([]Row, len(r.Nodes))
	for i, nd := range r.Nodes {
		rows[i] = Row{
			NodeID:                 nd.ID,
			Latitude:               nd.Latitude,
			Longitude:              nd.Longitude,
			Type:                   nd.Type,
			Degree:                 int(r.Matrices.Degrees[i]),
			EigenvalueCentrality:   r.Centrality.Scores[i],
			DegreeCentrality:       r.DegreeCentrality[i],
			HydraulicVulnerability: r.Hydraulic.Vulnerability[i],
			VulnerabilityScore:     r.Integration.Scores[i],
			VulnerabilityCategory:  r.Classification.Categories[i],
			Elevation:              nd.Elevation,
			FlowCapacity:           nd.FlowCapacity,
			RainfallIntensity:      nd.RainfallIntensity,
			SedimentRisk:           nd.SedimentRisk,
			HydraulicLoad:          nd.HydraulicLoad,
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].VulnerabilityScore > rows[b].VulnerabilityScore
	})

	return rows
}

// summarize derives the network statistics from a finished result.
func summarize(r *Result, seed int64) Summary {
	n := len(r.Nodes)
	attr := func(get func(network.Node) float64) Range {
		v := make([]float64, n)
		for i, nd := range r.Nodes {
			v[i] = get(nd)
		}
		lo, hi := matrix.MinMax(v)
		return Range{Min: lo, Max: hi}
	}
	degLo, degHi := matrix.MinMax(r.Matrices.Degrees)
	eigLo, eigHi := matrix.MinMax(r.Spectrum.Eigenvalues)
	scores := r.Integration.Scores
	scLo, scHi := matrix.MinMax(scores)
	mean, std := meanStd(scores)

	counts := make(map[vulnerability.Category]int, len(r.Classification.Counts))
	for k, v := range r.Classification.Counts {
		counts[k] = v
	}

	return Summary{
		Nodes:                 n,
		Edges:                 len(r.Edges),
		Degree:                Range{Min: degLo, Max: degHi},
		MeanDegree:            r.Spectrum.MeanDegree,
		LaplacianRange:        Range{Min: eigLo, Max: eigHi},
		AlgebraicConnectivity: r.Spectrum.AlgebraicConnectivity,
		SpectralRadius:        r.Spectrum.SpectralRadius,
		Components:            r.Spectrum.Components,
		Connectivity:          r.Spectrum.Connectivity.String(),
		Topology:              r.Spectrum.Topology.String(),
		Elevation:             attr(func(nd network.Node) float64 { return nd.Elevation }),
		FlowCapacity:          attr(func(nd network.Node) float64 { return nd.FlowCapacity }),
		Rainfall:              attr(func(nd network.Node) float64 { return nd.RainfallIntensity }),
		Sediment:              attr(func(nd network.Node) float64 { return nd.SedimentRisk }),
		Score:                 Range{Min: scLo, Max: scHi},
		ScoreMean:             mean,
		ScoreStd:              std,
		HighThreshold:         r.Classification.High,
		LowThreshold:          r.Classification.Low,
		Counts:                counts,
		PowerOutcome:          r.Centrality.Outcome.String(),
		PowerIterations:       r.Centrality.Iterations,
		DominantEigenvalue:    r.Centrality.Eigenvalue,
		Seed:                  seed,
	}
}

// meanStd returns the mean and population standard deviation.
func meanStd(x []float64) (mean, std float64) {
	if len(x) == 0 {
		return 0, 0
	}
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	for _, v := range x {
		std += (v - mean) * (v - mean)
	}

	return mean, math.Sqrt(std / float64(len(x)))
}
