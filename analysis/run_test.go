// SPDX-License-Identifier: MIT
package analysis_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/drainvuln/analysis"
	"github.com/katalvlaran/drainvuln/centrality"
	"github.com/katalvlaran/drainvuln/network"
	"github.com/katalvlaran/drainvuln/spectral"
	"github.com/katalvlaran/drainvuln/vulnerability"
)

// uniformNodes returns n nodes with identical hydraulic attributes.
func uniformNodes(n int) []network.Node {
	out := make([]network.Node, n)
	for i := range out {
		out[i] = network.Node{
			ID: i + 1, Latitude: -6.2 + 0.001*float64(i), Longitude: 106.8,
			Type: network.TypeManhole, Elevation: 12, FlowCapacity: 2.5,
			RainfallIntensity: 40, SedimentRisk: 0.3, HydraulicLoad: 0.5,
		}
	}

	return out
}

// spreadNodes returns n nodes with distinct attributes.
func spreadNodes(n int) []network.Node {
	out := uniformNodes(n)
	for i := range out {
		f := float64(i)
		out[i].Elevation = 5 + 3*f
		out[i].FlowCapacity = 1 + 0.5*f
		out[i].RainfallIntensity = 60 - 4*f
		out[i].SedimentRisk = math.Mod(0.17*f, 1)
		out[i].HydraulicLoad = math.Mod(0.31*f+0.1, 1)
	}

	return out
}

func pathEdges(n int) []network.Edge {
	out := make([]network.Edge, 0, n-1)
	for k := 1; k < n; k++ {
		out = append(out, network.Edge{Source: k, Target: k + 1})
	}

	return out
}

func row(t *testing.T, res *analysis.Result, id int) analysis.Row {
	t.Helper()
	for _, r := range res.Table {
		if r.NodeID == id {
			return r
		}
	}
	t.Fatalf("node %d missing from table", id)

	return analysis.Row{}
}

func TestRunFivePathUniform(t *testing.T) {
	res, err := analysis.Run(uniformNodes(5), pathEdges(5), analysis.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.Len(t, res.Table, 5)

	mid := row(t, res, 3)
	for _, id := range []int{1, 5} {
		end := row(t, res, id)
		assert.Greater(t, mid.DegreeCentrality, end.DegreeCentrality)
		assert.Greater(t, mid.EigenvalueCentrality, end.EigenvalueCentrality)
		assert.Equal(t, 1, end.Degree)
	}
	assert.Equal(t, 2, mid.Degree)
	assert.Equal(t, 0.5, mid.DegreeCentrality)

	// The middle node has maximal degree centrality.
	for _, r := range res.Table {
		assert.LessOrEqual(t, r.DegreeCentrality, mid.DegreeCentrality)
	}

	// Uniform attributes: hydraulic vulnerability collapses to zero.
	for _, r := range res.Table {
		assert.Equal(t, 0.0, r.HydraulicVulnerability)
	}
	kinds := map[analysis.WarningKind]int{}
	for _, w := range res.Warnings {
		kinds[w.Kind]++
	}
	assert.GreaterOrEqual(t, kinds[analysis.DegenerateInput], 2)

	assert.Equal(t, 0.95, res.Table[0].VulnerabilityScore)
	assert.Equal(t, 5, res.Summary.Nodes)
	assert.Equal(t, 4, res.Summary.Edges)
	assert.Equal(t, 1, res.Summary.Components)
}

func TestRunTwoNodes(t *testing.T) {
	res, err := analysis.Run(uniformNodes(2), []network.Edge{{Source: 1, Target: 2}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 1.0}, res.DegreeCentrality)
	assert.InDelta(t, 2.0, res.Summary.AlgebraicConnectivity, 1e-9)
	assert.Len(t, res.Table, 2)
}

func TestRunSeedReproducible(t *testing.T) {
	nodes, edges := spreadNodes(12), pathEdges(12)
	edges = append(edges, network.Edge{Source: 1, Target: 6}, network.Edge{Source: 3, Target: 9}, network.Edge{Source: 2, Target: 3})

	a, err := analysis.Run(nodes, edges, analysis.WithSeed(42))
	require.NoError(t, err)
	b, err := analysis.Run(nodes, edges, analysis.WithSeed(42))
	require.NoError(t, err)

	require.Len(t, b.Scores(), len(a.Scores()))
	for i := range a.Scores() {
		assert.Equal(t, math.Float64bits(a.Scores()[i]), math.Float64bits(b.Scores()[i]))
	}
	assert.Equal(t, a.Table, b.Table)
}

func TestRunScoresBounded(t *testing.T) {
	for _, nodes := range [][]network.Node{uniformNodes(8), spreadNodes(8)} {
		res, err := analysis.Run(nodes, pathEdges(8))
		require.NoError(t, err)
		maxScore := 0.0
		for _, r := range res.Table {
			assert.GreaterOrEqual(t, r.HydraulicVulnerability, 0.0)
			assert.LessOrEqual(t, r.HydraulicVulnerability, 1.0)
			assert.Greater(t, r.VulnerabilityScore, 0.0)
			assert.LessOrEqual(t, r.VulnerabilityScore, vulnerability.MaxScore)
			maxScore = math.Max(maxScore, r.VulnerabilityScore)
		}
		assert.Equal(t, vulnerability.MaxScore, maxScore)
	}
}

func TestRunTableSortedAndComplete(t *testing.T) {
	res, err := analysis.Run(spreadNodes(10), pathEdges(10), analysis.WithSolver(spectral.LAPACKSolver{}))
	require.NoError(t, err)

	seen := map[int]bool{}
	for i, r := range res.Table {
		seen[r.NodeID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, res.Table[i-1].VulnerabilityScore, r.VulnerabilityScore)
		}
		switch r.VulnerabilityCategory {
		case vulnerability.High:
			assert.GreaterOrEqual(t, r.VulnerabilityScore, res.Summary.HighThreshold)
		case vulnerability.Low:
			assert.LessOrEqual(t, r.VulnerabilityScore, res.Summary.LowThreshold)
		}
	}
	assert.Len(t, seen, 10)
	assert.Len(t, res.Top(3), 3)
	assert.Len(t, res.Top(0), 10)
}

func TestRunCollapseWarning(t *testing.T) {
	res, err := analysis.Run(spreadNodes(3), pathEdges(3),
		analysis.WithCentrality(centrality.WithInitialVector([]float64{1, 0, -1})))
	require.NoError(t, err)
	assert.Equal(t, centrality.CollapsedFallback, res.Centrality.Outcome)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, analysis.NumericCollapse, res.Warnings[0].Kind)
	assert.Equal(t, analysis.StageCentrality, res.Warnings[0].Stage)
}

func TestRunDisconnected(t *testing.T) {
	res, err := analysis.Run(spreadNodes(6), []network.Edge{{Source: 1, Target: 2}, {Source: 2, Target: 3}, {Source: 4, Target: 5}})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.Summary.AlgebraicConnectivity, 1e-9)
	assert.Equal(t, 3, res.Summary.Components)
	assert.Equal(t, "fragile", res.Summary.Connectivity)
}

func TestRunStructuralErrors(t *testing.T) {
	shuffled := uniformNodes(3)
	shuffled[0].ID, shuffled[1].ID = 2, 1
	nan := uniformNodes(3)
	nan[1].Elevation = math.NaN()

	tests := []struct {
		name  string
		nodes []network.Node
		edges []network.Edge
		stage analysis.Stage
		cause error
	}{
		{"single node", uniformNodes(1), nil, analysis.StageInput, network.ErrTooFewNodes},
		{"no nodes", nil, nil, analysis.StageInput, network.ErrTooFewNodes},
		{"id mismatch", shuffled, nil, analysis.StageInput, analysis.ErrNodeID},
		{"edge out of range", uniformNodes(3), []network.Edge{{Source: 1, Target: 4}}, analysis.StageGraph, network.ErrNodeOutOfRange},
		{"nan attribute", nan, pathEdges(3), analysis.StageHydraulic, nil},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			res, err := analysis.Run(tc.nodes, tc.edges)
			require.Error(t, err)
			assert.Nil(t, res, "no partial results")
			require.True(t, errors.Is(err, analysis.ErrStructural))
			var se *analysis.StructuralError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tc.stage, se.Stage)
			assert.NotEmpty(t, se.Precondition)
			if tc.cause != nil {
				assert.ErrorIs(t, err, tc.cause)
			}
		})
	}
}

func TestRunLogsWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := analysis.Run(uniformNodes(4), pathEdges(4), analysis.WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, logs.FilterMessage("analysis warning").Len(), 2)
	assert.Equal(t, 1, logs.FilterMessage("analysis complete").Len())
	assert.Equal(t, 1, logs.FilterMessage("graph matrices built").Len())
}

type fakeRecorder struct {
	runs     int
	failures []analysis.Stage
	last     *analysis.Result
}

func (f *fakeRecorder) ObserveRun(res *analysis.Result, _ time.Duration) {
	f.runs++
	f.last = res
}

func (f *fakeRecorder) ObserveFailure(stage analysis.Stage) { f.failures = append(f.failures, stage) }

func TestRunRecorder(t *testing.T) {
	rec := &fakeRecorder{}
	res, err := analysis.Run(spreadNodes(4), pathEdges(4), analysis.WithRecorder(rec))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.runs)
	assert.Same(t, res, rec.last)

	_, err = analysis.Run(spreadNodes(4), []network.Edge{{Source: 0, Target: 1}}, analysis.WithRecorder(rec))
	require.Error(t, err)
	assert.Equal(t, []analysis.Stage{analysis.StageGraph}, rec.failures)
}
