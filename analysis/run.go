// SPDX-License-Identifier: MIT

package analysis

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/drainvuln/centrality"
	"github.com/katalvlaran/drainvuln/hydraulic"
	"github.com/katalvlaran/drainvuln/network"
	"github.com/katalvlaran/drainvuln/spectral"
	"github.com/katalvlaran/drainvuln/vulnerability"
)

// Run executes the full pipeline on an ordered node table and an edge list.
//
// Implementation:
//   - Stage 1: input checks (n ≥ 2, ids equal positions).
//   - Stage 2: graph matrices.
//   - Stage 3: spectrum of L and A.
//   - Stage 4: eigenvector centrality (seeded) and degree centrality.
//   - Stage 5: hydraulic vulnerability.
//   - Stage 6: integration, classification, ranked table and summary.
//
// Returns a complete Result or an error, never both. Degenerate vectors and
// power-iteration collapse are recorded as warnings.
func Run(nodes []network.Node, edges []network.Edge, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.Logger
	start := time.Now()

	res, err := run(nodes, edges, o)
	if err != nil {
		stage := StageOf(err)
		log.Error("analysis failed", zap.String("stage", string(stage)), zap.Error(err))
		if o.Recorder != nil {
			o.Recorder.ObserveFailure(stage)
		}
		return nil, err
	}

	for _, w := range res.Warnings {
		log.Warn("analysis warning",
			zap.String("kind", string(w.Kind)),
			zap.String("stage", string(w.Stage)),
			zap.String("detail", w.Detail))
	}
	elapsed := time.Since(start)
	log.Info("analysis complete",
		zap.Int("nodes", res.Summary.Nodes),
		zap.Int("edges", res.Summary.Edges),
		zap.Float64("lambda2", res.Summary.AlgebraicConnectivity),
		zap.Float64("spectral_radius", res.Summary.SpectralRadius),
		zap.String("power_iteration", res.Summary.PowerOutcome),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("elapsed", elapsed))
	if o.Recorder != nil {
		o.Recorder.ObserveRun(res, elapsed)
	}

	return res, nil
}

func run(nodes []network.Node, edges []network.Edge, o Options) (*Result, error) {
	log := o.Logger
	if err := validateInput(nodes); err != nil {
		return nil, err
	}
	res := &Result{
		Nodes: append([]network.Node(nil), nodes...),
		Edges: append([]network.Edge(nil), edges...),
	}
	n := len(nodes)

	var err error
	if res.Matrices, err = network.BuildMatrices(n, res.Edges, o.Graph...); err != nil {
		switch {
		case errors.Is(err, network.ErrNodeOutOfRange):
			return nil, structural(StageGraph, fmt.Sprintf("edge endpoints must lie in [1,%d]", n), err)
		case errors.Is(err, network.ErrTooFewNodes):
			return nil, structural(StageGraph, "at least two nodes", err)
		default:
			return nil, stageError(StageGraph, err)
		}
	}
	log.Debug("graph matrices built", zap.Int("nodes", n), zap.Int("edges", len(edges)))

	if res.Spectrum, err = spectral.Analyze(res.Matrices, o.Spectral...); err != nil {
		return nil, stageError(StageSpectral, err)
	}
	log.Debug("spectrum computed",
		zap.Float64("lambda2", res.Spectrum.AlgebraicConnectivity),
		zap.Float64("spectral_radius", res.Spectrum.SpectralRadius),
		zap.Int("components", res.Spectrum.Components))

	if res.Centrality, err = centrality.PowerIteration(res.Matrices.Adjacency, o.Centrality...); err != nil {
		return nil, stageError(StageCentrality, err)
	}
	switch res.Centrality.Outcome {
	case centrality.CollapsedFallback:
		res.warn(NumericCollapse, StageCentrality,
			fmt.Sprintf("‖A·x‖ fell below threshold at iteration %d; using degree centrality", res.Centrality.Iterations))
	case centrality.MaxIterationsReached:
		log.Info("power iteration hit the iteration cap", zap.Int("iterations", res.Centrality.Iterations))
	}
	if res.Centrality.Degenerate {
		res.warn(DegenerateInput, StageCentrality, "eigenvector centrality has zero range; set to 0")
	}
	if res.DegreeCentrality, err = centrality.DegreeCentrality(res.Matrices.Degrees); err != nil {
		return nil, structural(StageCentrality, "at least two nodes", err)
	}
	log.Debug("centrality computed",
		zap.String("outcome", res.Centrality.Outcome.String()),
		zap.Int("iterations", res.Centrality.Iterations))

	if res.Hydraulic, err = hydraulic.Assess(res.Nodes); err != nil {
		return nil, structural(StageHydraulic, "finite node attributes", err)
	}
	if res.Hydraulic.ElevationDegenerate {
		res.warn(DegenerateInput, StageHydraulic, "elevation has zero range; elevation risk set to 0")
	}
	if res.Hydraulic.ScoreDegenerate {
		res.warn(DegenerateInput, StageHydraulic, "hydraulic risk has zero range; set to 0")
	}

	if res.Integration, err = vulnerability.Integrate(res.Centrality.Scores, res.DegreeCentrality, res.Hydraulic.Vulnerability); err != nil {
		return nil, stageError(StageIntegration, err)
	}
	if res.Integration.Degenerate {
		res.warn(DegenerateInput, StageIntegration, "all shaped scores are zero; scores left at 0")
	}
	if res.Classification, err = vulnerability.Classify(res.Integration.Scores); err != nil {
		return nil, stageError(StageClassification, err)
	}

	res.Table = buildTable(res)
	res.Summary = summarize(res, o.Seed)

	return res, nil
}

func (r *Result) warn(kind WarningKind, stage Stage, detail string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Stage: stage, Detail: detail})
}

// validateInput enforces n ≥ 2 and id == position.
func validateInput(nodes []network.Node) error {
	if len(nodes) < 2 {
		return structural(StageInput, "at least two nodes", fmt.Errorf("n=%d: %w", len(nodes), network.ErrTooFewNodes))
	}
	for i, nd := range nodes {
		if nd.ID != i+1 {
			return structural(StageInput, "node ids are 1-based row positions",
				fmt.Errorf("row %d has id %d: %w", i+1, nd.ID, ErrNodeID))
		}
	}

	return nil
}
