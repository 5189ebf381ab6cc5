// SPDX-License-Identifier: MIT

// Package analysis runs the vulnerability pipeline end to end:
//
//	nodes, edges ─► network.BuildMatrices ─┬─► spectral.Analyze
//	                                       └─► centrality.PowerIteration / DegreeCentrality
//	nodes ──────► hydraulic.Assess
//	centrality + hydraulic ─► vulnerability.Integrate ─► vulnerability.Classify ─► ranked table
//
// Every stage is a pure function of the previous stages' values; Run threads
// them through and returns one immutable Result. Nothing is cached between runs.
//
// Error taxonomy:
//   - *StructuralError (errors.Is(err, ErrStructural)): bad identifiers,
//     out-of-range edges, fewer than two nodes, non-finite attributes. Fatal;
//     Run returns a nil Result.
//   - Warning{Kind: DegenerateInput}: a zero-range vector was normalized to
//     zeros. Logged, never fatal.
//   - Warning{Kind: NumericCollapse}: power iteration fell back to degree
//     centrality. Logged, never fatal.
//
// Numeric packages never log; this package owns the zap logger.
package analysis
