// SPDX-License-Identifier: MIT

// Package network holds the drainage-network data model (Node, Edge) and the
// graph matrix builder that turns an edge list into the adjacency, degree and
// Laplacian matrices consumed by spectral analysis and centrality.
//
// Conventions:
//   - Node identifiers are 1-based and coincide with row position: id k maps
//     to matrix index k−1. The builder performs no lookup beyond that arithmetic.
//   - Edges are undirected and unweighted; A holds binary entries, so a
//     duplicated edge leaves A unchanged.
//   - All builders are pure: inputs are never mutated, outputs are fresh.
//
// Self-loops:
//   - SelfLoopDrop (default) ignores (k,k) edges and keeps the zero diagonal.
//   - SelfLoopKeep writes A[k−1,k−1] = 1, which contributes exactly 1 to the
//     row-sum degree of that node.
//
// Errors:
//   - ErrTooFewNodes     n < 2.
//   - ErrNodeOutOfRange  edge endpoint outside [1, n].
//   - ErrBadSelfLoopPolicy unknown policy value.
//
// Complexity:
//   - BuildMatrices: O(n² + m) time and O(n²) space for n nodes and m edges.
//   - Components:    O(n²) on the dense adjacency.
package network
