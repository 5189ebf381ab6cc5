// SPDX-License-Identifier: MIT

// Package centrality scores node importance on an undirected drainage network.
//
// Eigenvector centrality (PowerIteration):
//   - x₀ is a random unit vector drawn from an explicit seed, or a caller
//     supplied start vector. x_{k+1} = A·x_k / ‖A·x_k‖.
//   - The loop is an explicit state machine ending in exactly one Outcome:
//     Converged (‖x_{k+1} − x_k‖ < tol), MaxIterationsReached, or
//     CollapsedFallback (‖A·x_k‖ < collapse threshold; the normalized degree
//     sequence replaces the iterate).
//   - The returned scores are |x| min-max normalized to [0,1]. A constant
//     vector is shifted to zeros and reported as Degenerate.
//
// Degree centrality (DegreeCentrality):
//   - degree(i) / (n − 1), closed form, n ≥ 2.
//
// Determinism:
//   - Seed 0 maps to a fixed default seed, so two runs with the same inputs and
//     options are bit-identical. No ambient global randomness is used.
//
// Bipartite note:
//   - On a bipartite graph −λ_max is also an eigenvalue of A, the iterate
//     alternates between two vectors and the run ends MaxIterationsReached.
//     The magnitudes |x| are still ordered by the dominant eigenvector.
package centrality
