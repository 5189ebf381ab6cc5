// SPDX-License-Identifier: MIT

// Package vulnerability integrates centrality and hydraulic signals into one
// shaped score per node and buckets the scores into risk tiers.
//
// Integration:
//   - V = 0.30·eigenvector + 0.30·degree + 0.40·hydraulic
//   - W = V^0.7 (concave shaping; negatives are clamped to 0 first)
//   - S = W·(0.95 / max W); the top node scores exactly 0.95.
//   - max W = 0 leaves every score at 0 and reports Degenerate.
//
// Classification:
//   - p70 and p30 by linear interpolation between closest ranks.
//   - score ≥ p70 ⇒ high; else score ≤ p30 ⇒ low; else medium.
//     Both boundaries are inclusive, so small or tied distributions can leave
//     medium (or low) empty.
package vulnerability
