// Package matrix offers the dense linear-algebra primitives behind the
// drainage-network analysis.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set that
//     return sentinel errors instead of panicking.
//   - Central validators (ValidateSquare, ValidateSymmetric, ValidateVecLen)
//     so every kernel fails fast with the same error surface.
//   - Kernels used by the spectral and centrality stages: Sub, MatVec,
//     RowSums and EigenSym (cyclic Jacobi sweeps on symmetric input).
//   - Vector helpers for power iteration and score shaping: Norm2,
//     Normalize, Distance2, Abs, MinMaxNormalize, Clamp.
//
// Matrices are dense: O(n²) memory is acceptable for networks of a few
// thousand nodes, which covers typical municipal drainage inventories.
package matrix
