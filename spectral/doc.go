// SPDX-License-Identifier: MIT

// Package spectral eigendecomposes the Laplacian and adjacency matrices of a
// drainage network and derives the two connectivity indicators the report
// uses: algebraic connectivity λ₂ and spectral radius ρ(A).
//
// What:
//   - Laplacian spectrum: all eigenpairs of L sorted ascending, eigenvector
//     columns reordered to match. λ₀ ≈ 0 always; λ₂ = eigenvalues[1].
//   - Spectral radius: max |λ| over the eigenvalues of A.
//   - Advisory bands for reporting only (never fed into scoring).
//
// Why symmetric-only:
//   - L and A are symmetric by construction. A symmetric solver returns real
//     eigenvalues and orthonormal eigenvectors; a general solver may leak
//     complex parts from round-off asymmetry.
//
// Solvers:
//   - JacobiSolver: in-repo cyclic Jacobi sweeps (matrix.EigenSym). Default.
//   - LAPACKSolver: gonum's mat.EigenSym (LAPACK dsyev path), faster for large n.
//
// Errors:
//   - ErrTooFewNodes for n < 2.
//   - ErrNilSolver, ErrUnknownSolver for bad configuration.
//   - Solver failures wrap matrix.ErrMatrixEigenFailed or ErrSolverFailed.
package spectral
