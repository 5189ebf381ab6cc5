// SPDX-License-Identifier: MIT

// Package drainvuln ranks the nodes of an urban drainage network by how
// vulnerable they are to flooding and bottleneck failure.
//
// 🚀 What does drainvuln compute?
//
//	One forward pass over an undirected network of manholes, junctions and outfalls:
//		• Graph matrices: adjacency A, degree D, Laplacian L = D − A
//		• Laplacian spectrum: algebraic connectivity λ₂ and connectivity bands
//		• Spectral radius ρ(A) and a coarse topology class
//		• Eigenvector centrality by seeded power iteration, degree centrality
//		• Hydraulic vulnerability from elevation, capacity, sediment and load
//		• A weighted, shaped final score in [0, 0.95] with high/medium/low categories
//
// Under the hood the pipeline is split into small packages:
//
//	matrix/          dense matrices, Jacobi eigensolver, vector helpers
//	network/         node/edge types and the A, D, L builder
//	spectral/        Laplacian spectrum, λ₂, ρ(A), classification bands
//	centrality/      power iteration and degree centrality
//	hydraulic/       per-node hydraulic risk components
//	vulnerability/   score integration and percentile classification
//	analysis/        the end-to-end Run with structural errors and warnings
//	storage/         CSV, JSON and SQLite persistence, input file watcher
//	metrics/         Prometheus collectors for runs
//	report/          console statistics and top-N table
//	config/          viper configuration with validation
//
// Quick ASCII example:
//
//	    1───2
//	    │ ╲ │
//	    3───4
//
//	node 1 carries three pipes; with poor hydraulics it ranks first.
//
//	go install github.com/katalvlaran/drainvuln/cmd/drainvuln@latest
package drainvuln
