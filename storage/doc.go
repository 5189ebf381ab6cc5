// SPDX-License-Identifier: MIT

// Package storage moves networks and results between the pipeline and the
// outside world: CSV node/edge tables, a SQLite store for inputs and run
// history, JSON/CSV result exports, and a debounced file watcher that drives
// re-analysis.
//
// Loaders validate every record with go-playground/validator before it reaches
// the pipeline. A missing required column is reported as ErrMissingColumn.
package storage
