// SPDX-License-Identifier: MIT

// Package matrix provides the square weight-matrix abstraction consumed by the
// heldkarp solvers.
//
// The package offers:
//
//   - Matrix: a minimal bounds-checked interface (Rows/Cols/At/Set/Clone).
//   - Dense: a row-major implementation over a single flat []float64.
//   - Validators: ValidateNotNil, ValidateSquare.
//   - Symmetrize: derive an undirected instance from a directed one.
//
// Every error returned by this package is one of the sentinels in errors.go,
// possibly wrapped with call-site context; match them with errors.Is.
package matrix
