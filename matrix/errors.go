// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All functions return these sentinels (optionally wrapped with call-site
// context via fmt.Errorf("...: %w", ErrX)). No function panics on
// user-triggered error conditions.

package matrix

import "errors"

var (
	// ErrInvalidDimensions is returned when a requested shape has a non-positive side.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrIndexOutOfBounds indicates that a row or column index is outside valid range.
	// At/Set MUST return this, not panic.
	ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")

	// ErrRaggedRows indicates that a [][]float64 source has rows of differing length.
	ErrRaggedRows = errors.New("matrix: rows have different lengths")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNilMatrix is returned when a nil Matrix is passed where a value is required.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)
