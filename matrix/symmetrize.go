// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
)

// Symmetrize returns a new symmetric *Dense derived from the square matrix m.
//
// absent reports whether a weight means "no edge" (e.g. +Inf, or 0 under the
// default zero policy of package tsp). For every unordered pair {i, j}:
//   - both directions present → both cells get min(a_ij, a_ji);
//   - one direction present   → the present weight is mirrored;
//   - neither present         → both cells keep a_ij.
//
// A pair holding NaN in either cell is copied as is, so that the solver's
// value scan still rejects it.
//
// The diagonal is copied unchanged. m is never mutated.
//
// Errors: ErrNilMatrix, ErrNonSquare (wrapped), or an At error from m.
// Complexity: O(n²).
func Symmetrize(m Matrix, absent func(w float64) bool) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, err
	}
	n := m.Rows()
	out, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}

	var (
		i, j     int
		aij, aji float64
		w        float64
	)
	for i = 0; i < n; i++ {
		if aij, err = m.At(i, i); err != nil {
			return nil, fmt.Errorf("Symmetrize: %w", err)
		}
		out.data[i*n+i] = aij
		for j = i + 1; j < n; j++ {
			if aij, err = m.At(i, j); err != nil {
				return nil, fmt.Errorf("Symmetrize: %w", err)
			}
			if aji, err = m.At(j, i); err != nil {
				return nil, fmt.Errorf("Symmetrize: %w", err)
			}
			if math.IsNaN(aij) || math.IsNaN(aji) {
				out.data[i*n+j] = aij
				out.data[j*n+i] = aji
				continue
			}
			switch {
			case absent(aij) && absent(aji):
				w = aij
			case absent(aij):
				w = aji
			case absent(aji):
				w = aij
			case aji < aij:
				w = aji
			default:
				w = aij
			}
			out.data[i*n+j] = w
			out.data[j*n+i] = w
		}
	}

	return out, nil
}
