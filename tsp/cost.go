// Package tsp - tour cost utilities.
//
// TourCost re-evaluates a tour against a distance matrix with the same edge
// semantics the solvers use (ZeroPolicy, +Inf = absent, self-loops ignored),
// so callers can cross-check a Result independently of the memo table.
package tsp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/heldkarp/matrix"
)

// roundScale controls final cost stabilization precision (1e-9).
const roundScale = 1e9

// round1e9 rounds x to 1e-9 so that costs compare equal across platforms
// and summation orders.
func round1e9(x float64) float64 {
	return math.Round(x*roundScale) / roundScale
}

// TourCost returns the total weight of the closed tour over dist.
//
// Options: WithSource (the tour must start there) and WithZeroPolicy; the
// size ceiling does not apply.
//
// Errors: the shape/source/value sentinels of Solve, ErrInvalidTour (via
// ValidateTour), or ErrMissingEdge naming the first absent step.
//
// Complexity: O(n²) for the value scan, O(n) for the sum.
func TourCost(dist matrix.Matrix, tour []int, opts ...Option) (float64, error) {
	cfg, n, g, err := prepare(dist, opts, func(config) int { return math.MaxInt })
	if err != nil {
		return 0, err
	}
	if err = ValidateTour(tour, n, cfg.source); err != nil {
		return 0, err
	}
	if n == 1 {
		return 0, nil
	}

	var (
		sum  float64
		i    int
		u, v int
	)
	for i = 0; i < n; i++ {
		u, v = tour[i], tour[i+1]
		if !g.hasEdge(u, v) {
			return 0, fmt.Errorf("%w: %d→%d", ErrMissingEdge, u, v)
		}
		sum += g.weight(u, v)
	}

	return round1e9(sum), nil
}
