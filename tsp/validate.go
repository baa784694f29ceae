// Package tsp - input validation shared by Solve, BruteForce and TourCost.
//
// Validation is staged so that the cheap O(1) checks (shape, source, size
// ceiling) run before the O(n²) value scan, and the size ceiling rejects an
// instance before anything is allocated for it.
package tsp

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/heldkarp/matrix"
)

// validateShape returns the matrix order n after checking nil/square/empty.
//
// Complexity: O(1).
func validateShape(dist matrix.Matrix) (int, error) {
	if err := matrix.ValidateSquare(dist); err != nil {
		if errors.Is(err, matrix.ErrNilMatrix) {
			return 0, ErrNilMatrix
		}
		return 0, fmt.Errorf("%w: %d×%d", ErrNonSquare, dist.Rows(), dist.Cols())
	}
	if dist.Rows() == 0 {
		return 0, ErrEmptyMatrix
	}

	return dist.Rows(), nil
}

// validateSource verifies that source ∈ [0..n-1].
//
// Complexity: O(1).
func validateSource(n, source int) error {
	if source < 0 || source >= n {
		return fmt.Errorf("%w: %d not in [0..%d]", ErrSourceOutOfRange, source, n-1)
	}

	return nil
}

// graph is the solver-side view of a distance matrix: flat weights plus an
// explicit adjacency flag, both indexed i*n+j. Absent edges carry weight 0
// and never take part in arithmetic.
type graph struct {
	n    int
	w    []float64
	edge []bool
}

// buildGraph scans dist once, rejecting NaN and negative off-diagonal weights,
// and resolves every cell to (weight, present) under policy.
//
// Contract: dist is square of order n (validateShape passed).
//
// Complexity: O(n²) time and memory.
func buildGraph(dist matrix.Matrix, n int, policy ZeroPolicy) (*graph, error) {
	g := &graph{n: n, w: make([]float64, n*n), edge: make([]bool, n*n)}

	var (
		i, j int
		w    float64
		err  error
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue // self-loops are ignored, whatever they hold
			}
			if w, err = dist.At(i, j); err != nil {
				return nil, fmt.Errorf("tsp: read (%d,%d): %w", i, j, err)
			}
			if math.IsNaN(w) {
				return nil, fmt.Errorf("%w at (%d,%d)", ErrNaNWeight, i, j)
			}
			if w < 0 {
				return nil, fmt.Errorf("%w at (%d,%d): %g", ErrNegativeWeight, i, j, w)
			}
			if policy.Absent(w) {
				continue
			}
			g.w[i*n+j] = w
			g.edge[i*n+j] = true
		}
	}

	return g, nil
}

// hasEdge reports whether u→v exists.
func (g *graph) hasEdge(u, v int) bool { return g.edge[u*g.n+v] }

// weight returns the weight of u→v; meaningful only when hasEdge(u, v).
func (g *graph) weight(u, v int) float64 { return g.w[u*g.n+v] }

// prepare runs the full guardrail sequence shared by the solvers: options,
// shape, source, size ceiling, value scan. A nil graph with nil error means
// the ceiling rejected the instance.
func prepare(dist matrix.Matrix, opts []Option, ceiling func(config) int) (config, int, *graph, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return config{}, 0, nil, err
	}
	n, err := validateShape(dist)
	if err != nil {
		return config{}, 0, nil, err
	}
	if err = validateSource(n, cfg.source); err != nil {
		return config{}, 0, nil, err
	}
	if n > ceiling(cfg) {
		return cfg, n, nil, nil
	}
	g, err := buildGraph(dist, n, cfg.zero)
	if err != nil {
		return config{}, 0, nil, err
	}

	return cfg, n, g, nil
}
