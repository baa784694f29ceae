package tsp

import "github.com/katalvlaran/heldkarp/matrix"

// BruteForce solves the same problem as Solve by enumerating every ordering
// of the non-source cities. It exists as a reference oracle: slow, obviously
// correct, and independent of the memo table.
//
// Options are those of Solve except that the ceiling is fixed at
// BruteForceMaxCities; WithMaxCities and WithTracer are ignored.
// Among equally cheap tours the lexicographically smallest one is returned.
// Stats.Attempts counts the permutations examined.
//
// Complexity: O(n·(n-1)!) time, O(n) memory.
func BruteForce(dist matrix.Matrix, opts ...Option) (Result, error) {
	cfg, n, g, err := prepare(dist, opts, func(config) int { return BruteForceMaxCities })
	if err != nil {
		return Result{}, err
	}
	if g == nil {
		return Result{Status: StatusTooLarge, N: n}, nil
	}
	if n == 1 {
		return Result{Status: StatusFound, N: 1, Tour: []int{cfg.source, cfg.source}}, nil
	}

	// perm holds the interior cities in lexicographic order.
	perm := make([]int, 0, n-1)
	var i int
	for i = 0; i < n; i++ {
		if i != cfg.source {
			perm = append(perm, i)
		}
	}

	var (
		best     []int
		bestCost float64
		stats    Stats
		cost     float64
		ok       bool
	)
	for {
		stats.Attempts++
		if cost, ok = cycleCost(g, cfg.source, perm); ok && (best == nil || cost < bestCost) {
			best = append(best[:0], perm...)
			bestCost = cost
		}
		if !nextPermutation(perm) {
			break
		}
	}
	if best == nil {
		return Result{Status: StatusNotFound, N: n, Stats: stats}, nil
	}

	tour := make([]int, 0, n+1)
	tour = append(tour, cfg.source)
	tour = append(tour, best...)
	tour = append(tour, cfg.source)

	return Result{Status: StatusFound, N: n, Tour: tour, Cost: round1e9(bestCost), Stats: stats}, nil
}

// cycleCost sums source→perm[0]→…→perm[k-1]→source, failing on a missing edge.
func cycleCost(g *graph, source int, perm []int) (float64, bool) {
	var (
		sum  float64
		prev = source
	)
	for _, v := range perm {
		if !g.hasEdge(prev, v) {
			return 0, false
		}
		sum += g.weight(prev, v)
		prev = v
	}
	if !g.hasEdge(prev, source) {
		return 0, false
	}

	return sum + g.weight(prev, source), true
}

// nextPermutation rearranges p into its lexicographic successor and reports
// whether one existed.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}

	return true
}
