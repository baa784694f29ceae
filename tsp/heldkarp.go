package tsp

import "github.com/katalvlaran/heldkarp/matrix"

// Solve finds a minimum-cost Hamiltonian cycle through the source city of
// dist using the Held–Karp dynamic program.
//
// dist[i][j] is the weight of edge i→j; +Inf (and 0, under the default
// ZeroAsAbsent policy) means "no edge". The graph is treated as directed;
// symmetrize beforehand (matrix.Symmetrize) for undirected inputs.
//
// Guardrails, in order: options, shape, source range, size ceiling (returns
// StatusTooLarge with nil error, before any allocation), value scan.
//
// Ties are broken by scan order: masks ascending, then last ascending, then
// next ascending; only strictly cheaper candidates replace a state. The
// result is therefore deterministic.
//
// Complexity: O(n²·2ⁿ) time, O(n·2ⁿ) memory.
func Solve(dist matrix.Matrix, opts ...Option) (Result, error) {
	cfg, n, g, err := prepare(dist, opts, func(c config) int { return c.maxCities })
	if err != nil {
		return Result{}, err
	}
	if g == nil {
		return Result{Status: StatusTooLarge, N: n}, nil
	}
	if n == 1 {
		return Result{Status: StatusFound, N: 1, Tour: []int{cfg.source, cfg.source}}, nil
	}

	return heldKarp(g, cfg.source, cfg.tracer), nil
}

// heldKarp runs the sweep, closes the tour and reconstructs it.
// Contract: g.n ≥ 2, 0 ≤ source < g.n.
func heldKarp(g *graph, source int, tr Tracer) Result {
	var (
		n      = g.n
		full   = fullMask(n)
		srcBit = bit(source)
		t      = newMemo(n)
		view   = &MemoView{t: t}
		stats  Stats
		seq    int
	)

	// Base case: only the source visited, standing on it, cost 0.
	t.put(srcBit, source, 0, noPred)

	var (
		mask, nextMask Mask
		last, next     int
		idx            int
		base, w, cand  float64
		prev           State
		had            bool
	)
	// Increasing numeric order visits every subset before its supersets.
	for mask = srcBit; mask <= full; mask++ {
		if mask&srcBit == 0 {
			continue
		}
		stats.Masks++
		for last = 0; last < n; last++ {
			if !mask.Has(last) {
				continue
			}
			idx = t.index(mask, last)
			if !t.reached[idx] {
				continue
			}
			base = t.cost[idx]
			for next = 0; next < n; next++ {
				if mask.Has(next) || !g.hasEdge(last, next) {
					continue
				}
				w = g.weight(last, next)
				cand = base + w
				nextMask = mask | bit(next)
				prev, had = t.at(nextMask, next)
				stats.Attempts++

				ev := Event{
					Kind: EventAttempt, Mask: mask, Last: last, Next: next, NextMask: nextMask,
					Base: base, Weight: w, Candidate: cand, Previous: prev.Cost, HadPrevious: had,
				}
				if tr != nil {
					ev.Seq, ev.Memo = seq, view
					seq++
					tr.Trace(ev)
				}
				if had && cand >= prev.Cost {
					continue
				}

				t.put(nextMask, next, cand, last)
				stats.Improvements++
				if tr != nil {
					ev.Kind, ev.Seq = EventImprove, seq
					seq++
					tr.Trace(ev)
				}
			}
		}
	}
	stats.States = t.states

	// Close the cycle: cheapest full-mask state with an edge back to source.
	var (
		bestLast = -1
		bestCost float64
		st       State
		ok       bool
	)
	for last = 0; last < n; last++ {
		if last == source || !g.hasEdge(last, source) {
			continue
		}
		if st, ok = t.at(full, last); !ok {
			continue
		}
		w = g.weight(last, source)
		cand = st.Cost + w
		if tr != nil {
			tr.Trace(Event{
				Seq: seq, Kind: EventClose, Mask: full, Last: last, Next: source, NextMask: full,
				Base: st.Cost, Weight: w, Candidate: cand, Previous: bestCost, HadPrevious: bestLast >= 0,
				Memo: view,
			})
			seq++
		}
		if bestLast < 0 || cand < bestCost {
			bestLast, bestCost = last, cand
		}
	}
	if bestLast < 0 {
		return Result{Status: StatusNotFound, N: n, Stats: stats}
	}

	return Result{
		Status: StatusFound,
		N:      n,
		Tour:   reconstruct(t, full, bestLast, source),
		Cost:   round1e9(bestCost),
		Stats:  stats,
	}
}

// reconstruct walks predecessors back from (full, last) to the base state.
// Each step clears one bit, so the walk takes exactly n-1 steps.
func reconstruct(t *memo, full Mask, last, source int) []int {
	var (
		n    = t.n
		tour = make([]int, n+1)
		mask = full
		i    int
	)
	tour[0], tour[n] = source, source
	for i = n - 1; i >= 1; i-- {
		tour[i] = last
		p := int(t.pred[t.index(mask, last)])
		mask &^= bit(last)
		last = p
	}

	return tour
}
