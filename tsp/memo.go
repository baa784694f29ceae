package tsp

import (
	"math/bits"
	"strconv"
	"strings"
)

// Mask is a visited-city subset: bit i set ⇔ city i visited.
type Mask uint32

// bit returns the singleton mask {city}.
func bit(city int) Mask { return Mask(1) << uint(city) }

// fullMask returns the mask with all n cities set.
func fullMask(n int) Mask { return Mask(1)<<uint(n) - 1 }

// Has reports whether city is in m.
func (m Mask) Has(city int) bool { return m&bit(city) != 0 }

// Len returns the number of cities in m.
func (m Mask) Len() int { return bits.OnesCount32(uint32(m)) }

// Cities lists the members of m in ascending order.
func (m Mask) Cities() []int {
	out := make([]int, 0, m.Len())
	for x := uint32(m); x != 0; x &= x - 1 {
		out = append(out, bits.TrailingZeros32(x))
	}

	return out
}

// Format renders m as n binary digits, city n-1 first (e.g. 0b1011 for n=4
// and cities {0,1,3} reads "1011").
func (m Mask) Format(n int) string {
	s := strconv.FormatUint(uint64(m), 2)
	if len(s) < n {
		s = strings.Repeat("0", n-len(s)) + s
	}

	return s
}

// noPred marks the base state, which has no predecessor.
const noPred = -1

// State is one memo entry: the cheapest known path from the source that
// visits exactly Mask and ends at Last, and the city before Last on it.
type State struct {
	Mask Mask    `json:"mask"`
	Last int     `json:"last"`
	Cost float64 `json:"cost"`
	// Pred is -1 for the base state.
	Pred int `json:"pred"`
}

// memo is the Held–Karp table: flat arrays over (mask, last) with index
// mask*n+last, allocated once for the admitted n.
type memo struct {
	n       int
	cost    []float64
	pred    []int8
	reached []bool
	states  int
}

// newMemo allocates the table for n cities. Complexity: O(n·2ⁿ).
func newMemo(n int) *memo {
	size := (1 << uint(n)) * n
	return &memo{
		n:       n,
		cost:    make([]float64, size),
		pred:    make([]int8, size),
		reached: make([]bool, size),
	}
}

// index maps (mask, last) onto the flat arrays.
func (t *memo) index(mask Mask, last int) int { return int(mask)*t.n + last }

// at returns the state (mask, last) if one exists.
func (t *memo) at(mask Mask, last int) (State, bool) {
	idx := t.index(mask, last)
	if !t.reached[idx] {
		return State{}, false
	}

	return State{Mask: mask, Last: last, Cost: t.cost[idx], Pred: int(t.pred[idx])}, true
}

// put creates or overwrites (mask, last).
func (t *memo) put(mask Mask, last int, cost float64, pred int) {
	idx := t.index(mask, last)
	if !t.reached[idx] {
		t.reached[idx] = true
		t.states++
	}
	t.cost[idx] = cost
	t.pred[idx] = int8(pred)
}

// MemoView is a read-only window onto the live memo table of a running
// solve. It reflects the table at the moment it is read: a Tracer that needs
// an immutable copy must call Snapshot inside Trace.
type MemoView struct {
	t *memo
}

// N returns the number of cities.
func (v *MemoView) N() int { return v.t.n }

// Len returns the number of states reached so far.
func (v *MemoView) Len() int { return v.t.states }

// At returns the state (mask, last) if it exists. Out-of-range arguments
// report false.
func (v *MemoView) At(mask Mask, last int) (State, bool) {
	if last < 0 || last >= v.t.n || mask > fullMask(v.t.n) {
		return State{}, false
	}

	return v.t.at(mask, last)
}

// Snapshot copies every reached state, ordered by mask then last.
//
// Complexity: O(n·2ⁿ).
func (v *MemoView) Snapshot() []State {
	var (
		out  = make([]State, 0, v.t.states)
		full = fullMask(v.t.n)
		mask Mask
		last int
	)
	for mask = 0; mask <= full; mask++ {
		for last = 0; last < v.t.n; last++ {
			if st, ok := v.t.at(mask, last); ok {
				out = append(out, st)
			}
		}
	}

	return out
}
