// Package tsp provides an exact Travelling Salesman solver.
//
// Solve implements the Held–Karp dynamic program over visited-city subsets
// encoded as bitmasks:
//
//   - Complexity: O(n²·2ⁿ)
//   - Memory:     O(n·2ⁿ), sized upfront in flat arrays indexed mask*n+last.
//   - Exact: the returned tour has minimum cost among all Hamiltonian cycles
//     through the source city.
//
// Because the state space is exponential, Solve admits only instances with at
// most MaxCities cities (DefaultMaxCities unless WithMaxCities says otherwise).
// Larger inputs are rejected before any work with Status == StatusTooLarge.
//
// Outcomes are data, not errors:
//
//   - StatusFound:    Tour (len n+1, starts and ends at the source) and Cost.
//   - StatusNotFound: the graph has no Hamiltonian cycle through the source.
//   - StatusTooLarge: n exceeds the admitted ceiling.
//
// Malformed input (nil/non-square matrix, out-of-range source, NaN or negative
// weights) is reported through the sentinel errors in types.go.
//
// Edges: +Inf always means "no edge". A weight of exactly 0 means "no edge"
// under the default ZeroAsAbsent policy; pass WithZeroPolicy(ZeroAsEdge) to
// treat it as a free edge instead. Self-loops are ignored.
//
// A Tracer passed through WithTracer receives every relaxation attempt and
// state improvement in evaluation order, which is what step-by-step
// visualizers replay. Tracing never changes the result.
//
// BruteForce enumerates permutations and serves as a reference oracle for
// small instances.
package tsp
