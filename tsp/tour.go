package tsp

import "fmt"

// ValidateTour enforces the Hamiltonian-cycle shape:
//
//	len(tour) == n+1, tour[0] == tour[n] == source,
//	each city of [0..n-1] appears exactly once in positions [0..n-1].
//
// For n == 1 the only valid tour is [source, source].
//
// Errors: ErrInvalidTour (wrapped with the reason), ErrSourceOutOfRange.
// Complexity: O(n) time, O(n) space.
func ValidateTour(tour []int, n, source int) error {
	if n <= 0 {
		return fmt.Errorf("%w: n=%d", ErrInvalidTour, n)
	}
	if err := validateSource(n, source); err != nil {
		return err
	}
	if len(tour) != n+1 {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidTour, len(tour), n+1)
	}
	if tour[0] != source || tour[n] != source {
		return fmt.Errorf("%w: endpoints %d…%d, want %d", ErrInvalidTour, tour[0], tour[n], source)
	}

	seen := make([]bool, n)
	var (
		i int
		v int
	)
	for i = 0; i < n; i++ {
		v = tour[i]
		if v < 0 || v >= n {
			return fmt.Errorf("%w: city %d out of range at position %d", ErrInvalidTour, v, i)
		}
		if seen[v] {
			return fmt.Errorf("%w: city %d repeated at position %d", ErrInvalidTour, v, i)
		}
		seen[v] = true
	}

	return nil
}
