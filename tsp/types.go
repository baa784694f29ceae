package tsp

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is; cell-level failures are
// wrapped with the offending coordinates.
var (
	// ErrNilMatrix is returned when the distance matrix is nil.
	ErrNilMatrix = errors.New("tsp: nil distance matrix")

	// ErrNonSquare is returned when the distance matrix is not n×n.
	ErrNonSquare = errors.New("tsp: distance matrix is not square")

	// ErrEmptyMatrix is returned for a 0×0 distance matrix.
	ErrEmptyMatrix = errors.New("tsp: empty distance matrix")

	// ErrSourceOutOfRange is returned when the source city is not in [0..n-1].
	ErrSourceOutOfRange = errors.New("tsp: source city out of range")

	// ErrNegativeWeight is returned for an off-diagonal weight below zero.
	ErrNegativeWeight = errors.New("tsp: negative edge weight")

	// ErrNaNWeight is returned for an off-diagonal NaN weight.
	ErrNaNWeight = errors.New("tsp: NaN edge weight")

	// ErrInvalidOption is returned when an Option carries an unusable value.
	ErrInvalidOption = errors.New("tsp: invalid option")

	// ErrInvalidTour is returned by ValidateTour and TourCost for malformed tours.
	ErrInvalidTour = errors.New("tsp: invalid tour")

	// ErrMissingEdge is returned by TourCost when a tour step has no edge.
	ErrMissingEdge = errors.New("tsp: tour uses a missing edge")

	// ErrNoTour is what Result.Err reports for StatusNotFound.
	ErrNoTour = errors.New("tsp: no Hamiltonian cycle through source")

	// ErrTooLarge is what Result.Err reports for StatusTooLarge.
	ErrTooLarge = errors.New("tsp: instance exceeds size ceiling")
)

// Status tags the outcome of a solve.
type Status uint8

const (
	// StatusFound means Tour and Cost hold an optimal cycle.
	StatusFound Status = iota
	// StatusNotFound means no Hamiltonian cycle through the source exists.
	StatusNotFound
	// StatusTooLarge means the instance was rejected by the size ceiling.
	StatusTooLarge
)

var statusNames = [...]string{
	StatusFound:    "found",
	StatusNotFound: "not_found",
	StatusTooLarge: "too_large",
}

// String returns the wire name of s.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}

	return fmt.Sprintf("status(%d)", uint8(s))
}

// MarshalText encodes s by its wire name.
func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, fmt.Errorf("tsp: unknown status %d", uint8(s))
	}

	return []byte(statusNames[s]), nil
}

// UnmarshalText decodes a wire name produced by MarshalText.
func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*s = Status(i)
			return nil
		}
	}

	return fmt.Errorf("tsp: unknown status %q", b)
}

// Stats counts the work done by the relaxation sweep. All fields are zero
// when the sweep did not run (TooLarge, n == 1).
type Stats struct {
	// Masks is the number of subsets containing the source that were swept.
	Masks int `json:"masks"`
	// Attempts is the number of relaxations evaluated (one per existing edge
	// last→next with next outside the mask, from a reached state).
	Attempts int `json:"attempts"`
	// Improvements is the number of attempts that created or lowered a state.
	Improvements int `json:"improvements"`
	// States is the number of distinct (mask, last) states reached.
	States int `json:"states"`
}

// Result is the outcome of Solve or BruteForce.
type Result struct {
	// Status tags which of the fields below are meaningful.
	Status Status `json:"status"`

	// N is the number of cities of the instance.
	N int `json:"n"`

	// Tour is the optimal cycle, starting and ending at the source.
	// For n cities, len(Tour) == n+1 and Tour[0] == Tour[n] == source.
	// Nil unless Status == StatusFound.
	Tour []int `json:"tour,omitempty"`

	// Cost is the total weight of Tour, rounded to 1e-9.
	Cost float64 `json:"cost"`

	// Stats describes the sweep.
	Stats Stats `json:"stats"`
}

// Found reports whether r carries a tour.
func (r Result) Found() bool { return r.Status == StatusFound }

// Err maps non-success statuses onto ErrNoTour / ErrTooLarge for callers
// that prefer error flow. It returns nil for StatusFound.
func (r Result) Err() error {
	switch r.Status {
	case StatusFound:
		return nil
	case StatusNotFound:
		return ErrNoTour
	case StatusTooLarge:
		return fmt.Errorf("%w: %d cities", ErrTooLarge, r.N)
	default:
		return fmt.Errorf("tsp: unknown status %d", uint8(r.Status))
	}
}
