package tsp

import (
	"fmt"
	"math"
	"reflect"
)

const (
	// DefaultMaxCities is the admission ceiling used when WithMaxCities is not
	// given. It keeps 2ⁿ·n² small enough for interactive use.
	DefaultMaxCities = 7

	// HardMaxCities bounds WithMaxCities: masks are uint32 and the memo table
	// for 16 cities already holds 2¹⁶·16 states.
	HardMaxCities = 16

	// BruteForceMaxCities is the ceiling of BruteForce ((n-1)! permutations).
	BruteForceMaxCities = 10
)

// ZeroPolicy decides what an off-diagonal weight of exactly 0 means.
type ZeroPolicy uint8

const (
	// ZeroAsAbsent treats 0 like +Inf: no edge. This is the default and
	// matches distance grids where 0 marks an empty cell.
	ZeroAsAbsent ZeroPolicy = iota
	// ZeroAsEdge treats 0 as a free edge.
	ZeroAsEdge
)

// String returns "absent" or "edge".
func (p ZeroPolicy) String() string {
	if p == ZeroAsEdge {
		return "edge"
	}

	return "absent"
}

// ParseZeroPolicy maps "absent"/"edge" back to a ZeroPolicy.
func ParseZeroPolicy(s string) (ZeroPolicy, error) {
	switch s {
	case "", "absent":
		return ZeroAsAbsent, nil
	case "edge":
		return ZeroAsEdge, nil
	default:
		return ZeroAsAbsent, fmt.Errorf("%w: zero policy %q", ErrInvalidOption, s)
	}
}

// Absent reports whether w encodes "no edge" under p. It does not judge NaN
// or negative values; those are rejected during validation.
func (p ZeroPolicy) Absent(w float64) bool {
	if math.IsInf(w, 1) {
		return true
	}

	return w == 0 && p == ZeroAsAbsent
}

// Option configures Solve, BruteForce and TourCost.
type Option func(*config) error

// config is the resolved option set.
type config struct {
	source    int
	maxCities int
	zero      ZeroPolicy
	tracer    Tracer
}

// newConfig applies opts over the defaults.
func newConfig(opts []Option) (config, error) {
	cfg := config{maxCities: DefaultMaxCities, zero: ZeroAsAbsent}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}

// WithSource fixes the city every tour starts and ends at. Default 0.
// Range is checked against the matrix order at solve time.
func WithSource(city int) Option {
	return func(c *config) error {
		c.source = city
		return nil
	}
}

// WithMaxCities sets the admission ceiling; 1 ≤ k ≤ HardMaxCities.
func WithMaxCities(k int) Option {
	return func(c *config) error {
		if k < 1 || k > HardMaxCities {
			return fmt.Errorf("%w: max cities %d not in [1..%d]", ErrInvalidOption, k, HardMaxCities)
		}
		c.maxCities = k
		return nil
	}
}

// WithZeroPolicy selects the meaning of zero weights.
func WithZeroPolicy(p ZeroPolicy) Option {
	return func(c *config) error {
		if p != ZeroAsAbsent && p != ZeroAsEdge {
			return fmt.Errorf("%w: zero policy %d", ErrInvalidOption, uint8(p))
		}
		c.zero = p
		return nil
	}
}

// WithTracer attaches a relaxation trace sink. A nil tracer, including a
// typed nil such as (*Recorder)(nil) or a nil TracerFunc, disables tracing.
func WithTracer(t Tracer) Option {
	return func(c *config) error {
		if isNilTracer(t) {
			t = nil
		}
		c.tracer = t
		return nil
	}
}

func isNilTracer(t Tracer) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
