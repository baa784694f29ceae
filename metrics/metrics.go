// Package metrics exposes Prometheus collectors for solver runs.
//
// Collectors are registered on a caller-supplied prometheus.Registerer so
// that tests and embedded uses can keep them off the global registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/heldkarp/tsp"
)

// Collector groups the solver metrics.
type Collector struct {
	solves       *prometheus.CounterVec
	duration     prometheus.Histogram
	cities       prometheus.Histogram
	attempts     prometheus.Counter
	improvements prometheus.Counter
	cacheLookups *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
// A nil reg leaves them unregistered (still usable).
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		// Labels: "found", "not_found", "too_large", "error"
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heldkarp_solves_total",
			Help: "Total solver runs by outcome",
		}, []string{"status"}),

		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "heldkarp_solve_duration_seconds",
			Help:    "Wall time of uncached solver runs",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 10},
		}),

		cities: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "heldkarp_instance_cities",
			Help:    "Number of cities per solved instance",
			Buckets: []float64{2, 4, 6, 8, 10, 12, 14, 16},
		}),

		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heldkarp_relaxations_total",
			Help: "Relaxations evaluated by the Held-Karp sweep",
		}),

		improvements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heldkarp_improvements_total",
			Help: "Relaxations that created or lowered a memo state",
		}),

		// Labels: "hit", "miss", "error"
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heldkarp_cache_lookups_total",
			Help: "Result cache lookups by outcome",
		}, []string{"result"}),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.solves, c.duration, c.cities, c.attempts, c.improvements, c.cacheLookups} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ObserveSolve records one uncached solver run.
func (c *Collector) ObserveSolve(res tsp.Result, elapsed time.Duration) {
	c.solves.WithLabelValues(res.Status.String()).Inc()
	c.duration.Observe(elapsed.Seconds())
	c.cities.Observe(float64(res.N))
	c.attempts.Add(float64(res.Stats.Attempts))
	c.improvements.Add(float64(res.Stats.Improvements))
}

// ObserveError records a run rejected as malformed input.
func (c *Collector) ObserveError() {
	c.solves.WithLabelValues("error").Inc()
}

// ObserveCache records a cache lookup outcome: "hit", "miss" or "error".
func (c *Collector) ObserveCache(result string) {
	c.cacheLookups.WithLabelValues(result).Inc()
}
