// Package runner executes solver runs with result caching and metrics.
//
// Both the CLI and the HTTP server go through a Runner so that cache keys,
// logging and metrics stay identical across surfaces.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/heldkarp/cache"
	"github.com/katalvlaran/heldkarp/instance"
	"github.com/katalvlaran/heldkarp/metrics"
	"github.com/katalvlaran/heldkarp/tsp"
)

// keyPrefix namespaces solver results inside a shared cache.
const keyPrefix = "heldkarp:result:v1"

// Outcome is the result of one Runner.Solve call.
type Outcome struct {
	tsp.Result
	Name     string        `json:"name,omitempty"`
	CacheHit bool          `json:"cache_hit"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Runner is stateless apart from its collaborators and safe for concurrent use.
type Runner struct {
	Cache     cache.Cache
	Metrics   *metrics.Collector // may be nil
	Logger    *log.Logger
	MaxCities int
	TTL       time.Duration
}

// New creates a runner. A nil cache disables caching, a nil logger falls
// back to log.Default() and maxCities <= 0 selects tsp.DefaultMaxCities.
func New(c cache.Cache, m *metrics.Collector, logger *log.Logger, maxCities int) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if maxCities <= 0 {
		maxCities = tsp.DefaultMaxCities
	}

	return &Runner{Cache: c, Metrics: m, Logger: logger, MaxCities: maxCities}
}

// Key returns the cache key of inst under this runner's ceiling.
func (r *Runner) Key(inst *instance.Instance) string {
	return cache.Key(keyPrefix, inst.CanonicalKey("max="+strconv.Itoa(r.MaxCities)))
}

// Solve returns the optimal tour of inst. Status outcomes (not found, too
// large) come back inside Outcome; the error is reserved for malformed
// input and context cancellation. Cache failures are logged, never returned.
func (r *Runner) Solve(ctx context.Context, inst *instance.Instance) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	logger := r.Logger.With("instance", inst.Name, "cities", inst.N())

	key := r.Key(inst)
	if out, ok := r.lookup(ctx, key, logger); ok {
		out.Name = inst.Name
		return out, nil
	}

	start := time.Now()
	res, err := r.run(inst, nil)
	elapsed := time.Since(start)
	if err != nil {
		if r.Metrics != nil {
			r.Metrics.ObserveError()
		}
		return Outcome{}, err
	}
	if r.Metrics != nil {
		r.Metrics.ObserveSolve(res, elapsed)
	}

	logger.Info("solved",
		"status", res.Status,
		"cost", res.Cost,
		"states", res.Stats.States,
		"duration", elapsed)

	r.store(ctx, key, res, logger)

	return Outcome{Result: res, Name: inst.Name, Elapsed: elapsed}, nil
}

// Trace solves inst with tr attached. The cache is bypassed because a cached
// result carries no events.
func (r *Runner) Trace(ctx context.Context, inst *instance.Instance, tr tsp.Tracer) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	start := time.Now()
	res, err := r.run(inst, tr)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Result: res, Name: inst.Name, Elapsed: time.Since(start)}, nil
}

func (r *Runner) run(inst *instance.Instance, tr tsp.Tracer) (tsp.Result, error) {
	m, err := inst.Matrix()
	if err != nil {
		return tsp.Result{}, err
	}
	opts := append(inst.Options(), tsp.WithMaxCities(r.MaxCities))
	if tr != nil {
		opts = append(opts, tsp.WithTracer(tr))
	}
	res, err := tsp.Solve(m, opts...)
	if err != nil {
		return tsp.Result{}, fmt.Errorf("solve %q: %w", inst.Name, err)
	}

	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) (Outcome, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		r.observeCache("error")
		logger.Warn("cache read failed", "err", err)
		return Outcome{}, false
	case !hit:
		r.observeCache("miss")
		return Outcome{}, false
	}

	var res tsp.Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.observeCache("error")
		logger.Warn("discarding corrupt cache entry", "key", key, "err", err)
		if err := r.Cache.Delete(ctx, key); err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug("cache delete failed", "err", err)
		}
		return Outcome{}, false
	}
	r.observeCache("hit")
	logger.Debug("cache hit", "key", key)

	return Outcome{Result: res, CacheHit: true}, true
}

func (r *Runner) store(ctx context.Context, key string, res tsp.Result, logger *log.Logger) {
	data, err := json.Marshal(res)
	if err != nil {
		logger.Warn("encode result", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		logger.Warn("cache write failed", "err", err)
	}
}

func (r *Runner) observeCache(result string) {
	if r.Metrics != nil {
		r.Metrics.ObserveCache(result)
	}
}
