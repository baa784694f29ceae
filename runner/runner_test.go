package runner_test

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/heldkarp/cache"
	"github.com/katalvlaran/heldkarp/instance"
	"github.com/katalvlaran/heldkarp/metrics"
	"github.com/katalvlaran/heldkarp/runner"
	"github.com/katalvlaran/heldkarp/tsp"
)

func classic4() *instance.Instance {
	return &instance.Instance{
		Name: "classic4",
		Weights: [][]float64{
			{0, 10, 15, 20},
			{10, 0, 35, 25},
			{15, 35, 0, 30},
			{20, 25, 30, 0},
		},
	}
}

func newRunner(t *testing.T, maxCities int) (*runner.Runner, *prometheus.Registry) {
	t.Helper()
	c, err := cache.OpenBadger(cache.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	return runner.New(c, m, log.New(io.Discard), maxCities), reg
}

func counter(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}

	return 0
}

func TestRunner_SolveCachesResult(t *testing.T) {
	r, reg := newRunner(t, 0)
	ctx := context.Background()

	first, err := r.Solve(ctx, classic4())
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, tsp.StatusFound, first.Status)
	assert.Equal(t, []int{0, 2, 3, 1, 0}, first.Tour)
	assert.InDelta(t, 80.0, first.Cost, 1e-9)
	assert.Equal(t, "classic4", first.Name)

	second, err := r.Solve(ctx, classic4())
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Result, second.Result)

	assert.Equal(t, 1.0, counter(t, reg, "heldkarp_cache_lookups_total", "hit"))
	assert.Equal(t, 1.0, counter(t, reg, "heldkarp_cache_lookups_total", "miss"))
	assert.Equal(t, 1.0, counter(t, reg, "heldkarp_solves_total", "found"))
}

func TestRunner_KeyDependsOnCeilingNotName(t *testing.T) {
	r7, _ := newRunner(t, 7)
	r9, _ := newRunner(t, 9)

	a, b := classic4(), classic4()
	b.Name = "renamed"
	b.Labels = []string{"w", "x", "y", "z"}
	assert.Equal(t, r7.Key(a), r7.Key(b))
	assert.NotEqual(t, r7.Key(a), r9.Key(a))

	b.Source = 1
	assert.NotEqual(t, r7.Key(a), r7.Key(b))
}

func TestRunner_StatusOutcomes(t *testing.T) {
	r, reg := newRunner(t, 3)
	ctx := context.Background()

	out, err := r.Solve(ctx, classic4())
	require.NoError(t, err)
	assert.Equal(t, tsp.StatusTooLarge, out.Status)
	assert.ErrorIs(t, out.Err(), tsp.ErrTooLarge)

	inf := math.Inf(1)
	isolated := &instance.Instance{Name: "isolated", Weights: [][]float64{
		{0, 1, inf},
		{1, 0, inf},
		{inf, inf, 0},
	}}
	out, err = r.Solve(ctx, isolated)
	require.NoError(t, err)
	assert.Equal(t, tsp.StatusNotFound, out.Status)
	assert.Nil(t, out.Tour)

	assert.Equal(t, 1.0, counter(t, reg, "heldkarp_solves_total", "too_large"))
	assert.Equal(t, 1.0, counter(t, reg, "heldkarp_solves_total", "not_found"))
}

func TestRunner_MalformedInput(t *testing.T) {
	r, reg := newRunner(t, 0)

	bad := classic4()
	bad.Weights[1][2] = -1
	_, err := r.Solve(context.Background(), bad)
	require.ErrorIs(t, err, tsp.ErrNegativeWeight)
	assert.Equal(t, 1.0, counter(t, reg, "heldkarp_solves_total", "error"))

	n, err := testutil.GatherAndCount(reg, "heldkarp_solves_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunner_CorruptEntryIsRecomputed(t *testing.T) {
	c, err := cache.OpenBadger(cache.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer c.Close()
	r := runner.New(c, nil, log.New(io.Discard), 0)
	ctx := context.Background()

	inst := classic4()
	require.NoError(t, c.Set(ctx, r.Key(inst), []byte("{not json"), time.Minute))

	out, err := r.Solve(ctx, inst)
	require.NoError(t, err)
	assert.False(t, out.CacheHit)
	assert.Equal(t, tsp.StatusFound, out.Status)

	out, err = r.Solve(ctx, inst)
	require.NoError(t, err)
	assert.True(t, out.CacheHit)
}

func TestRunner_TraceBypassesCache(t *testing.T) {
	r, reg := newRunner(t, 0)
	ctx := context.Background()

	_, err := r.Solve(ctx, classic4())
	require.NoError(t, err)

	rec := &tsp.Recorder{}
	out, err := r.Trace(ctx, classic4(), rec)
	require.NoError(t, err)
	assert.False(t, out.CacheHit)
	assert.Equal(t, out.Stats.Attempts, rec.Count(tsp.EventAttempt))
	assert.Equal(t, out.Stats.Improvements, rec.Count(tsp.EventImprove))
	assert.Equal(t, 1.0, counter(t, reg, "heldkarp_cache_lookups_total", "miss"))
}

func TestRunner_CanceledContext(t *testing.T) {
	r := runner.New(nil, nil, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Solve(ctx, classic4())
	require.ErrorIs(t, err, context.Canceled)
	_, err = r.Trace(ctx, classic4(), tsp.NopTracer{})
	require.ErrorIs(t, err, context.Canceled)
}
