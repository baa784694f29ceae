package tsp_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/heldkarp/matrix"
	"github.com/katalvlaran/heldkarp/tsp"
	"github.com/stretchr/testify/require"
)

func TestSolve_Classic4(t *testing.T) {
	res, err := tsp.Solve(dense(t, classic4))
	require.NoError(t, err)
	requireTourShape(t, res, 4, 0)
	require.Equal(t, 80.0, res.Cost)
	// 0→2→3→1→0 is the reverse of 0→1→3→2→0; scan order picks last=1 first.
	require.Equal(t, []int{0, 2, 3, 1, 0}, res.Tour)
	require.NoError(t, res.Err())
	require.True(t, res.Found())
}

func TestSolve_CostMatchesTourCost(t *testing.T) {
	d := dense(t, classic4)
	res, err := tsp.Solve(d)
	require.NoError(t, err)

	c, err := tsp.TourCost(d, res.Tour)
	require.NoError(t, err)
	require.Equal(t, res.Cost, c)
}

func TestSolve_DisconnectedCity(t *testing.T) {
	rows := [][]float64{
		{0, 10, 0, 20},
		{10, 0, 0, 25},
		{0, 0, 0, 0},
		{20, 25, 0, 0},
	}
	res, err := tsp.Solve(dense(t, rows))
	require.NoError(t, err)
	require.Equal(t, tsp.StatusNotFound, res.Status)
	require.Nil(t, res.Tour)
	require.ErrorIs(t, res.Err(), tsp.ErrNoTour)
}

func TestSolve_NoClosingEdge(t *testing.T) {
	// 0→1→2 exists but nothing returns to 0.
	inf := math.Inf(1)
	rows := [][]float64{
		{0, 1, inf},
		{inf, 0, 1},
		{inf, inf, 0},
	}
	res, err := tsp.Solve(testDense{a: rows})
	require.NoError(t, err)
	require.Equal(t, tsp.StatusNotFound, res.Status)
	require.Positive(t, res.Stats.Attempts)
}

func TestSolve_SingleCity(t *testing.T) {
	res, err := tsp.Solve(dense(t, [][]float64{{0}}))
	require.NoError(t, err)
	require.Equal(t, tsp.StatusFound, res.Status)
	require.Equal(t, []int{0, 0}, res.Tour)
	require.Equal(t, 0.0, res.Cost)
	require.Zero(t, res.Stats)
}

func TestSolve_TwoCities(t *testing.T) {
	res, err := tsp.Solve(dense(t, [][]float64{{0, 3}, {4, 0}}))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 0}, res.Tour)
	require.Equal(t, 7.0, res.Cost)
}

func TestSolve_DirectedRing(t *testing.T) {
	const n = 6
	res, err := tsp.Solve(dense(t, ringRows(n)))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 0}, res.Tour)
	require.Equal(t, float64(n), res.Cost)

	// the transposed ring runs the other way round
	rev := ringRows(n)
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			rev[i][j] = ringRows(n)[j][i]
		}
	}
	res, err = tsp.Solve(dense(t, rev))
	require.NoError(t, err)
	require.Equal(t, []int{0, 5, 4, 3, 2, 1, 0}, res.Tour)
}

func TestSolve_Source(t *testing.T) {
	d := dense(t, classic4)
	for s := 0; s < 4; s++ {
		res, err := tsp.Solve(d, tsp.WithSource(s))
		require.NoError(t, err)
		requireTourShape(t, res, 4, s)
		require.Equal(t, 80.0, res.Cost)
	}
}

func TestSolve_SizeGuard(t *testing.T) {
	rows := randomRows(rand.New(rand.NewSource(seedDet)), tsp.DefaultMaxCities+1, 1)
	calls := 0
	res, err := tsp.Solve(dense(t, rows), tsp.WithTracer(tsp.TracerFunc(func(tsp.Event) { calls++ })))
	require.NoError(t, err)
	require.Equal(t, tsp.StatusTooLarge, res.Status)
	require.Equal(t, tsp.DefaultMaxCities+1, res.N)
	require.Zero(t, res.Stats)
	require.Zero(t, calls, "sweep must not run")
	require.ErrorIs(t, res.Err(), tsp.ErrTooLarge)

	// raising the ceiling admits the same instance
	res, err = tsp.Solve(dense(t, rows), tsp.WithMaxCities(tsp.DefaultMaxCities+1))
	require.NoError(t, err)
	require.Equal(t, tsp.StatusFound, res.Status)
	require.Positive(t, res.Stats.Masks)
}

func TestSolve_SizeGuardBeforeValueScan(t *testing.T) {
	// NaN would be malformed, but the ceiling answers first.
	rows := randomRows(rand.New(rand.NewSource(seedDet)), 3, 1)
	rows[0][1] = math.NaN()
	res, err := tsp.Solve(dense(t, rows), tsp.WithMaxCities(2))
	require.NoError(t, err)
	require.Equal(t, tsp.StatusTooLarge, res.Status)
}

func TestSolve_ZeroPolicy(t *testing.T) {
	rows := [][]float64{
		{0, 0, 5},
		{5, 0, 0},
		{0, 5, 0},
	}
	res, err := tsp.Solve(dense(t, rows))
	require.NoError(t, err)
	require.Equal(t, tsp.StatusFound, res.Status)
	require.Equal(t, []int{0, 2, 1, 0}, res.Tour)
	require.Equal(t, 15.0, res.Cost)

	res, err = tsp.Solve(dense(t, rows), tsp.WithZeroPolicy(tsp.ZeroAsEdge))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 0}, res.Tour)
	require.Equal(t, 0.0, res.Cost)
}

func TestSolve_SelfLoopsIgnored(t *testing.T) {
	rows := [][]float64{
		{math.NaN(), 1, 1},
		{1, -4, 1},
		{1, 1, math.Inf(1)},
	}
	res, err := tsp.Solve(dense(t, rows))
	require.NoError(t, err)
	require.Equal(t, 3.0, res.Cost)
}

func TestSolve_MalformedInput(t *testing.T) {
	_, err := tsp.Solve(nil)
	require.ErrorIs(t, err, tsp.ErrNilMatrix)

	nonSq, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	_, err = tsp.Solve(nonSq)
	require.ErrorIs(t, err, tsp.ErrNonSquare)

	_, err = tsp.Solve(testDense{})
	require.ErrorIs(t, err, tsp.ErrEmptyMatrix)

	_, err = tsp.Solve(dense(t, classic4), tsp.WithSource(4))
	require.ErrorIs(t, err, tsp.ErrSourceOutOfRange)
	_, err = tsp.Solve(dense(t, classic4), tsp.WithSource(-1))
	require.ErrorIs(t, err, tsp.ErrSourceOutOfRange)

	neg := testDense{a: [][]float64{{0, -1}, {1, 0}}}
	_, err = tsp.Solve(neg)
	require.ErrorIs(t, err, tsp.ErrNegativeWeight)

	nan := testDense{a: [][]float64{{0, 1}, {math.NaN(), 0}}}
	_, err = tsp.Solve(nan)
	require.ErrorIs(t, err, tsp.ErrNaNWeight)

	_, err = tsp.Solve(dense(t, classic4), tsp.WithMaxCities(0))
	require.ErrorIs(t, err, tsp.ErrInvalidOption)
	_, err = tsp.Solve(dense(t, classic4), tsp.WithMaxCities(tsp.HardMaxCities+1))
	require.ErrorIs(t, err, tsp.ErrInvalidOption)
	_, err = tsp.Solve(dense(t, classic4), tsp.WithZeroPolicy(tsp.ZeroPolicy(9)))
	require.ErrorIs(t, err, tsp.ErrInvalidOption)
}

func TestSolve_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(seedDet))
	for k := 0; k < 20; k++ {
		d := dense(t, randomRows(rng, 7, 0.7))
		a, err := tsp.Solve(d)
		require.NoError(t, err)
		b, err := tsp.Solve(d)
		require.NoError(t, err)
		require.Equal(t, a, b)
	}
}

func TestSolve_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(seedDet))
	densities := []float64{1, 0.8, 0.5, 0.35}
	var found, missing int
	for n := 2; n <= 8; n++ {
		for _, p := range densities {
			for k := 0; k < 6; k++ {
				d := dense(t, randomRows(rng, n, p))
				source := rng.Intn(n)

				hk, err := tsp.Solve(d, tsp.WithMaxCities(8), tsp.WithSource(source))
				require.NoError(t, err)
				bf, err := tsp.BruteForce(d, tsp.WithSource(source))
				require.NoError(t, err)

				require.Equal(t, bf.Status, hk.Status, "n=%d p=%.2f", n, p)
				if bf.Status != tsp.StatusFound {
					missing++
					continue
				}
				found++
				requireTourShape(t, hk, n, source)
				require.InDelta(t, bf.Cost, hk.Cost, epsTiny, "n=%d p=%.2f", n, p)

				c, err := tsp.TourCost(d, hk.Tour, tsp.WithSource(source))
				require.NoError(t, err)
				require.InDelta(t, hk.Cost, c, epsTiny)
			}
		}
	}
	// the generator must exercise both outcomes
	require.Positive(t, found)
	require.Positive(t, missing)
}

func TestSolve_SymmetrizedInput(t *testing.T) {
	inf := math.Inf(1)
	one := dense(t, [][]float64{
		{0, 2, inf, inf},
		{inf, 0, 3, inf},
		{inf, inf, 0, 4},
		{5, inf, inf, 0},
	})
	sym, err := matrix.Symmetrize(one, tsp.ZeroAsAbsent.Absent)
	require.NoError(t, err)

	res, err := tsp.Solve(sym)
	require.NoError(t, err)
	require.Equal(t, 14.0, res.Cost)
	require.Equal(t, []int{0, 3, 2, 1, 0}, res.Tour)
}
