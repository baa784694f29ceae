// Package tsp_test provides lightweight testing helpers shared across *_test.go
// files in this package.
package tsp_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/heldkarp/matrix"
	"github.com/katalvlaran/heldkarp/tsp"
	"github.com/stretchr/testify/require"
)

const (
	// seedDet is the deterministic seed for random instance generators.
	seedDet = int64(42)

	// epsTiny is the tolerance for cost comparisons between solvers.
	epsTiny = 1e-9
)

// classic4 is the textbook 4-city instance; the optimum is 80.
var classic4 = [][]float64{
	{0, 10, 15, 20},
	{10, 0, 35, 25},
	{15, 35, 0, 30},
	{20, 25, 30, 0},
}

// testDense is a [][]float64-backed matrix.Matrix, independent of matrix.Dense.
type testDense struct{ a [][]float64 }

var _ matrix.Matrix = testDense{}

func (m testDense) Rows() int { return len(m.a) }
func (m testDense) Cols() int {
	if len(m.a) == 0 {
		return 0
	}

	return len(m.a[0])
}
func (m testDense) At(i, j int) (float64, error) {
	if i < 0 || i >= m.Rows() || j < 0 || j >= len(m.a[i]) {
		return 0, matrix.ErrIndexOutOfBounds
	}

	return m.a[i][j], nil
}
func (m testDense) Set(i, j int, v float64) error {
	if i < 0 || i >= m.Rows() || j < 0 || j >= len(m.a[i]) {
		return matrix.ErrIndexOutOfBounds
	}
	m.a[i][j] = v

	return nil
}
func (m testDense) Clone() matrix.Matrix {
	cp := make([][]float64, len(m.a))
	var i int
	for i = range m.a {
		cp[i] = append([]float64(nil), m.a[i]...)
	}

	return testDense{a: cp}
}

// dense builds a *matrix.Dense from rows, failing the test on error.
func dense(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return d
}

// randomRows returns an n×n directed instance with integer weights in
// [1..20]; each off-diagonal edge is kept with probability density, the rest
// are +Inf. Integer weights keep sums exact.
func randomRows(rng *rand.Rand, n int, density float64) [][]float64 {
	a := make([][]float64, n)
	var i, j int
	for i = 0; i < n; i++ {
		a[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			if rng.Float64() < density {
				a[i][j] = float64(1 + rng.Intn(20))
			} else {
				a[i][j] = math.Inf(1)
			}
		}
	}

	return a
}

// ringRows returns a directed ring 0→1→…→n-1→0 of unit weights; every
// other edge is absent, so the ring is the only Hamiltonian cycle.
func ringRows(n int) [][]float64 {
	a := make([][]float64, n)
	var i int
	for i = 0; i < n; i++ {
		a[i] = make([]float64, n)
		a[i][(i+1)%n] = 1
	}

	return a
}

// requireTourShape asserts the Hamiltonian-cycle invariants of res.
func requireTourShape(t *testing.T, res tsp.Result, n, source int) {
	t.Helper()
	require.Equal(t, tsp.StatusFound, res.Status)
	require.NoError(t, tsp.ValidateTour(res.Tour, n, source))
}
