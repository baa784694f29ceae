// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/heldkarp/matrix"
	"github.com/stretchr/testify/require"
)

func absentZeroOrInf(w float64) bool { return w == 0 || math.IsInf(w, 1) }

func TestSymmetrize(t *testing.T) {
	inf := math.Inf(1)
	d, err := matrix.NewDenseFrom([][]float64{
		{0, 5, 0, inf},
		{3, 0, 7, 0},
		{2, 0, 0, 0},
		{inf, 0, 0, 0},
	})
	require.NoError(t, err)

	s, err := matrix.Symmetrize(d, absentZeroOrInf)
	require.NoError(t, err)
	require.Equal(t, [][]float64{
		{0, 3, 2, inf}, // 0-1 min(5,3); 0-2 mirrored from 2→0; 0-3 both absent
		{3, 0, 7, 0},   // 1-2 mirrored from 1→2
		{2, 7, 0, 0},
		{inf, 0, 0, 0},
	}, s.RowSlices())

	// input untouched
	v, err := d.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 5.0, v)
}

func TestSymmetrize_KeepsNaN(t *testing.T) {
	nan := math.NaN()
	d, err := matrix.NewDenseFrom([][]float64{
		{0, 1, 2},
		{nan, 0, 3},
		{2, nan, 0},
	})
	require.NoError(t, err)

	s, err := matrix.Symmetrize(d, absentZeroOrInf)
	require.NoError(t, err)
	rows := s.RowSlices()
	require.Equal(t, 1.0, rows[0][1])
	require.True(t, math.IsNaN(rows[1][0]))
	require.Equal(t, 3.0, rows[1][2])
	require.True(t, math.IsNaN(rows[2][1]))
	require.Equal(t, 2.0, rows[2][0])
}

func TestSymmetrize_Errors(t *testing.T) {
	_, err := matrix.Symmetrize(nil, absentZeroOrInf)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	d, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	_, err = matrix.Symmetrize(d, absentZeroOrInf)
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}
