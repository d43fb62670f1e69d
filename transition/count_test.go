// SPDX-License-Identifier: MIT
package transition_test

import (
	"testing"

	"github.com/katalvlaran/rollrate/bucket"
	"github.com/katalvlaran/rollrate/matrix"
	"github.com/katalvlaran/rollrate/panel"
	"github.com/katalvlaran/rollrate/transition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustIndex(t *testing.T, thresholds ...int) *bucket.Index {
	t.Helper()
	idx, err := bucket.New(thresholds)
	require.NoError(t, err)
	return idx
}

// pairs of the reference panel: A 0→30→30, B 0→0→60.
var refPairs = []panel.Pair{
	{Entity: "A", From: 0, To: 30, Group: "retail"},
	{Entity: "A", From: 30, To: 30, Group: "retail"},
	{Entity: "B", From: 0, To: 0, Group: "sme"},
	{Entity: "B", From: 0, To: 60, Group: "sme"},
}

func TestCountGlobal(t *testing.T) {
	m, err := transition.Count(refPairs, mustIndex(t, 0, 30, 60))
	require.NoError(t, err)

	require.Equal(t, [][]float64{
		{1, 1, 1},
		{0, 1, 0},
		{0, 0, 0},
	}, m.ToRows())
	require.Equal(t, float64(len(refPairs)), m.Total())
}

func TestCountLocatesIntoIntervals(t *testing.T) {
	pairs := []panel.Pair{{From: 5, To: 45}, {From: 29, To: 120}}

	m, err := transition.Count(pairs, mustIndex(t, 0, 30, 60))
	require.NoError(t, err)
	require.Equal(t, [][]float64{
		{0, 1, 1},
		{0, 0, 0},
		{0, 0, 0},
	}, m.ToRows())
}

func TestCountRejectsValuesBelowFirstThreshold(t *testing.T) {
	_, err := transition.Count([]panel.Pair{{Entity: "X", From: -1, To: 0}}, mustIndex(t, 0, 30))
	require.ErrorIs(t, err, bucket.ErrOutOfRange)
	require.Contains(t, err.Error(), `"X"`)
}

func TestCountByGroup(t *testing.T) {
	byGroup, err := transition.CountByGroup(refPairs, mustIndex(t, 0, 30, 60))
	require.NoError(t, err)

	require.Equal(t, []string{"retail", "sme"}, byGroup.Keys())

	retail, ok := byGroup.Get("retail")
	require.True(t, ok)
	assert.Equal(t, [][]float64{{0, 1, 0}, {0, 1, 0}, {0, 0, 0}}, retail.ToRows())

	sme, ok := byGroup.Get("sme")
	require.True(t, ok)
	assert.Equal(t, [][]float64{{1, 0, 1}, {0, 0, 0}, {0, 0, 0}}, sme.ToRows())

	_, ok = byGroup.Get("corporate")
	assert.False(t, ok)
}

func TestCountByStageKeepsFullShape(t *testing.T) {
	pairs := append([]panel.Pair{{From: 45, To: 60}}, refPairs...)

	byStage, err := transition.CountByStage(pairs, mustIndex(t, 0, 30, 60))
	require.NoError(t, err)

	// Raw origin values are the keys, sorted, even when two share a bucket.
	require.Equal(t, []int{0, 30, 45}, byStage.Keys())

	var seen []int
	err = byStage.Each(func(k int, m *matrix.Dense) error {
		seen = append(seen, k)
		r, c := m.Shape()
		assert.Equal(t, 3, r)
		assert.Equal(t, 3, c)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, byStage.Keys(), seen)

	s45, _ := byStage.Get(45)
	assert.Equal(t, [][]float64{{0, 0, 0}, {0, 0, 1}, {0, 0, 0}}, s45.ToRows())
}

func TestCountEmptyPairs(t *testing.T) {
	m, err := transition.Count(nil, mustIndex(t, 0, 30))
	require.NoError(t, err)
	require.Zero(t, m.Total())

	byStage, err := transition.CountByStage(nil, mustIndex(t, 0, 30))
	require.NoError(t, err)
	require.Zero(t, byStage.Len())
}
