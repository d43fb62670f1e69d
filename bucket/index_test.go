// SPDX-License-Identifier: MIT
package bucket_test

import (
	"testing"

	"github.com/katalvlaran/rollrate/bucket"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	in := []int{60, 0, 30}
	idx, err := bucket.New(in)
	require.NoError(t, err)
	require.Equal(t, []int{0, 30, 60}, idx.Labels())
	require.Equal(t, []int{60, 0, 30}, in, "input must not be mutated")
	require.Equal(t, 3, idx.Len())
	require.Equal(t, 30, idx.Label(1))

	_, err = bucket.New(nil)
	require.ErrorIs(t, err, bucket.ErrEmpty)

	_, err = bucket.New([]int{0, 30, 30})
	require.ErrorIs(t, err, bucket.ErrDuplicate)
}

func TestLocate(t *testing.T) {
	idx, err := bucket.New([]int{0, 15, 30, 60, 90})
	require.NoError(t, err)

	tests := []struct {
		v, want int
	}{
		{0, 0},
		{14, 0},
		{15, 1},
		{29, 1},
		{30, 2},
		{59, 2},
		{60, 3},
		{90, 4},
		{999, 4},
	}
	for _, tc := range tests {
		got, err := idx.Locate(tc.v)
		require.NoError(t, err)
		require.Equalf(t, tc.want, got, "Locate(%d)", tc.v)
	}

	_, err = idx.Locate(-1)
	require.ErrorIs(t, err, bucket.ErrOutOfRange)
}

func TestLabelsIsCopy(t *testing.T) {
	idx, err := bucket.New([]int{0, 30})
	require.NoError(t, err)

	l := idx.Labels()
	l[0] = 7
	require.Equal(t, 0, idx.Label(0))
}
