package segment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrpcore/localsearch/segment"
)

func TestMergeDuration_TwoSegments(t *testing.T) {
	a := segment.DurationFromLocation(0, 5, 0, 5, 0)
	b := segment.DurationFromLocation(1, 0, 3, 6, 0)

	// Earliest arrival at b is 0+5+4 = 9, three past b's closing time 6,
	// so the merge incurs a warp of 3 and the combined start window
	// collapses to [0, 0].
	merged, err := segment.MergeDuration(4, a, b)
	require.NoError(t, err)
	require.Equal(t, int64(3), merged.TotalTimeWarp())
	require.Equal(t, int64(0), merged.TWEarly)
	require.Equal(t, int64(0), merged.TWLate)
	require.Equal(t, 0, merged.First)
	require.Equal(t, 1, merged.Last)

	// A release time of 3 against the collapsed latest start 0 adds three
	// more units of unrecoverable warp.
	b.Release = 3
	merged, err = segment.MergeDuration(4, a, b)
	require.NoError(t, err)
	require.Equal(t, int64(6), merged.TotalTimeWarp())
}

func TestMergeDuration_IdentityIsNeutral(t *testing.T) {
	a := segment.DurationFromLocation(0, 5, 0, 5, 0)
	id := segment.IdentityDuration()

	left, err := segment.MergeDuration(0, id, a)
	require.NoError(t, err)
	require.Equal(t, a, left)

	right, err := segment.MergeDuration(0, a, id)
	require.NoError(t, err)
	require.Equal(t, a, right)
}

func TestMergeDuration_ThreeSegmentsAssociative(t *testing.T) {
	a := segment.DurationFromLocation(0, 5, 0, 5, 0)
	b := segment.DurationFromLocation(1, 0, 3, 6, 0)
	c := segment.DurationFromLocation(2, 0, 2, 3, 2)

	ab, err := segment.MergeDuration(4, a, b)
	require.NoError(t, err)
	abc1, err := segment.MergeDuration(4, ab, c)
	require.NoError(t, err)

	bc, err := segment.MergeDuration(4, b, c)
	require.NoError(t, err)
	abc2, err := segment.MergeDuration(4, a, bc)
	require.NoError(t, err)

	require.Equal(t, abc1.TotalTimeWarp(), abc2.TotalTimeWarp())
	require.Equal(t, int64(12), abc1.TotalTimeWarp())
}

func TestMergeDuration_NegativeTravelRejected(t *testing.T) {
	a := segment.DurationFromLocation(0, 5, 0, 5, 0)
	b := segment.DurationFromLocation(1, 0, 3, 6, 0)

	_, err := segment.MergeDuration(-1, a, b)
	require.Error(t, err)
}
