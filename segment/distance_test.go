package segment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrpcore/localsearch/segment"
)

func TestMergeDistance(t *testing.T) {
	a := segment.DistanceFromLocation()
	b := segment.DistanceFromLocation()

	merged, err := segment.MergeDistance(7, a, b)
	require.NoError(t, err)
	require.Equal(t, int64(7), merged.Distance)

	merged, err = segment.MergeDistance(3, merged, segment.DistanceFromLocation())
	require.NoError(t, err)
	require.Equal(t, int64(10), merged.Distance)
}

func TestMergeDistance_IdentityIsNeutral(t *testing.T) {
	a := segment.Distance{Distance: 42}
	id := segment.IdentityDistance()

	merged, err := segment.MergeDistance(0, id, a)
	require.NoError(t, err)
	require.Equal(t, a, merged)
}
