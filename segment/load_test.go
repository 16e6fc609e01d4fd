package segment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrpcore/localsearch/segment"
)

func TestMergeLoad_TwoClients(t *testing.T) {
	// Client a: delivers 3, picks up 1. Client b: delivers 2, picks up 4.
	a := segment.LoadFromLocation(3, 1)
	b := segment.LoadFromLocation(2, 4)

	merged, err := segment.MergeLoad(a, b)
	require.NoError(t, err)
	require.Equal(t, int64(5), merged.Delivery)
	require.Equal(t, int64(5), merged.Pickup)
	// load = max(a.Current + b.Delivery, b.Current + a.Pickup)
	//      = max(3 + 2, 4 + 1) = max(5, 5) = 5
	require.Equal(t, int64(5), merged.Current)
}

func TestMergeLoad_IdentityIsNeutral(t *testing.T) {
	a := segment.LoadFromLocation(3, 1)
	id := segment.IdentityLoad()

	left, err := segment.MergeLoad(id, a)
	require.NoError(t, err)
	require.Equal(t, a, left)

	right, err := segment.MergeLoad(a, id)
	require.NoError(t, err)
	require.Equal(t, a, right)
}
