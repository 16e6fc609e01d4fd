package route

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrpcore/localsearch/segment"
	"github.com/vrpcore/localsearch/vrptypes"
)

func smallData(t *testing.T) *vrptypes.ProblemData {
	t.Helper()
	depot := vrptypes.Location{IsDepot: true, TWEarly: 0, TWLate: 1000, GroupIndex: -1}
	client := func(delivery int64) vrptypes.Location {
		return vrptypes.Location{Delivery: []int64{delivery}, Pickup: []int64{0}, TWEarly: 0, TWLate: 1000, Required: true, GroupIndex: -1}
	}
	locations := []vrptypes.Location{depot, client(1), client(2), client(3)}
	rows := [][]int64{
		{0, 1, 2, 3},
		{1, 0, 1, 2},
		{2, 1, 0, 1},
		{3, 2, 1, 0},
	}
	dist, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	dur, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	vt := vrptypes.NewVehicleType(2, []int64{10}, []int64{0}, 0, 0, 0, 1000)
	data, err := vrptypes.NewProblemData(locations, []vrptypes.VehicleType{vt}, nil, []*segment.Matrix{dist}, []*segment.Matrix{dur})
	require.NoError(t, err)
	return data
}

func TestRoute_AppendAndUpdate(t *testing.T) {
	data := smallData(t)
	r, err := New(data, 0, 0)
	require.NoError(t, err)

	require.NoError(t, r.Append(1))
	require.NoError(t, r.Append(2))
	require.NoError(t, r.Append(3))
	require.True(t, r.Dirty())
	require.NoError(t, r.Update())
	require.False(t, r.Dirty())

	dist, err := r.Distance()
	require.NoError(t, err)
	require.Equal(t, int64(1+1+1+3), dist) // depot->1->2->3->depot

	require.Equal(t, []int{1, 2, 3}, r.Visits())
}

func TestRoute_PrefixSuffixInvariant(t *testing.T) {
	data := smallData(t)
	r, err := New(data, 0, 0)
	require.NoError(t, err)
	require.NoError(t, r.Append(1))
	require.NoError(t, r.Append(2))
	require.NoError(t, r.Append(3))
	require.NoError(t, r.Update())

	full, err := r.PrefixDistance(r.NumNodes() - 1)
	require.NoError(t, err)

	for i := 0; i < r.NumNodes(); i++ {
		prefix, err := r.PrefixDistance(i)
		require.NoError(t, err)
		suffix, err := r.SuffixDistance(i)
		require.NoError(t, err)
		if i == r.NumNodes()-1 {
			require.Equal(t, full.Distance, prefix.Distance)
		}
		if i == 0 {
			require.Equal(t, full.Distance, suffix.Distance)
		}
	}
}

func TestRoute_RemoveRestoresEmptyRoute(t *testing.T) {
	data := smallData(t)
	r, err := New(data, 0, 0)
	require.NoError(t, err)
	require.NoError(t, r.Append(1))
	require.NoError(t, r.Update())
	require.False(t, r.IsEmpty())

	require.NoError(t, r.Remove(1))
	require.NoError(t, r.Update())
	require.True(t, r.IsEmpty())
	ok, err := r.IsFeasible()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRoute_CannotRemoveDepot(t *testing.T) {
	data := smallData(t)
	r, err := New(data, 0, 0)
	require.NoError(t, err)
	require.ErrorIs(t, r.Remove(0), errRemoveDepot)
	require.ErrorIs(t, r.Remove(r.NumNodes()-1), errRemoveDepot)
}

func TestRoute_ExcessLoad(t *testing.T) {
	data := smallData(t)
	r, err := New(data, 0, 0)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Append(i+1))
	}
	require.NoError(t, r.Update())
	// demand 1+2+3 = 6 <= capacity 10: no excess
	excess, err := r.ExcessLoad(0)
	require.NoError(t, err)
	require.Equal(t, int64(0), excess)
}
