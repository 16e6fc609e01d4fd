package neighbourhood_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrpcore/localsearch/neighbourhood"
	"github.com/vrpcore/localsearch/segment"
	"github.com/vrpcore/localsearch/vrptypes"
)

// buildLineProblem places a depot at 0 and three clients at increasing
// distance along a line, with clients 2 and 3 forming one group so neither
// may appear in the other's list.
func buildLineProblem(t *testing.T) *vrptypes.ProblemData {
	t.Helper()
	locs := []vrptypes.Location{
		{IsDepot: true, TWLate: 1000, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, GroupIndex: 0},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, GroupIndex: 0},
	}
	groups := []vrptypes.ClientGroup{{Members: []int{2, 3}}}
	rows := [][]int64{
		{0, 10, 20, 30},
		{10, 0, 10, 20},
		{20, 10, 0, 10},
		{30, 20, 10, 0},
	}
	distMatrix, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	durMatrix, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	vt := vrptypes.NewVehicleType(1, []int64{10}, []int64{0}, 0, 0, 0, 1000)
	vt.UnitDistanceCost = 1
	data, err := vrptypes.NewProblemData(locs, []vrptypes.VehicleType{vt}, groups, []*segment.Matrix{distMatrix}, []*segment.Matrix{durMatrix})
	require.NoError(t, err)
	return data
}

func TestBuild_ExcludesSelfDepotsAndSameGroup(t *testing.T) {
	data := buildLineProblem(t)
	lists, err := neighbourhood.Build(data, neighbourhood.Params{NumNeighbours: 3})
	require.NoError(t, err)

	assert.Empty(t, lists[0], "depot must have no neighbour list")
	assert.NotContains(t, lists[1], 1)
	assert.NotContains(t, lists[2], 3, "group members must exclude each other")
	assert.NotContains(t, lists[3], 2, "group members must exclude each other")
}

func TestBuild_OrdersByProximityAscending(t *testing.T) {
	data := buildLineProblem(t)
	lists, err := neighbourhood.Build(data, neighbourhood.Params{NumNeighbours: 2})
	require.NoError(t, err)

	require.NotEmpty(t, lists[1])
	assert.Equal(t, 2, lists[1][0], "closest non-group neighbour of client 1 is client 2")
}

func TestBuild_SymmetricClosure(t *testing.T) {
	data := buildLineProblem(t)
	lists, err := neighbourhood.Build(data, neighbourhood.Params{NumNeighbours: 1, SymmetricNeighbours: true})
	require.NoError(t, err)

	for _, j := range lists[1] {
		assert.Contains(t, lists[j], 1, "symmetric closure must add the reverse edge")
	}
}
