package vrptypes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrpcore/localsearch/segment"
	"github.com/vrpcore/localsearch/vrperr"
	"github.com/vrpcore/localsearch/vrptypes"
)

func threeClientData(t *testing.T) *vrptypes.ProblemData {
	t.Helper()
	locs := []vrptypes.Location{
		{IsDepot: true, TWLate: 1000, GroupIndex: -1},
		{Delivery: []int64{4}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
		{Delivery: []int64{4}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
		{Delivery: []int64{4}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
	}
	rows := [][]int64{
		{0, 5, 6, 7},
		{5, 0, 5, 6},
		{6, 5, 0, 5},
		{7, 6, 5, 0},
	}
	dist, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	dur, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	vt := vrptypes.NewVehicleType(2, []int64{10}, []int64{0}, 0, 0, 0, 1000)
	vt.UnitDistanceCost = 1
	data, err := vrptypes.NewProblemData(locs, []vrptypes.VehicleType{vt}, nil,
		[]*segment.Matrix{dist}, []*segment.Matrix{dur})
	require.NoError(t, err)
	return data
}

func TestNewSolution_RejectsDuplicateClient(t *testing.T) {
	data := threeClientData(t)
	_, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{1, 2}},
		{VehicleType: 0, Visits: []int{2, 3}},
	})
	require.ErrorIs(t, err, vrperr.ErrDuplicateClient)
}

func TestNewSolution_RejectsExcessVehicleUse(t *testing.T) {
	data := threeClientData(t)
	_, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{1}},
		{VehicleType: 0, Visits: []int{2}},
		{VehicleType: 0, Visits: []int{3}},
	})
	require.ErrorIs(t, err, vrperr.ErrVehicleUnavailable)
}

func TestNewSolution_RejectsUnpermittedReloadDepot(t *testing.T) {
	data := threeClientData(t)
	_, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{1, 0, 2}},
	})
	require.ErrorIs(t, err, vrperr.ErrInvalidReloadDepot)
}

func TestSolution_RoundTripEquality(t *testing.T) {
	data := threeClientData(t)
	a, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{1, 2}},
		{VehicleType: 0, Visits: []int{3}},
	})
	require.NoError(t, err)

	// Rebuilding from the solution's own routes yields an equal solution.
	b, err := vrptypes.NewSolution(data, a.Routes())
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	// Route order does not affect identity.
	c, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{3}},
		{VehicleType: 0, Visits: []int{1, 2}},
	})
	require.NoError(t, err)
	assert.True(t, a.Equal(c))
	assert.Equal(t, a.Hash(), c.Hash())

	// Visit order within a route does.
	d, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{2, 1}},
		{VehicleType: 0, Visits: []int{3}},
	})
	require.NoError(t, err)
	assert.False(t, a.Equal(d))
}

func TestSolution_AccountsExcessLoadAndMissingClients(t *testing.T) {
	data := threeClientData(t)

	// All three clients on one capacity-10 vehicle: load 12, excess 2.
	sol, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{1, 2, 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), sol.TotalExcessLoad())
	assert.False(t, sol.IsFeasible())
	assert.Equal(t, 0, sol.NumMissingRequiredClients())

	// Leaving client 3 out is counted, not rejected.
	partial, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{1, 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, partial.NumMissingRequiredClients())
	assert.False(t, partial.IsFeasible())
}
