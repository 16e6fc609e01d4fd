package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/search"
	"github.com/vrpcore/localsearch/segment"
	"github.com/vrpcore/localsearch/vrptypes"
)

// buildGridProblem places a depot at the origin and four clients on a
// small grid, each fitting comfortably within a single vehicle's capacity
// and time window, so search() has obvious 2-opt-style crossing moves to
// fix when the initial solution visits them in a poor order.
func buildGridProblem(t *testing.T) (*vrptypes.ProblemData, *costeval.Evaluator) {
	t.Helper()
	locs := []vrptypes.Location{
		{IsDepot: true, TWLate: 1000, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
	}
	rows := [][]int64{
		{0, 10, 20, 10, 20},
		{10, 0, 10, 20, 30},
		{20, 10, 0, 30, 20},
		{10, 20, 30, 0, 10},
		{20, 30, 20, 10, 0},
	}
	distMatrix, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	durMatrix, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	vt := vrptypes.NewVehicleType(2, []int64{10}, []int64{0}, 0, 0, 0, 1000)
	vt.UnitDistanceCost = 1
	data, err := vrptypes.NewProblemData(locs, []vrptypes.VehicleType{vt}, nil, []*segment.Matrix{distMatrix}, []*segment.Matrix{durMatrix})
	require.NoError(t, err)
	ce, err := costeval.New([]int64{1000}, 1000, 0, 0)
	require.NoError(t, err)
	return data, ce
}

func TestLocalSearch_SearchNeverIncreasesCost(t *testing.T) {
	data, ce := buildGridProblem(t)
	ls, err := search.New(data, search.DefaultOptions())
	require.NoError(t, err)

	initial, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{1, 3, 2, 4}},
	})
	require.NoError(t, err)
	before := ce.Cost(initial)

	after, stats, err := ls.Search(initial, ce)
	require.NoError(t, err)
	afterCost := ce.Cost(after)

	// The initial visiting order crosses the grid, so at least one
	// improving move must exist and be applied.
	assert.Less(t, afterCost, before)
	assert.Equal(t, 0, after.NumMissingRequiredClients())
	assert.Greater(t, stats.Applications, 0)
}

func TestLocalSearch_SearchRoutesMissingRequiredClient(t *testing.T) {
	data, ce := buildGridProblem(t)
	ls, err := search.New(data, search.DefaultOptions())
	require.NoError(t, err)

	initial, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{1, 2, 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, initial.NumMissingRequiredClients())

	after, _, err := ls.Search(initial, ce)
	require.NoError(t, err)
	assert.Equal(t, 0, after.NumMissingRequiredClients())
}

func TestLocalSearch_SearchReachesEmptyRoute(t *testing.T) {
	data, ce := buildGridProblem(t)
	ls, err := search.New(data, search.DefaultOptions())
	require.NoError(t, err)

	// The second vehicle idles, so the driver offers its empty route's depot
	// nodes as move anchors and every operator must evaluate them. The
	// visiting order on the first vehicle zigzags across the grid (cost
	// 120), so improving moves exist.
	initial, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{2, 3, 1, 4}},
		{VehicleType: 0, Visits: nil},
	})
	require.NoError(t, err)
	before := ce.PenalisedCost(initial)

	after, _, err := ls.Search(initial, ce)
	require.NoError(t, err)
	assert.Less(t, ce.PenalisedCost(after), before)
	assert.Equal(t, 0, after.NumMissingRequiredClients())
}

func TestLocalSearch_CallRoundTripsFeasibility(t *testing.T) {
	data, ce := buildGridProblem(t)
	opts := search.DefaultOptions()
	opts.Seed = 7
	opts.Perturbation = search.NewStringRemoval()
	ls, err := search.New(data, opts)
	require.NoError(t, err)

	initial, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{
		{VehicleType: 0, Visits: []int{1, 2, 3, 4}},
	})
	require.NoError(t, err)

	out, _, err := ls.Call(initial, ce)
	require.NoError(t, err)
	assert.Equal(t, 0, out.NumMissingRequiredClients())
}
