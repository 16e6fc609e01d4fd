package nodeops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/nodeops"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/segment"
	"github.com/vrpcore/localsearch/vrptypes"
)

// fourClientLine places a depot at 0 and four clients at increasing
// distance along a line, a shape simple enough that the improving move in
// each test below is obvious by inspection.
func fourClientLine(t *testing.T) (*vrptypes.ProblemData, *costeval.Evaluator) {
	t.Helper()
	locs := []vrptypes.Location{
		{IsDepot: true, TWLate: 1000, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
	}
	rows := [][]int64{
		{0, 10, 20, 30, 40},
		{10, 0, 10, 20, 30},
		{20, 10, 0, 10, 20},
		{30, 20, 10, 0, 10},
		{40, 30, 20, 10, 0},
	}
	dist, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	dur, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	vt := vrptypes.NewVehicleType(2, []int64{10}, []int64{0}, 0, 0, 0, 1000)
	vt.UnitDistanceCost = 1
	data, err := vrptypes.NewProblemData(locs, []vrptypes.VehicleType{vt}, nil, []*segment.Matrix{dist}, []*segment.Matrix{dur})
	require.NoError(t, err)
	ce, err := costeval.New([]int64{1000}, 1000, 0, 0)
	require.NoError(t, err)
	return data, ce
}

func buildRoute(t *testing.T, data *vrptypes.ProblemData, visits []int) *route.Route {
	t.Helper()
	r, err := route.New(data, 0, 0)
	require.NoError(t, err)
	for _, v := range visits {
		require.NoError(t, r.Append(v))
	}
	require.NoError(t, r.Update())
	return r
}

func TestTwoOpt_UncrossesRoute(t *testing.T) {
	data, ce := fourClientLine(t)
	// 1 -> 3 -> 2 -> 4 crosses; reversing the middle segment uncrosses it.
	r := buildRoute(t, data, []int{1, 3, 2, 4})

	u, err := r.At(2) // client 3
	require.NoError(t, err)
	v, err := r.At(3) // client 2
	require.NoError(t, err)

	op := nodeops.TwoOpt{}
	delta := op.Evaluate(u, v, data, ce)
	require.Less(t, delta, int64(0), "uncrossing must strictly improve cost")

	require.NoError(t, op.Apply(u, v))
	require.NoError(t, r.Update())
	assert.Equal(t, []int{1, 2, 3, 4}, r.Visits())
}

func TestExchange11_SwapsTwoRoutedClients(t *testing.T) {
	data, ce := fourClientLine(t)
	rA := buildRoute(t, data, []int{1, 2})
	rB := buildRoute(t, data, []int{3, 4})

	u, err := rA.At(1) // client 1
	require.NoError(t, err)
	v, err := rB.At(1) // client 3
	require.NoError(t, err)

	op, err := nodeops.NewExchange(1, 1)
	require.NoError(t, err)

	delta := op.Evaluate(u, v, data, ce)
	if delta < 0 {
		require.NoError(t, op.Apply(u, v))
		require.NoError(t, rA.Update())
		require.NoError(t, rB.Update())
		assert.Contains(t, rA.Visits(), 3)
		assert.Contains(t, rB.Visits(), 1)
	}
}

func TestInsert_RoutesDetachedClient(t *testing.T) {
	data, ce := fourClientLine(t)
	r := buildRoute(t, data, []int{2, 3, 4})
	detached := route.NewNode(1)

	anchor, err := r.At(1) // client 2
	require.NoError(t, err)

	op := nodeops.Insert{}
	delta := op.Evaluate(detached, anchor, data, ce)
	assert.NotEqual(t, int64(0), delta, "inserting a detached client must price a real cost change")

	require.NoError(t, op.Apply(detached, anchor))
	require.NoError(t, r.Update())
	assert.Contains(t, r.Visits(), 1)
	assert.NotNil(t, detached.Route())
}

func TestReloadOperators_InsertSlideRemove(t *testing.T) {
	locs := []vrptypes.Location{
		{IsDepot: true, TWLate: 1000, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
		{Delivery: []int64{1}, Pickup: []int64{0}, TWLate: 1000, Required: true, GroupIndex: -1},
	}
	rows := [][]int64{
		{0, 10, 20},
		{10, 0, 10},
		{20, 10, 0},
	}
	dist, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	dur, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	vt := vrptypes.NewVehicleType(1, []int64{10}, []int64{0}, 0, 0, 0, 1000,
		vrptypes.WithReloadDepots([]int{0}, 1))
	vt.UnitDistanceCost = 1
	data, err := vrptypes.NewProblemData(locs, []vrptypes.VehicleType{vt}, nil,
		[]*segment.Matrix{dist}, []*segment.Matrix{dur})
	require.NoError(t, err)
	ce, err := costeval.New([]int64{1000}, 1000, 0, 0)
	require.NoError(t, err)

	r := buildRoute(t, data, []int{1, 2})
	require.Equal(t, 1, r.NumTrips())

	// Insert a reload visit right after client 1.
	u, err := r.At(1)
	require.NoError(t, err)
	depotCand := route.NewNode(0)
	ins := nodeops.RelocateWithDepot{}
	ins.Evaluate(u, depotCand, data, ce)
	require.NoError(t, ins.Apply(u, depotCand))
	require.Equal(t, 2, r.NumTrips())

	reload, err := r.At(2)
	require.NoError(t, err)
	require.True(t, reload.IsReload())

	// Slide the trip boundary to just after client 2.
	v, err := r.At(3)
	require.NoError(t, err)
	tr := nodeops.TripRelocate{}
	tr.Evaluate(reload, v, data, ce)
	require.NoError(t, tr.Apply(reload, v))
	require.Equal(t, 2, r.NumTrips())
	moved, err := r.At(3)
	require.NoError(t, err)
	require.True(t, moved.IsReload())

	// Remove it again, collapsing back to one trip.
	rm := nodeops.RemoveAdjacentDepot{}
	rm.Evaluate(moved, depotCand, data, ce)
	require.NoError(t, rm.Apply(moved, depotCand))
	require.Equal(t, 1, r.NumTrips())
	assert.Equal(t, []int{1, 2}, r.Visits())
}

func TestMoveTwoClientsReversed_RelocatesPairReversed(t *testing.T) {
	data, ce := fourClientLine(t)
	r := buildRoute(t, data, []int{2, 3, 1, 4})

	u, err := r.At(1) // client 2 (start of the pair to relocate)
	require.NoError(t, err)
	v, err := r.At(3) // client 1 (anchor to relocate before)
	require.NoError(t, err)

	op := nodeops.MoveTwoClientsReversed{}
	delta := op.Evaluate(u, v, data, ce)
	if delta < 0 {
		require.NoError(t, op.Apply(u, v))
		require.NoError(t, r.Update())
		assert.Equal(t, 4, len(r.Visits()))
	}
}
