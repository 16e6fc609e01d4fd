package costeval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrpcore/localsearch/segment"
	"github.com/vrpcore/localsearch/vrptypes"
)

func TestLoadPenalty(t *testing.T) {
	e, err := New([]int64{6, 2}, 0, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(0), e.LoadPenalty(5, 10, 0))
	assert.Equal(t, int64(30), e.LoadPenalty(15, 10, 0))
	assert.Equal(t, int64(10), e.LoadPenalty(15, 10, 1))
}

func TestTWPenalty(t *testing.T) {
	e, err := New(nil, 6, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(0), e.TWPenalty(0))
	assert.Equal(t, int64(48), e.TWPenalty(8))
}

func TestDistPenalty(t *testing.T) {
	e, err := New(nil, 0, 3, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(0), e.DistPenalty(10, 20))
	assert.Equal(t, int64(15), e.DistPenalty(25, 20))
}

func TestNew_RejectsNegativeWeight(t *testing.T) {
	_, err := New(nil, -1, 0, 0)
	require.Error(t, err)
}

func TestWeaknessCallback_FiresAtUpperBound(t *testing.T) {
	var fired string
	e, err := New(nil, 0, 0, 0, WithWeaknessCallback(func(msg string) { fired = msg }))
	require.NoError(t, err)
	assert.Empty(t, fired)

	e2, err := New(nil, 9223372036854775807, 0, 0, WithWeaknessCallback(func(msg string) { fired = msg }))
	require.NoError(t, err)
	assert.NotEmpty(t, fired)
	_ = e2
	_ = e
}

func buildSmallProblem(t *testing.T, capacity int64) *vrptypes.ProblemData {
	t.Helper()
	depot := vrptypes.Location{IsDepot: true, TWEarly: 0, TWLate: 100, GroupIndex: -1}
	client := func(delivery int64) vrptypes.Location {
		return vrptypes.Location{Delivery: []int64{delivery}, Pickup: []int64{0}, TWEarly: 0, TWLate: 100, Required: true, GroupIndex: -1}
	}
	locations := []vrptypes.Location{depot, client(3), client(4)}

	rows := [][]int64{
		{0, 5, 5},
		{5, 0, 5},
		{5, 5, 0},
	}
	dist, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	dur, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)

	vt := vrptypes.NewVehicleType(1, []int64{capacity}, []int64{0}, 0, 0, 0, 100)
	data, err := vrptypes.NewProblemData(locations, []vrptypes.VehicleType{vt}, nil, []*segment.Matrix{dist}, []*segment.Matrix{dur})
	require.NoError(t, err)
	return data
}

func TestCost_FeasibleSolution(t *testing.T) {
	data := buildSmallProblem(t, 10)
	sol, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{{VehicleType: 0, Visits: []int{1, 2}}})
	require.NoError(t, err)

	e, err := New([]int64{100}, 6, 0, 0)
	require.NoError(t, err)

	require.True(t, sol.IsFeasible())
	assert.Equal(t, e.Cost(sol), e.PenalisedCost(sol))
}

func TestCost_InfeasibleSolutionIsMaxCost(t *testing.T) {
	// capacity 5 but both clients demand 3+4=7 -> excess load.
	data := buildSmallProblem(t, 5)
	sol, err := vrptypes.NewSolution(data, []vrptypes.SolutionRoute{{VehicleType: 0, Visits: []int{1, 2}}})
	require.NoError(t, err)
	require.False(t, sol.IsFeasible())

	e, err := New([]int64{100}, 6, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(9223372036854775807), e.Cost(sol))
	assert.Greater(t, e.Cost(sol), e.PenalisedCost(sol)) // sanity: the sentinel exceeds this penalised cost
	assert.Greater(t, e.PenalisedCost(sol), int64(0))
}
