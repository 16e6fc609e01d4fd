// Property-based test for the prefix/suffix cache invariant: after Update,
// merging prefix[i] with suffix[i+1] must reproduce the full-route segment
// for every split point, on randomly generated routes.
package route

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vrpcore/localsearch/segment"
	"github.com/vrpcore/localsearch/vrptypes"
)

func propertyData(t *rapid.T, numClients int) *vrptypes.ProblemData {
	n := numClients + 1
	rows := make([][]int64, n)
	for i := range rows {
		rows[i] = make([]int64, n)
		for j := range rows[i] {
			if i == j {
				continue
			}
			rows[i][j] = rapid.Int64Range(1, 20).Draw(t, "edge")
		}
	}
	dist, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)
	dur, err := segment.NewMatrixFromRows(rows)
	require.NoError(t, err)

	locations := make([]vrptypes.Location, n)
	locations[0] = vrptypes.Location{IsDepot: true, TWEarly: 0, TWLate: 100000, GroupIndex: -1}
	for i := 1; i < n; i++ {
		locations[i] = vrptypes.Location{
			Delivery: []int64{1}, Pickup: []int64{0},
			TWEarly: 0, TWLate: 100000, Required: true, GroupIndex: -1,
		}
	}
	// NewProblemData takes the load dimension count from the clients, so a
	// client-free instance has no load dimensions.
	capacity, initialLoad := []int64{int64(n)}, []int64{0}
	if numClients == 0 {
		capacity, initialLoad = nil, nil
	}
	vt := vrptypes.NewVehicleType(1, capacity, initialLoad, 0, 0, 0, 100000)
	data, err := vrptypes.NewProblemData(locations, []vrptypes.VehicleType{vt}, nil, []*segment.Matrix{dist}, []*segment.Matrix{dur})
	require.NoError(t, err)
	return data
}

func TestRoute_PrefixSuffixMergeInvariant_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numClients := rapid.IntRange(0, 6).Draw(t, "numClients")
		data := propertyData(t, numClients)

		r, err := New(data, 0, 0)
		require.NoError(t, err)
		for i := 1; i <= numClients; i++ {
			require.NoError(t, r.Append(i))
		}
		require.NoError(t, r.Update())

		last := r.NumNodes() - 1
		full, err := r.PrefixDistance(last)
		require.NoError(t, err)

		distMatrix, err := data.DistanceMatrix(0)
		require.NoError(t, err)

		for i := 0; i < last; i++ {
			prefix, err := r.PrefixDistance(i)
			require.NoError(t, err)
			suffix, err := r.SuffixDistance(i + 1)
			require.NoError(t, err)

			ni, err := r.At(i)
			require.NoError(t, err)
			nj, err := r.At(i + 1)
			require.NoError(t, err)
			travel, err := distMatrix.At(ni.LocationIndex, nj.LocationIndex)
			require.NoError(t, err)

			merged, err := segment.MergeDistance(travel, prefix, suffix)
			require.NoError(t, err)
			require.Equal(t, full.Distance, merged.Distance)
		}
	})
}
