// Package neighbourhood builds the granular neighbourhood lists consumed by
// the local-search driver: for every client, a short ordered
// list of the other clients most worth considering as a move partner.
//
// Construction is deterministic and allocation-conscious: one scratch
// []proxPair per client, sort.Slice, take the first k.
package neighbourhood

import (
	"sort"

	"github.com/vrpcore/localsearch/vrptypes"
)

// Params configures neighbourhood construction.
type Params struct {
	// NumNeighbours caps the length of each client's candidate list.
	NumNeighbours int

	// Profile selects which distance/duration matrix pair to measure
	// proximity with.
	Profile int

	// WeightWaitTime is w_wait in the proximity formula.
	WeightWaitTime int64

	// WeightTimeWarp is w_tw in the proximity formula.
	WeightTimeWarp int64

	// SymmetricNeighbours requests adjacency closure: if j is in N(i) then
	// i is added to N(j), even if j would not otherwise have ranked i
	// highly enough to include it.
	SymmetricNeighbours bool
}

// proxPair is one candidate neighbour and its proximity score, scored from
// a fixed anchor client.
type proxPair struct {
	other int
	score int64
}

// Build computes, for every client in data, an ordered list of up to
// params.NumNeighbours other clients. The returned slice is
// indexed by location index; depot entries and any location absent from
// data.Clients() are left nil.
func Build(data *vrptypes.ProblemData, params Params) ([][]int, error) {
	if params.NumNeighbours < 0 {
		return nil, errOutOfRange
	}
	distMatrix, err := data.DistanceMatrix(params.Profile)
	if err != nil {
		return nil, err
	}

	clients := data.Clients()
	sameGroup := make(map[int]int, len(clients))
	for _, c := range clients {
		loc, err := data.Location(c)
		if err != nil {
			return nil, err
		}
		sameGroup[c] = loc.GroupIndex
	}

	result := make([][]int, data.NumLocations())
	for _, i := range clients {
		locI, err := data.Location(i)
		if err != nil {
			return nil, err
		}
		scratch := make([]proxPair, 0, len(clients))
		for _, j := range clients {
			if j == i {
				continue
			}
			if locI.GroupIndex >= 0 && locI.GroupIndex == sameGroup[j] {
				continue
			}
			locJ, err := data.Location(j)
			if err != nil {
				return nil, err
			}
			dij, err := distMatrix.At(i, j)
			if err != nil {
				return nil, err
			}
			scratch = append(scratch, proxPair{other: j, score: proximity(locI, locJ, dij, params)})
		}
		sort.Slice(scratch, func(a, b int) bool {
			if scratch[a].score != scratch[b].score {
				return scratch[a].score < scratch[b].score
			}
			return scratch[a].other < scratch[b].other
		})
		if len(scratch) > params.NumNeighbours {
			scratch = scratch[:params.NumNeighbours]
		}
		list := make([]int, len(scratch))
		for k, p := range scratch {
			list[k] = p.other
		}
		result[i] = list
	}

	if params.SymmetricNeighbours {
		symmetrise(result, clients)
	}
	return result, nil
}

// proximity scores candidate j from anchor i:
//
//	prox(i,j) = d(i,j)
//	          + w_wait * max(0, tw_early_j - service_i - d(i,j) - tw_late_i)
//	          + w_tw   * max(0, tw_early_i + service_i + d(i,j) - tw_late_j)
//	          - prize_j
func proximity(i, j vrptypes.Location, dij int64, params Params) int64 {
	wait := j.TWEarly - i.ServiceDuration - dij - i.TWLate
	if wait < 0 {
		wait = 0
	}
	warp := i.TWEarly + i.ServiceDuration + dij - j.TWLate
	if warp < 0 {
		warp = 0
	}
	return dij + params.WeightWaitTime*wait + params.WeightTimeWarp*warp - j.Prize
}

// symmetrise closes the adjacency: for every i and every j already in
// N(i), ensures i appears in N(j) too. Appended entries are not re-sorted
// by proximity score, since symmetrisation is a set-closure operation, not
// a re-ranking.
func symmetrise(result [][]int, clients []int) {
	present := make(map[int]map[int]bool, len(clients))
	for _, i := range clients {
		set := make(map[int]bool, len(result[i]))
		for _, j := range result[i] {
			set[j] = true
		}
		present[i] = set
	}
	for _, i := range clients {
		for _, j := range result[i] {
			if !present[j][i] {
				result[j] = append(result[j], i)
				present[j][i] = true
			}
		}
	}
}
