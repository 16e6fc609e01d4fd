// Package nodeops implements the node operators: constant-(or
// small-constant-)time delta-cost evaluators between node pairs, each
// mutating a route.Route in place when applied.
//
// Every operator is built from one shared primitive, rangeReplacementCost:
// the penalised cost of a route.Route after the half-open node range
// [lo, hi) is replaced by an explicit list of location indices, computed by
// merging the route's cached prefix(lo-1) and suffix(hi) segments with the
// fragment's own short merge chain. Every operator below reduces its
// move to one or two calls of this primitive plus, for optional/group
// clients, a direct prize adjustment (prizes are not part of a route's own
// penalised cost; they are a Solution-level quantity).
package nodeops

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/segment"
	"github.com/vrpcore/localsearch/vrptypes"
)

// currentRouteCost returns the route's present penalised cost: unit
// distance/duration cost, fixed cost if non-empty, and every cost-evaluator
// penalty term. Complexity: O(numLoadDimensions).
func currentRouteCost(r *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator) (int64, error) {
	last := r.NumNodes() - 1
	dist, err := r.PrefixDistance(last)
	if err != nil {
		return 0, err
	}
	dur, err := r.PrefixDuration(last)
	if err != nil {
		return 0, err
	}
	numDims := data.NumLoadDimensions()
	loads := make([]segment.Load, numDims)
	for d := 0; d < numDims; d++ {
		l, err := r.PrefixLoad(d, last)
		if err != nil {
			return 0, err
		}
		loads[d] = l
	}
	return penalisedRouteCost(r.VehicleType(), ce, dist, dur, loads, !r.IsEmpty()), nil
}

// penalisedRouteCost applies unit costs, fixed cost, and every cost
// evaluator penalty to a (distance, duration, loads) triple.
// Complexity: O(numLoadDimensions).
func penalisedRouteCost(vt vrptypes.VehicleType, ce *costeval.Evaluator, dist segment.Distance, dur segment.Duration, loads []segment.Load, nonEmpty bool) int64 {
	cost := dist.Distance*vt.UnitDistanceCost + dur.Duration*vt.UnitDurationCost
	if nonEmpty {
		cost += vt.FixedCost
	}
	cost += ce.TWPenalty(dur.TotalTimeWarp())
	if vt.MaxDistance != vrptypes.NoLimit {
		cost += ce.DistPenalty(dist.Distance, vt.MaxDistance)
	}
	if vt.MaxDuration != vrptypes.NoLimit {
		cost += ce.DurPenalty(dur.Duration, vt.MaxDuration)
	}
	for d, l := range loads {
		cost += ce.LoadPenalty(l.Current, vt.Capacity[d], d)
	}
	return cost
}

// fragmentSegments merges a short, plain list of client location indices
// (no depot time-window overrides) into one (distance, duration, loads)
// triple, seeded by a given starting location (the node preceding the
// fragment) so the first travel edge is included.
// Complexity: O(len(fragment) * numLoadDimensions).
func fragmentSegments(data *vrptypes.ProblemData, profile int, seedDist segment.Distance, seedDur segment.Duration, seedLoads []segment.Load, seedLoc int, fragment []int) (segment.Distance, segment.Duration, []segment.Load, int, error) {
	distMatrix, err := data.DistanceMatrix(profile)
	if err != nil {
		return segment.Distance{}, segment.Duration{}, nil, 0, err
	}
	durMatrix, err := data.DurationMatrix(profile)
	if err != nil {
		return segment.Distance{}, segment.Duration{}, nil, 0, err
	}

	dist, dur, loads := seedDist, seedDur, append([]segment.Load(nil), seedLoads...)
	prevLoc := seedLoc
	for _, locIdx := range fragment {
		loc, err := data.Location(locIdx)
		if err != nil {
			return segment.Distance{}, segment.Duration{}, nil, 0, err
		}
		travelD, err := distMatrix.At(prevLoc, locIdx)
		if err != nil {
			return segment.Distance{}, segment.Duration{}, nil, 0, err
		}
		travelT, err := durMatrix.At(prevLoc, locIdx)
		if err != nil {
			return segment.Distance{}, segment.Duration{}, nil, 0, err
		}
		nodeDist := segment.DistanceFromLocation()
		nodeDur := segment.DurationFromLocation(locIdx, loc.ServiceDuration, loc.TWEarly, loc.TWLate, loc.Release)

		dist, err = segment.MergeDistance(travelD, dist, nodeDist)
		if err != nil {
			return segment.Distance{}, segment.Duration{}, nil, 0, err
		}
		dur, err = segment.MergeDuration(travelT, dur, nodeDur)
		if err != nil {
			return segment.Distance{}, segment.Duration{}, nil, 0, err
		}
		for d := range loads {
			nodeL := segment.LoadFromLocation(0, 0)
			if !loc.IsDepot {
				nodeL = segment.LoadFromLocation(loc.Delivery[d], loc.Pickup[d])
			}
			loads[d], err = segment.MergeLoad(loads[d], nodeL)
			if err != nil {
				return segment.Distance{}, segment.Duration{}, nil, 0, err
			}
		}
		prevLoc = locIdx
	}
	return dist, dur, loads, prevLoc, nil
}

// rangeReplacementCost returns the penalised cost of r after nodes[lo:hi)
// (half-open, 1 <= lo <= hi <= NumNodes()-1) are replaced by fragment, an
// ordered list of client location indices. It never mutates r.
// Complexity: O(len(fragment) * numLoadDimensions) -- a small constant for
// every operator below except same-route exchanges whose two segments are
// far apart, where it is bounded by the gap between them (a relaxation of
// strict O(1)).
func rangeReplacementCost(r *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator, lo, hi int, fragment []int) (int64, error) {
	if lo < 1 || hi > r.NumNodes()-1 || lo > hi {
		return 0, errOutOfRange
	}
	prefixDist, err := r.PrefixDistance(lo - 1)
	if err != nil {
		return 0, err
	}
	prefixDur, err := r.PrefixDuration(lo - 1)
	if err != nil {
		return 0, err
	}
	numDims := data.NumLoadDimensions()
	prefixLoads := make([]segment.Load, numDims)
	for d := 0; d < numDims; d++ {
		l, err := r.PrefixLoad(d, lo-1)
		if err != nil {
			return 0, err
		}
		prefixLoads[d] = l
	}
	prevNode, err := r.At(lo - 1)
	if err != nil {
		return 0, err
	}

	midDist, midDur, midLoads, lastLoc, err := fragmentSegments(data, r.VehicleType().Profile, prefixDist, prefixDur, prefixLoads, prevNode.LocationIndex, fragment)
	if err != nil {
		return 0, err
	}

	suffixDist, err := r.SuffixDistance(hi)
	if err != nil {
		return 0, err
	}
	suffixDur, err := r.SuffixDuration(hi)
	if err != nil {
		return 0, err
	}
	suffixLoads := make([]segment.Load, numDims)
	for d := 0; d < numDims; d++ {
		l, err := r.SuffixLoad(d, hi)
		if err != nil {
			return 0, err
		}
		suffixLoads[d] = l
	}
	nextNode, err := r.At(hi)
	if err != nil {
		return 0, err
	}

	distMatrix, err := data.DistanceMatrix(r.VehicleType().Profile)
	if err != nil {
		return 0, err
	}
	durMatrix, err := data.DurationMatrix(r.VehicleType().Profile)
	if err != nil {
		return 0, err
	}
	travelD, err := distMatrix.At(lastLoc, nextNode.LocationIndex)
	if err != nil {
		return 0, err
	}
	travelT, err := durMatrix.At(lastLoc, nextNode.LocationIndex)
	if err != nil {
		return 0, err
	}

	finalDist, err := segment.MergeDistance(travelD, midDist, suffixDist)
	if err != nil {
		return 0, err
	}
	finalDur, err := segment.MergeDuration(travelT, midDur, suffixDur)
	if err != nil {
		return 0, err
	}
	finalLoads := make([]segment.Load, numDims)
	for d := 0; d < numDims; d++ {
		finalLoads[d], err = segment.MergeLoad(midLoads[d], suffixLoads[d])
		if err != nil {
			return 0, err
		}
	}

	numClientsAfter := r.NumClients() - (hi - lo) + len(fragment)
	_ = prevNode
	return penalisedRouteCost(r.VehicleType(), ce, finalDist, finalDur, finalLoads, numClientsAfter > 0), nil
}

// applyRangeReplacement mutates r to replace nodes[lo:hi) with fresh nodes
// for each location index in fragment.
func applyRangeReplacement(r *route.Route, lo, hi int, fragment []int) error {
	for i := hi - 1; i >= lo; i-- {
		if err := r.Remove(i); err != nil {
			return err
		}
	}
	for k, locIdx := range fragment {
		if err := r.Insert(lo+k, locIdx); err != nil {
			return err
		}
	}
	return r.Update()
}

// RouteCost exposes currentRouteCost for routeops, which evaluates moves
// spanning whole route pairs using the same primitives as the node
// operators above.
func RouteCost(r *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator) (int64, error) {
	return currentRouteCost(r, data, ce)
}

// FragmentCost exposes rangeReplacementCost for routeops.
func FragmentCost(r *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator, lo, hi int, fragment []int) (int64, error) {
	return rangeReplacementCost(r, data, ce, lo, hi, fragment)
}

// ApplyFragment exposes applyRangeReplacement for routeops.
func ApplyFragment(r *route.Route, lo, hi int, fragment []int) error {
	return applyRangeReplacement(r, lo, hi, fragment)
}

func reverseInts(xs []int) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}
