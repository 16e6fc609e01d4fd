package nodeops

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrptypes"
)

// TwoOpt implements 2-opt / ReverseSegment: within a route,
// reverse the segment between two nodes; across routes, delegate to the
// same tail-exchange the SwapTails operator uses.
type TwoOpt struct{}

// Name implements Operator.
func (TwoOpt) Name() string { return "TwoOpt" }

// Supports implements Operator: applies to any problem variant.
func (TwoOpt) Supports(data *vrptypes.ProblemData) bool { return true }

// Evaluate implements Operator.
func (op TwoOpt) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	ru, rv := u.Route(), v.Route()
	if ru == nil || rv == nil {
		return 0
	}
	if ru == rv {
		lo, hi, ok := reverseBounds(u, v, ru)
		if !ok {
			return 0
		}
		segLocs, err := nodeLocs(ru, lo, hi+1)
		if err != nil {
			return 0
		}
		oldCost, err := currentRouteCost(ru, data, ce)
		if err != nil {
			return 0
		}
		newCost, err := rangeReplacementCost(ru, data, ce, lo, hi+1, reverseInts(segLocs))
		if err != nil {
			return 0
		}
		return newCost - oldCost
	}
	delta, _, _, err := tailSwapDelta(ru, rv, u.Index(), v.Index(), data, ce)
	if err != nil {
		return 0
	}
	return delta
}

// Apply implements Operator.
func (op TwoOpt) Apply(u, v *route.Node) error {
	ru, rv := u.Route(), v.Route()
	if ru == nil || rv == nil {
		return nil
	}
	if ru == rv {
		lo, hi, ok := reverseBounds(u, v, ru)
		if !ok {
			return nil
		}
		segLocs, err := nodeLocs(ru, lo, hi+1)
		if err != nil {
			return err
		}
		return applyRangeReplacement(ru, lo, hi+1, reverseInts(segLocs))
	}
	return tailSwapApply(ru, rv, u.Index(), v.Index())
}

// reverseBounds orders u and v into an ascending, interior [lo, hi] position
// range, or reports ok=false if either sits on a structural depot or the
// positions coincide.
func reverseBounds(u, v *route.Node, r *route.Route) (lo, hi int, ok bool) {
	lo, hi = u.Index(), v.Index()
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 1 || hi > r.NumNodes()-2 || lo == hi {
		return 0, 0, false
	}
	return lo, hi, true
}

// SwapTails implements the SwapTails operator: across two
// routes, everything after u is exchanged with everything after v,
// correctly repairing depots and trip indices via Route.Update.
type SwapTails struct{}

// Name implements Operator.
func (SwapTails) Name() string { return "SwapTails" }

// Supports implements Operator: applies to any problem variant.
func (SwapTails) Supports(data *vrptypes.ProblemData) bool { return true }

// Evaluate implements Operator. Same-route pairs are left to TwoOpt, which
// already covers within-route reversal; SwapTails only applies across
// distinct routes.
func (op SwapTails) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	ru, rv := u.Route(), v.Route()
	if ru == nil || rv == nil || ru == rv {
		return 0
	}
	delta, _, _, err := tailSwapDelta(ru, rv, u.Index(), v.Index(), data, ce)
	if err != nil {
		return 0
	}
	return delta
}

// Apply implements Operator.
func (op SwapTails) Apply(u, v *route.Node) error {
	ru, rv := u.Route(), v.Route()
	if ru == nil || rv == nil || ru == rv {
		return nil
	}
	return tailSwapApply(ru, rv, u.Index(), v.Index())
}

// tailSwapDelta computes the combined cost change of replacing ru's tail
// (everything strictly after position uPos) with rv's tail, and vice versa.
// Complexity: O(tail lengths * numLoadDimensions) -- see rangeReplacementCost
// for the documented relaxation from strict O(1) on long tails.
func tailSwapDelta(ru, rv *route.Route, uPos, vPos int, data *vrptypes.ProblemData, ce *costeval.Evaluator) (delta int64, tailA, tailB []int, err error) {
	if uPos < 0 || uPos > ru.NumNodes()-2 || vPos < 0 || vPos > rv.NumNodes()-2 {
		return 0, nil, nil, errOutOfRange
	}
	tailA, err = nodeLocs(ru, uPos+1, ru.NumNodes()-1)
	if err != nil {
		return 0, nil, nil, err
	}
	tailB, err = nodeLocs(rv, vPos+1, rv.NumNodes()-1)
	if err != nil {
		return 0, nil, nil, err
	}
	oldA, err := currentRouteCost(ru, data, ce)
	if err != nil {
		return 0, nil, nil, err
	}
	oldB, err := currentRouteCost(rv, data, ce)
	if err != nil {
		return 0, nil, nil, err
	}
	newA, err := rangeReplacementCost(ru, data, ce, uPos+1, ru.NumNodes()-1, tailB)
	if err != nil {
		return 0, nil, nil, err
	}
	newB, err := rangeReplacementCost(rv, data, ce, vPos+1, rv.NumNodes()-1, tailA)
	if err != nil {
		return 0, nil, nil, err
	}
	return (newA - oldA) + (newB - oldB), tailA, tailB, nil
}

func tailSwapApply(ru, rv *route.Route, uPos, vPos int) error {
	tailA, err := nodeLocs(ru, uPos+1, ru.NumNodes()-1)
	if err != nil {
		return err
	}
	tailB, err := nodeLocs(rv, vPos+1, rv.NumNodes()-1)
	if err != nil {
		return err
	}
	if err := applyRangeReplacement(ru, uPos+1, ru.NumNodes()-1, tailB); err != nil {
		return err
	}
	return applyRangeReplacement(rv, vPos+1, rv.NumNodes()-1, tailA)
}
