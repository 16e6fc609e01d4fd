package nodeops

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrptypes"
)

// MoveTwoClientsReversed relocates a 2-client segment starting at u to the
// position just before v, reversing its internal order.
type MoveTwoClientsReversed struct{}

// Name implements Operator.
func (MoveTwoClientsReversed) Name() string { return "MoveTwoClientsReversed" }

// Supports implements Operator: applies to any problem variant.
func (MoveTwoClientsReversed) Supports(data *vrptypes.ProblemData) bool { return true }

// resolve returns the source route/range and destination route/insertion
// point, or ok=false if the move is structurally impossible.
func (MoveTwoClientsReversed) resolve(u, v *route.Node) (ru, rv *route.Route, uStart, uEnd, vPos int, ok bool) {
	ru, rv = u.Route(), v.Route()
	if ru == nil || rv == nil {
		return nil, nil, 0, 0, 0, false
	}
	uStart = u.Index()
	uEnd = uStart + 2
	if uStart < 1 || uEnd > ru.NumNodes()-1 {
		return nil, nil, 0, 0, 0, false
	}
	vPos = v.Index()
	if vPos < 1 || vPos > rv.NumNodes()-1 {
		return nil, nil, 0, 0, 0, false
	}
	if ru == rv && vPos >= uStart && vPos < uEnd {
		return nil, nil, 0, 0, 0, false
	}
	return ru, rv, uStart, uEnd, vPos, true
}

// Evaluate implements Operator.
func (op MoveTwoClientsReversed) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	ru, rv, uStart, uEnd, vPos, ok := op.resolve(u, v)
	if !ok {
		return 0
	}
	segLocs, err := nodeLocs(ru, uStart, uEnd)
	if err != nil {
		return 0
	}
	reversed := reverseInts(segLocs)

	if ru == rv {
		lo, hi := minInt(uStart, vPos), maxInt(uEnd, vPos)
		var newMiddle []int
		if vPos < uStart {
			gap, err := nodeLocs(ru, vPos, uStart)
			if err != nil {
				return 0
			}
			newMiddle = append(append([]int{}, reversed...), gap...)
		} else {
			gap, err := nodeLocs(ru, uEnd, vPos)
			if err != nil {
				return 0
			}
			newMiddle = append(append([]int{}, gap...), reversed...)
		}
		oldCost, err := currentRouteCost(ru, data, ce)
		if err != nil {
			return 0
		}
		newCost, err := rangeReplacementCost(ru, data, ce, lo, hi, newMiddle)
		if err != nil {
			return 0
		}
		return newCost - oldCost
	}

	oldA, err := currentRouteCost(ru, data, ce)
	if err != nil {
		return 0
	}
	oldB, err := currentRouteCost(rv, data, ce)
	if err != nil {
		return 0
	}
	newA, err := rangeReplacementCost(ru, data, ce, uStart, uEnd, nil)
	if err != nil {
		return 0
	}
	newB, err := rangeReplacementCost(rv, data, ce, vPos, vPos, reversed)
	if err != nil {
		return 0
	}
	return (newA - oldA) + (newB - oldB)
}

// Apply implements Operator.
func (op MoveTwoClientsReversed) Apply(u, v *route.Node) error {
	ru, rv, uStart, uEnd, vPos, ok := op.resolve(u, v)
	if !ok {
		return nil
	}
	segLocs, err := nodeLocs(ru, uStart, uEnd)
	if err != nil {
		return err
	}
	reversed := reverseInts(segLocs)

	if ru == rv {
		lo, hi := minInt(uStart, vPos), maxInt(uEnd, vPos)
		var newMiddle []int
		if vPos < uStart {
			gap, err := nodeLocs(ru, vPos, uStart)
			if err != nil {
				return err
			}
			newMiddle = append(append([]int{}, reversed...), gap...)
		} else {
			gap, err := nodeLocs(ru, uEnd, vPos)
			if err != nil {
				return err
			}
			newMiddle = append(append([]int{}, gap...), reversed...)
		}
		return applyRangeReplacement(ru, lo, hi, newMiddle)
	}

	if err := applyRangeReplacement(ru, uStart, uEnd, nil); err != nil {
		return err
	}
	return applyRangeReplacement(rv, vPos, vPos, reversed)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
