package nodeops

import (
	"fmt"

	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrptypes"
)

// Exchange implements the (N,M)-Exchange family: remove a
// segment of length N starting at u and a segment of length M starting at
// v (M == 0 means "relocate"), then reinsert them in each other's
// positions. N must be >= 1; N, M in {0,1,2,3}.
type Exchange struct {
	N, M int
}

// NewExchange validates N, M and returns the configured operator.
func NewExchange(n, m int) (*Exchange, error) {
	if n < 1 || n > 3 || m < 0 || m > 3 {
		return nil, fmt.Errorf("nodeops: %w: exchange shape (%d,%d) out of {1,2,3}x{0,1,2,3}", errOutOfRange, n, m)
	}
	return &Exchange{N: n, M: m}, nil
}

// Name returns e.g. "Exchange(2,1)".
func (e *Exchange) Name() string { return fmt.Sprintf("Exchange(%d,%d)", e.N, e.M) }

// Supports reports true unconditionally: plain client relocation/exchange
// applies to every problem variant.
func (e *Exchange) Supports(data *vrptypes.ProblemData) bool { return true }

// segments resolves the two candidate segments' route, bounds and raw
// location slices, or ok=false if the move is structurally impossible.
func (e *Exchange) segments(u, v *route.Node) (ru, rv *route.Route, uStart, uEnd, vStart, vEnd int, ok bool) {
	ru, rv = u.Route(), v.Route()
	if ru == nil || rv == nil {
		return nil, nil, 0, 0, 0, 0, false
	}
	uStart = u.Index()
	uEnd = uStart + e.N
	vStart = v.Index()
	vEnd = vStart + e.M

	if uStart < 1 || uEnd > ru.NumNodes()-1 {
		return nil, nil, 0, 0, 0, 0, false
	}
	if e.M > 0 && (vStart < 1 || vEnd > rv.NumNodes()-1) {
		return nil, nil, 0, 0, 0, 0, false
	}
	if e.M == 0 {
		// Pure relocate: v marks the insertion point, not a segment to
		// remove. vEnd == vStart (empty range).
		vEnd = vStart
		if vStart < 1 || vStart > rv.NumNodes()-1 {
			return nil, nil, 0, 0, 0, 0, false
		}
	}
	if ru == rv {
		// Ranges must not overlap; a same-route insertion point inside the
		// removed segment is meaningless.
		if uStart < vEnd && vStart < uEnd {
			return nil, nil, 0, 0, 0, 0, false
		}
		if e.N == 2 && e.M == 2 && (vStart == uEnd || uStart == vEnd) {
			// (2,2)-exchange of adjacent segments is forbidden: (2,0)
			// already covers it.
			return nil, nil, 0, 0, 0, 0, false
		}
	}
	return ru, rv, uStart, uEnd, vStart, vEnd, true
}

// Evaluate implements the Operator interface.
func (e *Exchange) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	ru, rv, uStart, uEnd, vStart, vEnd, ok := e.segments(u, v)
	if !ok {
		return 0
	}

	uLocs, err := nodeLocs(ru, uStart, uEnd)
	if err != nil {
		return 0
	}
	vLocs, err := nodeLocs(rv, vStart, vEnd)
	if err != nil {
		return 0
	}

	if ru == rv {
		lo, hi := uStart, uEnd
		var newMiddle []int
		if uStart < vStart {
			gap, err := nodeLocs(ru, uEnd, vStart)
			if err != nil {
				return 0
			}
			newMiddle = append(append(append([]int{}, vLocs...), gap...), uLocs...)
			hi = vEnd
		} else {
			gap, err := nodeLocs(ru, vEnd, uStart)
			if err != nil {
				return 0
			}
			newMiddle = append(append(append([]int{}, uLocs...), gap...), vLocs...)
			lo, hi = vStart, uEnd
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
	newA, err := rangeReplacementCost(ru, data, ce, uStart, uEnd, vLocs)
	if err != nil {
		return 0
	}
	newB, err := rangeReplacementCost(rv, data, ce, vStart, vEnd, uLocs)
	if err != nil {
		return 0
	}
	return (newA - oldA) + (newB - oldB)
}

// Apply implements the Operator interface.
func (e *Exchange) Apply(u, v *route.Node) error {
	ru, rv, uStart, uEnd, vStart, vEnd, ok := e.segments(u, v)
	if !ok {
		return nil
	}

	uLocs, err := nodeLocs(ru, uStart, uEnd)
	if err != nil {
		return err
	}
	vLocs, err := nodeLocs(rv, vStart, vEnd)
	if err != nil {
		return err
	}

	if ru == rv {
		lo, hi := uStart, uEnd
		var newMiddle []int
		if uStart < vStart {
			gap, err := nodeLocs(ru, uEnd, vStart)
			if err != nil {
				return err
			}
			newMiddle = append(append(append([]int{}, vLocs...), gap...), uLocs...)
			hi = vEnd
		} else {
			gap, err := nodeLocs(ru, vEnd, uStart)
			if err != nil {
				return err
			}
			newMiddle = append(append(append([]int{}, uLocs...), gap...), vLocs...)
			lo, hi = vStart, uEnd
		}
		return applyRangeReplacement(ru, lo, hi, newMiddle)
	}

	if err := applyRangeReplacement(ru, uStart, uEnd, vLocs); err != nil {
		return err
	}
	return applyRangeReplacement(rv, vStart, vEnd, uLocs)
}
