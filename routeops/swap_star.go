package routeops

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/nodeops"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrptypes"
)

// SwapStar implements the SwapStar route operator: for every
// pair of clients U on route A and V on route B, considers removing both
// and reinserting each at the *best* position of the other route -- not
// necessarily the vacated one. Caches the top-3 insertion points per
// client per route up front, so the O(|A|*|B|) pairing
// loop does O(1) lookups instead of an O(n) insertion search per pair.
//
// Evaluate and Apply are a two-call protocol: Evaluate searches and caches
// the best (u, v, posU, posV) combination it found; Apply realises exactly
// that cached combination. A second Evaluate call replaces the cache; the
// local-search driver always applies immediately after an improving
// Evaluate, so this is never interleaved with another pair.
// NewSwapStar returns a fresh SwapStar operator with no cached move.
func NewSwapStar() *SwapStar { return &SwapStar{} }

type SwapStar struct {
	found bool
	a, b  *route.Route
	u, v  *route.Node
	posU  int // position in b to insert u's location
	posV  int // position in a to insert v's location
}

// Name implements Operator.
func (s *SwapStar) Name() string { return "SwapStar" }

// Supports implements Operator: applies to any problem variant. Evaluate
// returns zero when a and b are the same route.
func (s *SwapStar) Supports(data *vrptypes.ProblemData) bool { return true }

// Evaluate implements Operator.
func (s *SwapStar) Evaluate(a, b *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	s.found = false
	if a == b {
		return 0
	}
	oldA, err := nodeops.RouteCost(a, data, ce)
	if err != nil {
		return 0
	}
	oldB, err := nodeops.RouteCost(b, data, ce)
	if err != nil {
		return 0
	}

	uPositions := clientPositions(a)
	vPositions := clientPositions(b)
	if len(uPositions) == 0 || len(vPositions) == 0 {
		return 0
	}

	// Pre-compute each candidate's best-3 insertion points into the other
	// route, keyed by its own current position.
	uInsertIntoB := make(map[int][]insertionCandidate, len(uPositions))
	for _, pu := range uPositions {
		nu, err := a.At(pu)
		if err != nil {
			continue
		}
		cands, err := topInsertions(b, data, ce, nu.LocationIndex, 3)
		if err != nil {
			continue
		}
		uInsertIntoB[pu] = cands
	}
	vInsertIntoA := make(map[int][]insertionCandidate, len(vPositions))
	for _, pv := range vPositions {
		nv, err := b.At(pv)
		if err != nil {
			continue
		}
		cands, err := topInsertions(a, data, ce, nv.LocationIndex, 3)
		if err != nil {
			continue
		}
		vInsertIntoA[pv] = cands
	}

	best := int64(0)
	var bestU, bestV *route.Node
	bestPosU, bestPosV := -1, -1

	for _, pu := range uPositions {
		nu, err := a.At(pu)
		if err != nil {
			continue
		}
		removedA, err := nodeops.FragmentCost(a, data, ce, pu, pu+1, nil)
		if err != nil {
			continue
		}
		deltaRemoveU := removedA - oldA

		for _, pv := range vPositions {
			nv, err := b.At(pv)
			if err != nil {
				continue
			}
			removedB, err := nodeops.FragmentCost(b, data, ce, pv, pv+1, nil)
			if err != nil {
				continue
			}
			deltaRemoveV := removedB - oldB

			// Route b's side: remove v, insert u. The in-place variant
			// (u straight into v's vacated slot) is priced exactly via a
			// single range replacement; the cached top-3 positions cover
			// the rest, against v's removal priced separately.
			replacedB, err := nodeops.FragmentCost(b, data, ce, pv, pv+1, []int{nu.LocationIndex})
			if err != nil {
				continue
			}
			deltaB := replacedB - oldB
			posU := pv
			if insU, ok := bestCandidateExcluding(uInsertIntoB[pu], pv); ok {
				if alt := deltaRemoveV + insU.delta; alt < deltaB {
					deltaB = alt
					posU = insU.pos
				}
			}

			// Route a's side: remove u, insert v.
			replacedA, err := nodeops.FragmentCost(a, data, ce, pu, pu+1, []int{nv.LocationIndex})
			if err != nil {
				continue
			}
			deltaA := replacedA - oldA
			posV := pu
			if insV, ok := bestCandidateExcluding(vInsertIntoA[pv], pu); ok {
				if alt := deltaRemoveU + insV.delta; alt < deltaA {
					deltaA = alt
					posV = insV.pos
				}
			}

			total := deltaA + deltaB
			if total < best {
				best = total
				bestU, bestV = nu, nv
				bestPosU, bestPosV = posU, posV
			}
		}
	}

	if bestU == nil {
		return 0
	}
	s.found = true
	s.a, s.b = a, b
	s.u, s.v = bestU, bestV
	s.posU, s.posV = bestPosU, bestPosV
	return best
}

// Apply implements Operator: realises the (u, v, posU, posV) combination
// cached by the immediately preceding Evaluate call.
func (s *SwapStar) Apply(a, b *route.Route) error {
	if !s.found || s.a != a || s.b != b {
		return nil
	}
	uLoc, vLoc := s.u.LocationIndex, s.v.LocationIndex
	posU, posV := s.posU, s.posV

	uOldPos, vOldPos := s.u.Index(), s.v.Index()
	if _, err := a.RemoveNode(s.u); err != nil {
		return err
	}
	if _, err := b.RemoveNode(s.v); err != nil {
		return err
	}
	if posU > vOldPos {
		posU--
	}
	if posV > uOldPos {
		posV--
	}
	if err := b.Insert(posU, uLoc); err != nil {
		return err
	}
	if err := a.Insert(posV, vLoc); err != nil {
		return err
	}
	if err := a.Update(); err != nil {
		return err
	}
	s.found = false
	return b.Update()
}
