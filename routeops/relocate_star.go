package routeops

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/nodeops"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrptypes"
)

// NewRelocateStar returns a fresh RelocateStar operator with no cached move.
func NewRelocateStar() *RelocateStar { return &RelocateStar{} }

// RelocateStar implements the RelocateStar route operator: for
// every pair of routes, finds the best single client relocate between them
// in either direction (A -> B or B -> A). Unlike SwapStar, only one client
// moves; the other route is otherwise undisturbed.
type RelocateStar struct {
	found     bool
	from, to  *route.Route
	node      *route.Node
	insertPos int
}

// Name implements Operator.
func (s *RelocateStar) Name() string { return "RelocateStar" }

// Supports implements Operator.
func (s *RelocateStar) Supports(data *vrptypes.ProblemData) bool { return true }

// Evaluate implements Operator: searches both directions and caches the
// cheaper relocate.
func (s *RelocateStar) Evaluate(a, b *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	s.found = false
	if a == b {
		return 0
	}
	deltaAB, nodeAB, posAB, okAB := bestRelocate(a, b, data, ce)
	deltaBA, nodeBA, posBA, okBA := bestRelocate(b, a, data, ce)

	best := int64(0)
	if okAB && deltaAB < best {
		best = deltaAB
		s.from, s.to, s.node, s.insertPos = a, b, nodeAB, posAB
		s.found = true
	}
	if okBA && deltaBA < best {
		best = deltaBA
		s.from, s.to, s.node, s.insertPos = b, a, nodeBA, posBA
		s.found = true
	}
	return best
}

// bestRelocate finds the cheapest client in `from` to relocate into `to`,
// trying every insertion point in `to` for every client in `from`.
// Complexity: O(|from.clients| * |to.nodes| * numLoadDimensions).
func bestRelocate(from, to *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator) (delta int64, node *route.Node, pos int, ok bool) {
	oldFrom, err := nodeops.RouteCost(from, data, ce)
	if err != nil {
		return 0, nil, 0, false
	}
	best := int64(0)
	var bestNode *route.Node
	bestPos := -1
	for _, p := range clientPositions(from) {
		n, err := from.At(p)
		if err != nil {
			continue
		}
		removed, err := nodeops.FragmentCost(from, data, ce, p, p+1, nil)
		if err != nil {
			continue
		}
		deltaRemove := removed - oldFrom
		cands, err := topInsertions(to, data, ce, n.LocationIndex, 3)
		if err != nil || len(cands) == 0 {
			continue
		}
		total := deltaRemove + cands[0].delta
		if bestNode == nil || total < best {
			best = total
			bestNode = n
			bestPos = cands[0].pos
		}
	}
	if bestNode == nil {
		return 0, nil, 0, false
	}
	return best, bestNode, bestPos, true
}

// Apply implements Operator: realises the cached relocate. a and b are
// accepted in either order; the cached move remembers its own direction.
func (s *RelocateStar) Apply(a, b *route.Route) error {
	if !s.found {
		return nil
	}
	if (s.from != a || s.to != b) && (s.from != b || s.to != a) {
		return nil
	}
	pos := s.insertPos
	if _, err := s.from.RemoveNode(s.node); err != nil {
		return err
	}
	if err := s.to.InsertNode(pos, s.node); err != nil {
		return err
	}
	if err := s.from.Update(); err != nil {
		return err
	}
	s.found = false
	return s.to.Update()
}
