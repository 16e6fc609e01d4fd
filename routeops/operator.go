// Package routeops implements the route operators: move
// evaluators between whole route pairs (SwapStar, SwapRoutes, RelocateStar),
// used only in the local-search driver's "intensify" phase,
// gated by a route-pair overlap tolerance.
//
// Built on the same fragment-replacement primitives nodeops uses
// (nodeops.RouteCost / FragmentCost / ApplyFragment), since a route-pair
// move still reduces to one or two O(1)-ish merges of cached prefix/suffix
// segments per candidate insertion point.
package routeops

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/nodeops"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrptypes"
)

// Operator is the shared interface every route operator implements.
// Like nodeops.Operator, Evaluate never errors: a structurally
// impossible move returns a zero delta.
type Operator interface {
	// Name identifies the operator for statistics and diagnostics.
	Name() string

	// Evaluate returns the cost change applying this move to route pair
	// (a, b) would cause, or zero if the move is structurally impossible.
	// SwapStar and RelocateStar also return zero when no improving move
	// exists for this pair; SwapRoutes returns its delta whatever its sign,
	// so it may be positive. A non-zero Evaluate result must be followed by Apply on the
	// same (a, b) before Evaluate is called again on either route, since
	// SwapStar and RelocateStar cache the winning move internally between
	// the two calls.
	Evaluate(a, b *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64

	// Apply mutates a and/or b in place to realise the move found by the
	// immediately preceding Evaluate call.
	Apply(a, b *route.Route) error

	// Supports declares whether this operator is applicable to the given
	// problem variant.
	Supports(data *vrptypes.ProblemData) bool
}

// clientPositions returns the route positions holding an ordinary client
// (excluding the structural start/end depots and any reload depot).
func clientPositions(r *route.Route) []int {
	out := make([]int, 0, r.NumNodes())
	for i := 1; i < r.NumNodes()-1; i++ {
		nd, err := r.At(i)
		if err != nil {
			continue
		}
		if !nd.IsReload() {
			out = append(out, i)
		}
	}
	return out
}

// insertionCandidate is one (position, delta) pair for inserting a single
// client location into a route.
type insertionCandidate struct {
	pos   int
	delta int64
}

// topInsertions returns up to k of the cheapest insertion points for
// locIdx into r, sorted ascending by delta.
// Complexity: O(n) FragmentCost calls, each O(numLoadDimensions).
func topInsertions(r *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator, locIdx int, k int) ([]insertionCandidate, error) {
	baseCost, err := nodeops.RouteCost(r, data, ce)
	if err != nil {
		return nil, err
	}
	best := make([]insertionCandidate, 0, k+1)
	for pos := 1; pos < r.NumNodes(); pos++ {
		cost, err := nodeops.FragmentCost(r, data, ce, pos, pos, []int{locIdx})
		if err != nil {
			continue
		}
		cand := insertionCandidate{pos: pos, delta: cost - baseCost}
		best = insertSorted(best, cand, k)
	}
	return best, nil
}

// insertSorted inserts cand into a delta-ascending slice capped at length k.
func insertSorted(sorted []insertionCandidate, cand insertionCandidate, k int) []insertionCandidate {
	i := len(sorted)
	sorted = append(sorted, cand)
	for i > 0 && sorted[i-1].delta > cand.delta {
		sorted[i] = sorted[i-1]
		i--
	}
	sorted[i] = cand
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// bestCandidateExcluding returns the cheapest candidate whose position does
// not land adjacent to excludePos (the slot vacated elsewhere in the same
// route by a simultaneous removal), or ok=false if every candidate collides.
func bestCandidateExcluding(cands []insertionCandidate, excludePos int) (insertionCandidate, bool) {
	for _, c := range cands {
		if c.pos != excludePos && c.pos != excludePos+1 {
			return c, true
		}
	}
	return insertionCandidate{}, false
}
