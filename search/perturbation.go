package search

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/nodeops"
	"github.com/vrpcore/localsearch/route"
)

// Perturbation is run once at the start of Call, before search and
// intensify, to push the loaded state off its current local optimum so the
// subsequent descent can find a different one.
type Perturbation interface {
	// Perturb mutates the LocalSearch's currently loaded route state.
	Perturb(ls *LocalSearch, ce *costeval.Evaluator) error
}

// SISRParams configures StringRemoval.
type SISRParams struct {
	// MaxStringSize bounds the length of a single removed string.
	MaxStringSize int

	// AvgRemovals targets the average number of clients removed across
	// the whole perturbation.
	AvgRemovals int
}

// DefaultSISRParams returns the standard string-removal parameters.
func DefaultSISRParams() SISRParams {
	return SISRParams{MaxStringSize: 10, AvgRemovals: 10}
}

// StringRemoval implements a simplified Slack Inducing String Removal
// perturbation: removes a handful of contiguous
// "strings" of clients from random routes, then greedily reinserts each
// removed client at the end of whichever route prices it cheapest (see
// DESIGN.md "perturbation simplification").
type StringRemoval struct {
	Params SISRParams
}

// NewStringRemoval returns a StringRemoval using DefaultSISRParams.
func NewStringRemoval() *StringRemoval {
	return &StringRemoval{Params: DefaultSISRParams()}
}

// Perturb implements Perturbation.
func (p *StringRemoval) Perturb(ls *LocalSearch, ce *costeval.Evaluator) error {
	nonEmpty := make([]*route.Route, 0, len(ls.routes))
	for _, r := range ls.routes {
		if !r.IsEmpty() {
			nonEmpty = append(nonEmpty, r)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}

	maxStringSize := p.Params.MaxStringSize
	numStrings := ls.rng.Intn(p.Params.AvgRemovals) + 1

	removed := make([]*route.Node, 0, numStrings*maxStringSize)
	removedSet := make(map[int]bool, numStrings*maxStringSize)
	for s := 0; s < numStrings; s++ {
		r := nonEmpty[ls.rng.Intn(len(nonEmpty))]
		visits := r.Visits()
		if len(visits) == 0 {
			continue
		}
		size := maxStringSize
		if size > len(visits) {
			size = len(visits)
		}
		size = ls.rng.Intn(size) + 1
		start := ls.rng.Intn(len(visits))

		for k := 0; k < size; k++ {
			loc := visits[(start+k)%len(visits)]
			if ls.data.IsDepot(loc) || removedSet[loc] {
				continue
			}
			removedSet[loc] = true
			nd, err := ls.detachClient(loc)
			if err != nil {
				return err
			}
			removed = append(removed, nd)
		}
	}

	for _, nd := range removed {
		best := ls.bestReinsertion(nd.LocationIndex, ce)
		if best == nil {
			continue
		}
		if err := ls.reinsertClient(best, nd); err != nil {
			return err
		}
	}
	return nil
}

// bestReinsertion returns the route whose end-of-route appended cost for
// locIdx is cheapest, or nil if no route exists. Greedy single-position
// reinsertion is a documented simplification (DESIGN.md "perturbation
// simplification"); the subsequent search() pass relocates the client
// further if a cheaper slot exists elsewhere.
func (ls *LocalSearch) bestReinsertion(locIdx int, ce *costeval.Evaluator) *route.Route {
	var best *route.Route
	var bestDelta int64
	for _, r := range ls.routes {
		oldCost, err := nodeops.RouteCost(r, ls.data, ce)
		if err != nil {
			continue
		}
		newCost, err := nodeops.FragmentCost(r, ls.data, ce, r.NumNodes()-1, r.NumNodes()-1, []int{locIdx})
		if err != nil {
			continue
		}
		delta := newCost - oldCost
		if best == nil || delta < bestDelta {
			best, bestDelta = r, delta
		}
	}
	return best
}
