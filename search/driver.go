// Package search implements the local-search driver: the object that owns
// the mutable route/node state, applies node operators to
// a fixed point (search), applies route operators restricted to
// overlapping route pairs (intensify), and runs the full perturb -> search
// -> intensify cycle (call).
//
// The operator sets are ordered, user-configurable slices supplied through
// Options.
package search

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/neighbourhood"
	"github.com/vrpcore/localsearch/nodeops"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrprand"
	"github.com/vrpcore/localsearch/vrptypes"
)

// LocalSearch is a single-threaded cooperative driver: one instance owns
// exactly one search state and mutates it in place during a call; no
// operator retains a reference to a node or route between calls.
type LocalSearch struct {
	data        *vrptypes.ProblemData
	opts        Options
	neighbours  [][]int
	rng         *vrprand.Source

	routes         []*route.Route
	nodeByLocation map[int]*route.Node
}

// New builds a LocalSearch for data, computing the granular neighbourhood
// once up front from opts.
func New(data *vrptypes.ProblemData, opts Options) (*LocalSearch, error) {
	neighbours, err := neighbourhood.Build(data, neighbourhood.Params{
		NumNeighbours:       opts.NumNeighbours,
		Profile:             opts.NeighbourhoodProfile,
		WeightWaitTime:      opts.WeightWaitTime,
		WeightTimeWarp:      opts.WeightTimeWarp,
		SymmetricNeighbours: opts.SymmetricNeighbours,
	})
	if err != nil {
		return nil, err
	}
	return &LocalSearch{
		data:       data,
		opts:       opts,
		neighbours: neighbours,
		rng:        vrprand.New(opts.Seed),
	}, nil
}

// load populates ls.routes and ls.nodeByLocation from solution, creating
// one Route per SolutionRoute and one detached Node for every client not
// visited by any route.
func (ls *LocalSearch) load(solution *vrptypes.Solution) error {
	routes := make([]*route.Route, len(solution.Routes()))
	nodeByLocation := make(map[int]*route.Node, len(ls.data.Clients()))

	for i, rt := range solution.Routes() {
		r, err := route.New(ls.data, rt.VehicleType, i)
		if err != nil {
			return err
		}
		for _, loc := range rt.Visits {
			if ls.data.IsDepot(loc) {
				if err := r.AddTrip(r.NumNodes()-1, loc); err != nil {
					return err
				}
				continue
			}
			if err := r.Append(loc); err != nil {
				return err
			}
		}
		if err := r.Update(); err != nil {
			return err
		}
		routes[i] = r
		for pos := 1; pos < r.NumNodes()-1; pos++ {
			nd, err := r.At(pos)
			if err != nil {
				return err
			}
			if !nd.IsReload() {
				nodeByLocation[nd.LocationIndex] = nd
			}
		}
	}

	for _, loc := range ls.data.Clients() {
		if _, ok := nodeByLocation[loc]; !ok {
			nodeByLocation[loc] = route.NewNode(loc)
		}
	}

	ls.routes = routes
	ls.nodeByLocation = nodeByLocation
	return nil
}

// export reads the current route state back into an immutable Solution;
// whatever the route state is, the exported value reflects it verbatim.
func (ls *LocalSearch) export() (*vrptypes.Solution, error) {
	routes := make([]vrptypes.SolutionRoute, len(ls.routes))
	for i, r := range ls.routes {
		routes[i] = vrptypes.SolutionRoute{VehicleType: r.VehicleTypeIndex(), Visits: r.Visits()}
	}
	return vrptypes.NewSolution(ls.data, routes)
}

// routeStatistics builds the per-route detail attached to Statistics.
func (ls *LocalSearch) routeStatistics() ([]RouteStatistics, error) {
	out := make([]RouteStatistics, 0, len(ls.routes))
	numDims := ls.data.NumLoadDimensions()
	for _, r := range ls.routes {
		if r.IsEmpty() {
			continue
		}
		dist, err := r.Distance()
		if err != nil {
			return nil, err
		}
		dur, err := r.Duration()
		if err != nil {
			return nil, err
		}
		tw, err := r.TimeWarp()
		if err != nil {
			return nil, err
		}
		loads := make([]int64, numDims)
		for d := 0; d < numDims; d++ {
			loads[d], err = r.Load(d)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, RouteStatistics{
			VehicleType: r.VehicleTypeIndex(),
			Distance:    dist,
			Duration:    dur,
			Load:        loads,
			TimeWarp:    tw,
			NumTrips:    r.NumTrips(),
		})
	}
	return out, nil
}

// accepts reports whether delta is a strict improvement beyond
// Options.Eps; zero-delta moves are never applied.
func (ls *LocalSearch) accepts(delta int64) bool {
	return delta < -ls.opts.Eps
}

// searchPass runs node operators to a fixed point over the currently
// loaded state. Beyond the neighbour loop, every client is also offered
// the depot nodes of one empty route per
// vehicle type as anchors, so moves that turn an empty route non-empty
// (and pay its fixed cost) stay reachable; a detached required client is
// placed at its cheapest insertion position unconditionally, since leaving
// it out prices the whole solution at the maximum representable cost.
func (ls *LocalSearch) searchPass(ce *costeval.Evaluator) Statistics {
	var stats Statistics
	clients := append([]int(nil), ls.data.Clients()...)

	changed := true
	for changed {
		changed = false
		ls.rng.ShuffleInts(clients)
		for _, uLoc := range clients {
			u, ok := ls.nodeByLocation[uLoc]
			if !ok {
				continue
			}
			if u.Route() == nil {
				loc, err := ls.data.Location(uLoc)
				if err == nil && loc.Required {
					applied, err := ls.insertRequired(u, ce)
					if err == nil && applied {
						stats.Applications++
						stats.CacheUpdates++
						changed = true
						continue
					}
				}
			}

			anchors := ls.neighbourAnchors(uLoc)
			applied := false
			for _, v := range anchors {
				for _, op := range ls.opts.NodeOperators {
					if !op.Supports(ls.data) {
						continue
					}
					stats.Evaluations++
					delta := op.Evaluate(u, v, ls.data, ce)
					if !ls.accepts(delta) {
						continue
					}
					if err := op.Apply(u, v); err != nil {
						continue
					}
					stats.Applications++
					stats.CacheUpdates++
					changed = true
					applied = true
					break
				}
				if applied {
					break
				}
			}
			if applied {
				// Applied moves may have replaced the mutated routes'
				// nodes wholesale; refresh the location lookup before the
				// next client's candidates are resolved.
				ls.resyncNodes()
			}
		}
	}
	return stats
}

// neighbourAnchors resolves uLoc's granular neighbours into their current
// nodes and appends the depot nodes of one empty route per vehicle type.
func (ls *LocalSearch) neighbourAnchors(uLoc int) []*route.Node {
	anchors := make([]*route.Node, 0, len(ls.neighbours[uLoc])+2*ls.data.NumVehicleTypes())
	for _, vLoc := range ls.neighbours[uLoc] {
		if v, ok := ls.nodeByLocation[vLoc]; ok {
			anchors = append(anchors, v)
		}
	}
	seen := make(map[int]bool, ls.data.NumVehicleTypes())
	for _, r := range ls.routes {
		if !r.IsEmpty() || seen[r.VehicleTypeIndex()] {
			continue
		}
		seen[r.VehicleTypeIndex()] = true
		start, err := r.At(0)
		if err != nil {
			continue
		}
		end, err := r.At(r.NumNodes() - 1)
		if err != nil {
			continue
		}
		// The start depot anchors insert-after moves, the end depot
		// anchors relocate-before moves; operators reject whichever of
		// the two makes no structural sense for them.
		anchors = append(anchors, start, end)
	}
	return anchors
}

// insertRequired places the detached required client u at its cheapest
// insertion position among its neighbours' routes and one empty route per
// vehicle type, regardless of the delta's sign.
func (ls *LocalSearch) insertRequired(u *route.Node, ce *costeval.Evaluator) (bool, error) {
	var (
		bestRoute *route.Route
		bestPos   int
		bestDelta int64
	)
	consider := func(r *route.Route, pos int) {
		if r == nil || pos < 1 || pos > r.NumNodes()-1 {
			return
		}
		oldCost, err := nodeops.RouteCost(r, ls.data, ce)
		if err != nil {
			return
		}
		newCost, err := nodeops.FragmentCost(r, ls.data, ce, pos, pos, []int{u.LocationIndex})
		if err != nil {
			return
		}
		if delta := newCost - oldCost; bestRoute == nil || delta < bestDelta {
			bestRoute, bestPos, bestDelta = r, pos, delta
		}
	}

	for _, vLoc := range ls.neighbours[u.LocationIndex] {
		v, ok := ls.nodeByLocation[vLoc]
		if !ok || v.Route() == nil {
			continue
		}
		consider(v.Route(), v.Index()+1)
	}
	seen := make(map[int]bool, ls.data.NumVehicleTypes())
	for _, r := range ls.routes {
		if !r.IsEmpty() || seen[r.VehicleTypeIndex()] {
			continue
		}
		seen[r.VehicleTypeIndex()] = true
		consider(r, 1)
	}
	if bestRoute == nil {
		// Neighbourhood gave no routed anchor and no route is empty; fall
		// back to appending before any route's end depot.
		for _, r := range ls.routes {
			consider(r, r.NumNodes()-1)
		}
	}
	if bestRoute == nil {
		return false, nil
	}
	if err := bestRoute.InsertNode(bestPos, u); err != nil {
		return false, err
	}
	return true, bestRoute.Update()
}

// resyncNodes repairs nodeByLocation after an applied move: operators that
// rebuild a node range allocate fresh nodes, leaving the previous lookup
// entries detached. Routed clients win over stale detached entries; a
// client routed nowhere keeps its detached entry, which remains valid as
// an insertion argument.
func (ls *LocalSearch) resyncNodes() {
	for _, r := range ls.routes {
		for pos := 1; pos < r.NumNodes()-1; pos++ {
			nd, err := r.At(pos)
			if err != nil || nd.IsReload() {
				continue
			}
			ls.nodeByLocation[nd.LocationIndex] = nd
		}
	}
}

// routeOverlaps reports whether route b is within Options.OverlapTolerance
// of route a (see DESIGN.md "overlap tolerance"): the fraction of a's
// clients that count at least one of b's clients among their granular
// neighbours must reach the tolerance.
func (ls *LocalSearch) routeOverlaps(a, b *route.Route) bool {
	aVisits := a.Visits()
	if len(aVisits) == 0 {
		return false
	}
	bSet := make(map[int]bool, len(b.Visits()))
	for _, loc := range b.Visits() {
		bSet[loc] = true
	}
	hits := 0
	for _, loc := range aVisits {
		for _, n := range ls.neighbours[loc] {
			if bSet[n] {
				hits++
				break
			}
		}
	}
	return float64(hits)/float64(len(aVisits)) >= ls.opts.OverlapTolerance
}

// intensifyPass runs route operators to a fixed point over overlapping
// route pairs.
func (ls *LocalSearch) intensifyPass(ce *costeval.Evaluator) Statistics {
	var stats Statistics

	changed := true
	for changed {
		changed = false
		for i, a := range ls.routes {
			for j, b := range ls.routes {
				if i == j || !ls.routeOverlaps(a, b) {
					continue
				}
				for _, op := range ls.opts.RouteOperators {
					if !op.Supports(ls.data) {
						continue
					}
					stats.Evaluations++
					delta := op.Evaluate(a, b, ls.data, ce)
					if !ls.accepts(delta) {
						continue
					}
					if err := op.Apply(a, b); err != nil {
						continue
					}
					stats.Applications++
					stats.CacheUpdates++
					changed = true
				}
			}
		}
	}
	return stats
}

// Search loads solution, applies node operators to a fixed point, and
// exports the result.
func (ls *LocalSearch) Search(solution *vrptypes.Solution, ce *costeval.Evaluator) (*vrptypes.Solution, Statistics, error) {
	if err := ls.load(solution); err != nil {
		return nil, Statistics{}, err
	}
	stats := ls.searchPass(ce)
	routeStats, err := ls.routeStatistics()
	if err != nil {
		return nil, Statistics{}, err
	}
	stats.Routes = routeStats
	sol, err := ls.export()
	return sol, stats, err
}

// Intensify loads solution, applies route operators to a fixed point
// restricted to overlapping route pairs, and exports the result.
func (ls *LocalSearch) Intensify(solution *vrptypes.Solution, ce *costeval.Evaluator, overlapTolerance float64) (*vrptypes.Solution, Statistics, error) {
	if err := ls.load(solution); err != nil {
		return nil, Statistics{}, err
	}
	ls.opts.OverlapTolerance = overlapTolerance
	stats := ls.intensifyPass(ce)
	routeStats, err := ls.routeStatistics()
	if err != nil {
		return nil, Statistics{}, err
	}
	stats.Routes = routeStats
	sol, err := ls.export()
	return sol, stats, err
}

// Call runs one full perturb -> search -> intensify cycle and exports the
// result.
func (ls *LocalSearch) Call(solution *vrptypes.Solution, ce *costeval.Evaluator) (*vrptypes.Solution, Statistics, error) {
	if err := ls.load(solution); err != nil {
		return nil, Statistics{}, err
	}

	var stats Statistics
	if ls.opts.Perturbation != nil {
		if err := ls.opts.Perturbation.Perturb(ls, ce); err != nil {
			return nil, Statistics{}, err
		}
	}
	stats.merge(ls.searchPass(ce))
	stats.merge(ls.intensifyPass(ce))

	routeStats, err := ls.routeStatistics()
	if err != nil {
		return nil, Statistics{}, err
	}
	stats.Routes = routeStats

	sol, err := ls.export()
	return sol, stats, err
}

// detachClient removes a client from its current route (if any) and
// returns its Node, updating the route's caches. Used by Perturbation
// implementations, which operate on a LocalSearch's loaded state directly
// rather than through the public node-operator surface.
func (ls *LocalSearch) detachClient(loc int) (*route.Node, error) {
	nd, ok := ls.nodeByLocation[loc]
	if !ok {
		return nil, errOutOfRange
	}
	r := nd.Route()
	if r == nil {
		return nd, nil
	}
	removed, err := r.RemoveNode(nd)
	if err != nil {
		return nil, err
	}
	if err := r.Update(); err != nil {
		return nil, err
	}
	return removed, nil
}

// reinsertClient appends a detached client's Node to the end of route r's
// client sequence. Used by Perturbation implementations for regret
// reinsertion.
func (ls *LocalSearch) reinsertClient(r *route.Route, nd *route.Node) error {
	if err := r.InsertNode(r.NumNodes()-1, nd); err != nil {
		return err
	}
	return r.Update()
}
