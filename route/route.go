package route

import (
	"github.com/vrpcore/localsearch/segment"
	"github.com/vrpcore/localsearch/vrptypes"
)

// Route is a single vehicle's planned sequence of Nodes: start depot, zero
// or more clients interleaved with optional reload depots, end depot. It
// caches, for every index, the prefix and suffix
// concatenation segment across Duration, Load (one per dimension) and
// Distance, stored as flat slices keyed by node position and rebuilt by
// Update in one O(n) left scan and one O(n) right scan.
type Route struct {
	data           *vrptypes.ProblemData
	vehicleType    vrptypes.VehicleType
	vehicleTypeIdx int
	routeIdx       int

	nodes []*Node

	prefixDist []segment.Distance
	suffixDist []segment.Distance
	prefixDur  []segment.Duration
	suffixDur  []segment.Duration
	prefixLoad [][]segment.Load // [dim][position]
	suffixLoad [][]segment.Load // [dim][position]

	dirty bool
}

// New builds a fresh Route for vehicleTypeIdx containing only the vehicle
// type's start and end depot, and runs Update once so it starts clean.
func New(data *vrptypes.ProblemData, vehicleTypeIdx, routeIdx int) (*Route, error) {
	vt, err := data.VehicleType(vehicleTypeIdx)
	if err != nil {
		return nil, err
	}
	start := NewNode(vt.StartDepot)
	end := NewNode(vt.EndDepot)
	r := &Route{
		data:           data,
		vehicleType:    vt,
		vehicleTypeIdx: vehicleTypeIdx,
		routeIdx:       routeIdx,
		nodes:          []*Node{start, end},
	}
	start.route, end.route = r, r
	if err := r.Update(); err != nil {
		return nil, err
	}
	return r, nil
}

// VehicleTypeIndex returns the index of the vehicle type this route uses.
func (r *Route) VehicleTypeIndex() int { return r.vehicleTypeIdx }

// VehicleType returns the vehicle type this route uses.
func (r *Route) VehicleType() vrptypes.VehicleType { return r.vehicleType }

// RouteIndex returns this route's position among its driver's route list.
func (r *Route) RouteIndex() int { return r.routeIdx }

// NumNodes returns the number of nodes, including the two structural
// depots.
func (r *Route) NumNodes() int { return len(r.nodes) }

// NumClients returns the number of client visits (excludes depots and
// reload depots).
func (r *Route) NumClients() int {
	n := 0
	for _, nd := range r.nodes {
		if !nd.isReload && nd.index != 0 && nd.index != len(r.nodes)-1 {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the route carries no clients (only its two
// structural depots).
func (r *Route) IsEmpty() bool { return r.NumClients() == 0 }

// At returns the node at position idx.
func (r *Route) At(idx int) (*Node, error) {
	if idx < 0 || idx >= len(r.nodes) {
		return nil, errOutOfRange
	}
	return r.nodes[idx], nil
}

// isReloadAt reports whether position idx holds a reload-depot node.
func (r *Route) isReloadAt(idx int) bool {
	if idx < 0 || idx >= len(r.nodes) {
		return false
	}
	return r.nodes[idx].isReload
}

// Dirty reports whether Update must run before an accessor may be trusted.
func (r *Route) Dirty() bool { return r.dirty }

// Append inserts a new client node for locationIndex immediately before the
// end depot, and marks the route dirty. Complexity: O(1) amortised.
func (r *Route) Append(locationIndex int) error {
	return r.Insert(len(r.nodes)-1, locationIndex)
}

// Insert places a new node for locationIndex at position idx, shifting
// subsequent nodes right. idx must be in [1, len(nodes)-1] -- position 0
// is the start depot and may never be displaced. A depot location inserted
// strictly between the structural depots can only be a reload visit and is
// marked as such, so operators that rebuild a node range from raw location
// indices preserve trip bookkeeping.
// Complexity: O(n).
func (r *Route) Insert(idx int, locationIndex int) error {
	if idx < 1 || idx > len(r.nodes)-1 {
		return errOutOfRange
	}
	node := NewNode(locationIndex)
	if r.data.IsDepot(locationIndex) {
		node.isReload = true
	}
	r.nodes = append(r.nodes, nil)
	copy(r.nodes[idx+1:], r.nodes[idx:])
	r.nodes[idx] = node
	node.route = r
	r.dirty = true
	return nil
}

// InsertNode places an existing, detached Node at position idx. Used by
// operators that relocate a node between routes without reallocating it.
func (r *Route) InsertNode(idx int, node *Node) error {
	if idx < 1 || idx > len(r.nodes)-1 {
		return errOutOfRange
	}
	r.nodes = append(r.nodes, nil)
	copy(r.nodes[idx+1:], r.nodes[idx:])
	r.nodes[idx] = node
	node.route = r
	r.dirty = true
	return nil
}

// Remove deletes the node at position idx. idx must not be the start depot
// (0) or end depot (len-1); those are structural and may never be
// removed. Complexity: O(n).
func (r *Route) Remove(idx int) error {
	if idx <= 0 || idx >= len(r.nodes)-1 {
		return errRemoveDepot
	}
	removed := r.nodes[idx]
	r.nodes = append(r.nodes[:idx], r.nodes[idx+1:]...)
	removed.route = nil
	removed.index = -1
	removed.tripIndex = -1
	r.dirty = true
	return nil
}

// RemoveNode removes node from the route, returning it detached. It is the
// caller's responsibility to reinsert or discard the returned node.
func (r *Route) RemoveNode(node *Node) (*Node, error) {
	if node.route != r {
		return nil, errNodeNotInRoute
	}
	idx := node.index
	if err := r.Remove(idx); err != nil {
		return nil, err
	}
	return node, nil
}

// Clear removes every client and reload-depot node, leaving only the start
// and end depot. Complexity: O(n) in the number of removed nodes.
func (r *Route) Clear() error {
	start, end := r.nodes[0], r.nodes[len(r.nodes)-1]
	for _, nd := range r.nodes[1 : len(r.nodes)-1] {
		nd.route = nil
		nd.index = -1
		nd.tripIndex = -1
	}
	r.nodes = []*Node{start, end}
	r.dirty = true
	return nil
}

// Swap exchanges the positions of node a (at index i in route ra) and node
// b (at index j in route rb), which may be the same route. Modeled as a
// package-level operation since it spans two routes.
// Complexity: O(1).
func Swap(ra *Route, i int, rb *Route, j int) error {
	if i < 0 || i >= len(ra.nodes) || j < 0 || j >= len(rb.nodes) {
		return errOutOfRange
	}
	if (ra == rb && i == j) {
		return nil
	}
	if i == 0 || i == len(ra.nodes)-1 || j == 0 || j == len(rb.nodes)-1 {
		return errRemoveDepot
	}
	ra.nodes[i], rb.nodes[j] = rb.nodes[j], ra.nodes[i]
	ra.nodes[i].route, ra.nodes[i].index = ra, i
	rb.nodes[j].route, rb.nodes[j].index = rb, j
	ra.dirty, rb.dirty = true, true
	return nil
}

// AddTrip inserts a reload-depot node for reloadDepotIndex at position idx
// (which must lie strictly between the existing start and end depots),
// after checking the resulting trip count does not exceed
// VehicleType.MaxReloads+1. Complexity: O(n).
func (r *Route) AddTrip(idx, reloadDepotIndex int) error {
	if idx < 1 || idx > len(r.nodes)-1 {
		return errOutOfRange
	}
	numReloads := 0
	for _, nd := range r.nodes {
		if nd.isReload {
			numReloads++
		}
	}
	if numReloads+1 > r.vehicleType.MaxReloads {
		return errMaxReloadsExceeded
	}
	node := NewNode(reloadDepotIndex)
	node.isReload = true
	r.nodes = append(r.nodes, nil)
	copy(r.nodes[idx+1:], r.nodes[idx:])
	r.nodes[idx] = node
	node.route = r
	r.dirty = true
	return nil
}

// RemoveAdjacentDepot removes the reload-depot node at position idx,
// merging the trip before and after it into one. idx must currently hold
// a reload depot.
func (r *Route) RemoveAdjacentDepot(idx int) error {
	if idx <= 0 || idx >= len(r.nodes)-1 || !r.nodes[idx].isReload {
		return errOutOfRange
	}
	return r.Remove(idx)
}

// Update rebuilds the prefix/suffix caches and repairs each node's index
// and trip index. Must be called after any mutation and before any other
// operator evaluates against this route. Complexity: O(n *
// numLoadDimensions).
func (r *Route) Update() error {
	n := len(r.nodes)
	numDims := r.data.NumLoadDimensions()

	r.prefixDist = make([]segment.Distance, n)
	r.suffixDist = make([]segment.Distance, n)
	r.prefixDur = make([]segment.Duration, n)
	r.suffixDur = make([]segment.Duration, n)
	r.prefixLoad = make([][]segment.Load, numDims)
	r.suffixLoad = make([][]segment.Load, numDims)
	for d := 0; d < numDims; d++ {
		r.prefixLoad[d] = make([]segment.Load, n)
		r.suffixLoad[d] = make([]segment.Load, n)
	}

	distMatrix, err := r.data.DistanceMatrix(r.vehicleType.Profile)
	if err != nil {
		return err
	}
	durMatrix, err := r.data.DurationMatrix(r.vehicleType.Profile)
	if err != nil {
		return err
	}

	trip := 0
	for i, nd := range r.nodes {
		nd.index = i
		if i > 0 && nd.isReload {
			trip++
		}
		nd.tripIndex = trip

		loc, err := r.data.Location(nd.LocationIndex)
		if err != nil {
			return err
		}
		twEarly, twLate := loc.TWEarly, loc.TWLate
		if i == 0 {
			twEarly, twLate = r.vehicleType.TWEarly, r.vehicleType.StartLate
		} else if i == n-1 {
			twLate = r.vehicleType.TWLate
		}
		nodeDur := segment.DurationFromLocation(nd.LocationIndex, loc.ServiceDuration, twEarly, twLate, loc.Release)
		nodeDist := segment.DistanceFromLocation()

		if i == 0 {
			r.prefixDist[i] = nodeDist
			r.prefixDur[i] = nodeDur
			for d := 0; d < numDims; d++ {
				r.prefixLoad[d][i] = nodeLoad(loc, d)
			}
			continue
		}

		prev := r.nodes[i-1]
		travelDist, err := distMatrix.At(prev.LocationIndex, nd.LocationIndex)
		if err != nil {
			return err
		}
		travelDur, err := durMatrix.At(prev.LocationIndex, nd.LocationIndex)
		if err != nil {
			return err
		}
		r.prefixDist[i], err = segment.MergeDistance(travelDist, r.prefixDist[i-1], nodeDist)
		if err != nil {
			return err
		}
		r.prefixDur[i], err = segment.MergeDuration(travelDur, r.prefixDur[i-1], nodeDur)
		if err != nil {
			return err
		}
		for d := 0; d < numDims; d++ {
			r.prefixLoad[d][i], err = segment.MergeLoad(r.prefixLoad[d][i-1], nodeLoad(loc, d))
			if err != nil {
				return err
			}
		}
	}

	for i := n - 1; i >= 0; i-- {
		nd := r.nodes[i]
		loc, err := r.data.Location(nd.LocationIndex)
		if err != nil {
			return err
		}
		twEarly, twLate := loc.TWEarly, loc.TWLate
		if i == 0 {
			twEarly, twLate = r.vehicleType.TWEarly, r.vehicleType.StartLate
		} else if i == n-1 {
			twLate = r.vehicleType.TWLate
		}
		nodeDur := segment.DurationFromLocation(nd.LocationIndex, loc.ServiceDuration, twEarly, twLate, loc.Release)
		nodeDist := segment.DistanceFromLocation()

		if i == n-1 {
			r.suffixDist[i] = nodeDist
			r.suffixDur[i] = nodeDur
			for d := 0; d < numDims; d++ {
				r.suffixLoad[d][i] = nodeLoad(loc, d)
			}
			continue
		}

		next := r.nodes[i+1]
		travelDist, err := distMatrix.At(nd.LocationIndex, next.LocationIndex)
		if err != nil {
			return err
		}
		travelDur, err := durMatrix.At(nd.LocationIndex, next.LocationIndex)
		if err != nil {
			return err
		}
		r.suffixDist[i], err = segment.MergeDistance(travelDist, nodeDist, r.suffixDist[i+1])
		if err != nil {
			return err
		}
		r.suffixDur[i], err = segment.MergeDuration(travelDur, nodeDur, r.suffixDur[i+1])
		if err != nil {
			return err
		}
		for d := 0; d < numDims; d++ {
			r.suffixLoad[d][i], err = segment.MergeLoad(nodeLoad(loc, d), r.suffixLoad[d][i+1])
			if err != nil {
				return err
			}
		}
	}

	for d := 0; d < numDims; d++ {
		for i := 0; i < n; i++ {
			r.prefixLoad[d][i].Current += r.vehicleType.InitialLoad[d]
			r.suffixLoad[d][i].Current += r.vehicleType.InitialLoad[d]
		}
	}

	r.dirty = false
	return nil
}

func nodeLoad(loc vrptypes.Location, dim int) segment.Load {
	if loc.IsDepot {
		return segment.LoadFromLocation(0, 0)
	}
	return segment.LoadFromLocation(loc.Delivery[dim], loc.Pickup[dim])
}

// PrefixDistance returns the cached Distance segment for nodes [0..i].
func (r *Route) PrefixDistance(i int) (segment.Distance, error) {
	if r.dirty {
		return segment.Distance{}, errRouteDirty
	}
	if i < 0 || i >= len(r.nodes) {
		return segment.Distance{}, errOutOfRange
	}
	return r.prefixDist[i], nil
}

// SuffixDistance returns the cached Distance segment for nodes [i..last].
func (r *Route) SuffixDistance(i int) (segment.Distance, error) {
	if r.dirty {
		return segment.Distance{}, errRouteDirty
	}
	if i < 0 || i >= len(r.nodes) {
		return segment.Distance{}, errOutOfRange
	}
	return r.suffixDist[i], nil
}

// PrefixDuration returns the cached Duration segment for nodes [0..i].
func (r *Route) PrefixDuration(i int) (segment.Duration, error) {
	if r.dirty {
		return segment.Duration{}, errRouteDirty
	}
	if i < 0 || i >= len(r.nodes) {
		return segment.Duration{}, errOutOfRange
	}
	return r.prefixDur[i], nil
}

// SuffixDuration returns the cached Duration segment for nodes [i..last].
func (r *Route) SuffixDuration(i int) (segment.Duration, error) {
	if r.dirty {
		return segment.Duration{}, errRouteDirty
	}
	if i < 0 || i >= len(r.nodes) {
		return segment.Duration{}, errOutOfRange
	}
	return r.suffixDur[i], nil
}

// PrefixLoad returns the cached Load segment for dimension dim, nodes
// [0..i].
func (r *Route) PrefixLoad(dim, i int) (segment.Load, error) {
	if r.dirty {
		return segment.Load{}, errRouteDirty
	}
	if dim < 0 || dim >= len(r.prefixLoad) || i < 0 || i >= len(r.nodes) {
		return segment.Load{}, errOutOfRange
	}
	return r.prefixLoad[dim][i], nil
}

// SuffixLoad returns the cached Load segment for dimension dim, nodes
// [i..last].
func (r *Route) SuffixLoad(dim, i int) (segment.Load, error) {
	if r.dirty {
		return segment.Load{}, errRouteDirty
	}
	if dim < 0 || dim >= len(r.suffixLoad) || i < 0 || i >= len(r.nodes) {
		return segment.Load{}, errOutOfRange
	}
	return r.suffixLoad[dim][i], nil
}

// Distance returns the whole route's travelled distance.
func (r *Route) Distance() (int64, error) {
	d, err := r.PrefixDistance(len(r.nodes) - 1)
	if err != nil {
		return 0, err
	}
	return d.Distance, nil
}

// Duration returns the whole route's total duration.
func (r *Route) Duration() (int64, error) {
	d, err := r.PrefixDuration(len(r.nodes) - 1)
	if err != nil {
		return 0, err
	}
	return d.Duration, nil
}

// Load returns the whole route's carried load in dimension dim.
func (r *Route) Load(dim int) (int64, error) {
	l, err := r.PrefixLoad(dim, len(r.nodes)-1)
	if err != nil {
		return 0, err
	}
	return l.Current, nil
}

// TimeWarp returns the whole route's accumulated time warp.
func (r *Route) TimeWarp() (int64, error) {
	d, err := r.PrefixDuration(len(r.nodes) - 1)
	if err != nil {
		return 0, err
	}
	return d.TotalTimeWarp(), nil
}

// ExcessDistance returns max(0, Distance() - MaxDistance), or 0 if
// unconstrained.
func (r *Route) ExcessDistance() (int64, error) {
	if r.vehicleType.MaxDistance == vrptypes.NoLimit {
		return 0, nil
	}
	d, err := r.Distance()
	if err != nil {
		return 0, err
	}
	if over := d - r.vehicleType.MaxDistance; over > 0 {
		return over, nil
	}
	return 0, nil
}

// ExcessLoad returns max(0, Load(dim) - Capacity[dim]).
func (r *Route) ExcessLoad(dim int) (int64, error) {
	l, err := r.Load(dim)
	if err != nil {
		return 0, err
	}
	if dim < 0 || dim >= len(r.vehicleType.Capacity) {
		return 0, errOutOfRange
	}
	if over := l - r.vehicleType.Capacity[dim]; over > 0 {
		return over, nil
	}
	return 0, nil
}

// NumTrips returns the number of trips in the route (1 + number of reload
// depots visited).
func (r *Route) NumTrips() int {
	if len(r.nodes) == 0 {
		return 0
	}
	return r.nodes[len(r.nodes)-1].tripIndex + 1
}

// IsFeasible reports whether the route violates no capacity, distance,
// time-window, or reload-count constraint.
func (r *Route) IsFeasible() (bool, error) {
	if r.dirty {
		return false, errRouteDirty
	}
	tw, err := r.TimeWarp()
	if err != nil {
		return false, err
	}
	if tw != 0 {
		return false, nil
	}
	if r.NumTrips() > r.vehicleType.MaxReloads+1 {
		return false, nil
	}
	ed, err := r.ExcessDistance()
	if err != nil {
		return false, err
	}
	if ed != 0 {
		return false, nil
	}
	for d := 0; d < r.data.NumLoadDimensions(); d++ {
		el, err := r.ExcessLoad(d)
		if err != nil {
			return false, err
		}
		if el != 0 {
			return false, nil
		}
	}
	return true, nil
}

// Visits returns the location indices of every node between the two
// structural depots, reload depots included inline -- the representation
// consumed by vrptypes.SolutionRoute.
func (r *Route) Visits() []int {
	out := make([]int, 0, len(r.nodes))
	for i, nd := range r.nodes {
		if i == 0 || i == len(r.nodes)-1 {
			continue
		}
		out = append(out, nd.LocationIndex)
	}
	return out
}

// ReloadVisits returns the location indices of every node in the route,
// including structural depots and reload depots, in order.
func (r *Route) ReloadVisits() []int {
	out := make([]int, len(r.nodes))
	for i, nd := range r.nodes {
		out[i] = nd.LocationIndex
	}
	return out
}
