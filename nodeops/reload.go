package nodeops

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrptypes"
)

// reloadAllowed reports whether locIdx is one of vt's permitted reload
// depots.
func reloadAllowed(vt vrptypes.VehicleType, locIdx int) bool {
	for _, d := range vt.ReloadDepots {
		if d == locIdx {
			return true
		}
	}
	return false
}

func numReloadsIn(r *route.Route) int {
	n := 0
	for i := 1; i < r.NumNodes()-1; i++ {
		nd, err := r.At(i)
		if err != nil {
			return n
		}
		if nd.IsReload() {
			n++
		}
	}
	return n
}

// RelocateWithDepot inserts a reload-depot visit right after anchor node
// u, for the reload-depot candidate named by v's LocationIndex. v must be
// detached (v.Route() == nil): it names a candidate depot, not a position,
// since a reload depot may be visited by any route any number of times up
// to MaxReloads.
type RelocateWithDepot struct{}

// Name implements Operator.
func (RelocateWithDepot) Name() string { return "RelocateWithDepot" }

// Supports implements Operator: requires at least one vehicle type with
// reload depots configured.
func (RelocateWithDepot) Supports(data *vrptypes.ProblemData) bool {
	for i := 0; i < data.NumVehicleTypes(); i++ {
		vt, err := data.VehicleType(i)
		if err == nil && len(vt.ReloadDepots) > 0 {
			return true
		}
	}
	return false
}

func (RelocateWithDepot) resolve(u, v *route.Node) (r *route.Route, pos, depotLoc int, ok bool) {
	r = u.Route()
	if r == nil || v.Route() != nil {
		return nil, 0, 0, false
	}
	if u.Index() < 0 || u.Index() > r.NumNodes()-1 {
		return nil, 0, 0, false
	}
	if !reloadAllowed(r.VehicleType(), v.LocationIndex) {
		return nil, 0, 0, false
	}
	if numReloadsIn(r)+1 > r.VehicleType().MaxReloads {
		return nil, 0, 0, false
	}
	return r, u.Index() + 1, v.LocationIndex, true
}

// Evaluate implements Operator.
func (op RelocateWithDepot) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	r, pos, depotLoc, ok := op.resolve(u, v)
	if !ok {
		return 0
	}
	oldCost, err := currentRouteCost(r, data, ce)
	if err != nil {
		return 0
	}
	newCost, err := rangeReplacementCost(r, data, ce, pos, pos, []int{depotLoc})
	if err != nil {
		return 0
	}
	return newCost - oldCost
}

// Apply implements Operator.
func (op RelocateWithDepot) Apply(u, v *route.Node) error {
	r, pos, depotLoc, ok := op.resolve(u, v)
	if !ok {
		return nil
	}
	if err := r.AddTrip(pos, depotLoc); err != nil {
		return err
	}
	return r.Update()
}

// RemoveAdjacentDepot removes the reload-depot node u from its route,
// merging the trips around it; v is unused but kept to satisfy the shared
// Operator signature.
type RemoveAdjacentDepot struct{}

// Name implements Operator.
func (RemoveAdjacentDepot) Name() string { return "RemoveAdjacentDepot" }

// Supports implements Operator.
func (RemoveAdjacentDepot) Supports(data *vrptypes.ProblemData) bool {
	return RelocateWithDepot{}.Supports(data)
}

// Evaluate implements Operator.
func (RemoveAdjacentDepot) Evaluate(u, _ *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	r := u.Route()
	if r == nil || !u.IsReload() {
		return 0
	}
	idx := u.Index()
	oldCost, err := currentRouteCost(r, data, ce)
	if err != nil {
		return 0
	}
	newCost, err := rangeReplacementCost(r, data, ce, idx, idx+1, nil)
	if err != nil {
		return 0
	}
	return newCost - oldCost
}

// Apply implements Operator.
func (RemoveAdjacentDepot) Apply(u, _ *route.Node) error {
	r := u.Route()
	if r == nil || !u.IsReload() {
		return nil
	}
	if err := r.RemoveAdjacentDepot(u.Index()); err != nil {
		return err
	}
	return r.Update()
}

// TripRelocate moves an existing reload-depot node u to the position right
// after v, within the same route: useful for
// sliding a trip boundary to better balance load between trips without
// changing which depot is used.
type TripRelocate struct{}

// Name implements Operator.
func (TripRelocate) Name() string { return "TripRelocate" }

// Supports implements Operator.
func (TripRelocate) Supports(data *vrptypes.ProblemData) bool {
	return RelocateWithDepot{}.Supports(data)
}

func (TripRelocate) resolve(u, v *route.Node) (r *route.Route, from, to int, ok bool) {
	r = u.Route()
	if r == nil || !u.IsReload() || v.Route() != r {
		return nil, 0, 0, false
	}
	from = u.Index()
	to = v.Index()
	if to == from || to == from-1 {
		return nil, 0, 0, false
	}
	return r, from, to, true
}

// Evaluate implements Operator. The removal and reinsertion of the reload
// node are folded into a single fragment-replacement call over the range
// spanning both positions, so no route cloning is needed to price the move.
func (op TripRelocate) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	r, from, to, ok := op.resolve(u, v)
	if !ok {
		return 0
	}
	return tripRelocateDelta(r, data, ce, from, to)
}

// Apply implements Operator.
func (op TripRelocate) Apply(u, v *route.Node) error {
	r, from, to, ok := op.resolve(u, v)
	if !ok {
		return nil
	}
	depotLoc := u.LocationIndex
	if err := r.RemoveAdjacentDepot(from); err != nil {
		return err
	}
	// The slot right after v: removal at `from` shifts v left by one when
	// it sat past the removed depot.
	insertAt := to + 1
	if to > from {
		insertAt = to
	}
	if err := r.AddTrip(insertAt, depotLoc); err != nil {
		return err
	}
	return r.Update()
}

// tripRelocateDelta prices moving the reload-depot node at position `from`
// to just after position `to` (both within the same route) as a single
// fragment replacement over the enclosing [lo,hi) range, so one
// rangeReplacementCost call captures both the removal and the reinsertion.
func tripRelocateDelta(r *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator, from, to int) int64 {
	depotLoc := r.ReloadVisits()[from]
	lo, hi := from, from+1
	if to < from {
		lo, hi = to+1, from+1
	} else if to > from {
		lo, hi = from, to+1
	}
	between, err := nodeLocs(r, lo, hi)
	if err != nil {
		return 0
	}
	fragment := make([]int, 0, len(between))
	for _, locIdx := range between {
		if locIdx == depotLoc {
			continue
		}
		fragment = append(fragment, locIdx)
	}
	if to < from {
		fragment = append([]int{depotLoc}, fragment...)
	} else {
		fragment = append(fragment, depotLoc)
	}
	oldCost, err := currentRouteCost(r, data, ce)
	if err != nil {
		return 0
	}
	newCost, err := rangeReplacementCost(r, data, ce, lo, hi, fragment)
	if err != nil {
		return 0
	}
	return newCost - oldCost
}
