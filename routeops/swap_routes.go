package routeops

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/nodeops"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrptypes"
)

// SwapRoutes exchanges the entire visit lists of two routes: only useful
// when the two routes' vehicle types differ, so that the same visits are
// now served under different capacity/cost/time-window parameters.
type SwapRoutes struct{}

// Name implements Operator.
func (SwapRoutes) Name() string { return "SwapRoutes" }

// Supports implements Operator.
func (SwapRoutes) Supports(data *vrptypes.ProblemData) bool { return data.NumVehicleTypes() > 1 }

// Evaluate implements Operator. Returns zero (no-op) when both routes use
// the same vehicle type, since exchanging identical parameters changes
// nothing.
func (SwapRoutes) Evaluate(a, b *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	if a == b || a.VehicleTypeIndex() == b.VehicleTypeIndex() {
		return 0
	}
	visitsA, visitsB := a.Visits(), b.Visits()
	oldA, err := nodeops.RouteCost(a, data, ce)
	if err != nil {
		return 0
	}
	oldB, err := nodeops.RouteCost(b, data, ce)
	if err != nil {
		return 0
	}
	newA, err := nodeops.FragmentCost(a, data, ce, 1, a.NumNodes()-1, visitsB)
	if err != nil {
		return 0
	}
	newB, err := nodeops.FragmentCost(b, data, ce, 1, b.NumNodes()-1, visitsA)
	if err != nil {
		return 0
	}
	return (newA - oldA) + (newB - oldB)
}

// Apply implements Operator.
func (SwapRoutes) Apply(a, b *route.Route) error {
	if a == b || a.VehicleTypeIndex() == b.VehicleTypeIndex() {
		return nil
	}
	visitsA, visitsB := a.Visits(), b.Visits()
	if err := nodeops.ApplyFragment(a, 1, a.NumNodes()-1, visitsB); err != nil {
		return err
	}
	return nodeops.ApplyFragment(b, 1, b.NumNodes()-1, visitsA)
}
