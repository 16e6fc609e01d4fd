// Package vrptypes defines the immutable problem data and solution types of
// the VRP local-search core: Location, VehicleType, ClientGroup,
// ProblemData and Solution.
//
// ProblemData is built once, validated eagerly, and shared read-only across
// parallel local-search drivers; Solution values are immutable snapshots
// produced by the driver and consumed by callers. Neither type contains
// interior mutable state.
package vrptypes

import "fmt"

// Location is a depot or client in the problem.
//
// Depots use only Name, ServiceDuration, TWEarly and TWLate; Delivery,
// Pickup, Release, Prize and Required are meaningless for a depot and are
// not validated. GroupIndex is range-checked for every location, so a
// depot sets it to -1 (no group).
type Location struct {
	// Name is an optional diagnostic label; never load-bearing.
	Name string

	// IsDepot distinguishes a depot location from a client location.
	IsDepot bool

	// Delivery is the per-load-dimension delivery demand (clients only).
	Delivery []int64

	// Pickup is the per-load-dimension pickup demand (clients only).
	Pickup []int64

	// ServiceDuration is the time spent at the location on a visit.
	ServiceDuration int64

	// TWEarly and TWLate bound the feasible start-of-service window.
	TWEarly int64
	TWLate  int64

	// Release is the earliest time the client's demand becomes available
	// (clients only); must satisfy Release <= TWLate.
	Release int64

	// Prize is the reward collected when this (optional) client is visited.
	Prize int64

	// Required indicates the client must appear in every feasible solution.
	// Meaningless for depots, which are always visited when their route is
	// used.
	Required bool

	// GroupIndex references a ClientGroup this client belongs to, or -1.
	GroupIndex int
}

// Validate checks the location invariants: depot time window is
// non-empty; client tw_early <= tw_late; delivery, pickup, service
// duration, release time and prize are non-negative; release_time <=
// tw_late. numLoadDims is the number of load dimensions the problem uses.
func (l Location) Validate(numLoadDims int) error {
	if l.TWEarly > l.TWLate {
		return fmt.Errorf("vrptypes: %w: tw_early %d > tw_late %d", errInvalidTimeWindow, l.TWEarly, l.TWLate)
	}
	if l.ServiceDuration < 0 {
		return fmt.Errorf("vrptypes: %w: negative service duration", errNegativeValue)
	}
	if l.IsDepot {
		return nil
	}
	if len(l.Delivery) != numLoadDims || len(l.Pickup) != numLoadDims {
		return fmt.Errorf("vrptypes: %w: client load vector length mismatch", errDimensionMismatch)
	}
	for d := 0; d < numLoadDims; d++ {
		if l.Delivery[d] < 0 || l.Pickup[d] < 0 {
			return fmt.Errorf("vrptypes: %w: negative demand in dimension %d", errNegativeValue, d)
		}
	}
	if l.Release < 0 || l.Prize < 0 {
		return fmt.Errorf("vrptypes: %w: negative release or prize", errNegativeValue)
	}
	if l.Release > l.TWLate {
		return fmt.Errorf("vrptypes: %w: release %d > tw_late %d", errInvalidTimeWindow, l.Release, l.TWLate)
	}
	if l.Required && l.GroupIndex >= 0 {
		return fmt.Errorf("vrptypes: %w: required client cannot belong to a group", errInvalidGroup)
	}
	return nil
}
