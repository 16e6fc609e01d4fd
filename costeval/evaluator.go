// Package costeval implements the penalized-cost evaluator: a scalar
// objective over a Solution, plus the three independently unit-testable
// penalty functions it is built from.
//
// The evaluator is small, allocation-conscious and side-effect-free; it
// trusts ProblemData's own invariant checks and only re-validates what
// crosses its own boundary (penalty weights).
package costeval

import (
	"github.com/vrpcore/localsearch/vrperr"
	"github.com/vrpcore/localsearch/vrptypes"
)

// WeaknessCallback is invoked when a penalty weight is set to its upper
// bound (math.MaxInt64) -- observational only, never surfaced as an error.
type WeaknessCallback func(msg string)

// Evaluator holds the cost weights used to price a Solution: per-load-
// dimension capacity penalties, a time-warp penalty, an excess-distance
// penalty and an excess-duration penalty. Decoupling these weights from
// ProblemData lets an outer search anneal them between calls.
type Evaluator struct {
	loadPenalty []int64
	twPenalty   int64
	distPenalty int64
	durPenalty  int64
	onWeakness  WeaknessCallback
}

// Option configures an Evaluator built by New.
type Option func(*Evaluator)

// WithWeaknessCallback installs the advisory callback fired when a penalty
// weight is configured at its numeric upper bound.
func WithWeaknessCallback(cb WeaknessCallback) Option {
	return func(e *Evaluator) { e.onWeakness = cb }
}

// New builds an Evaluator. loadPenalty must have one entry per load
// dimension; all weights must be non-negative.
func New(loadPenalty []int64, twPenalty, distPenalty, durPenalty int64, opts ...Option) (*Evaluator, error) {
	if twPenalty < 0 || distPenalty < 0 || durPenalty < 0 {
		return nil, vrperr.ErrNegativeValue
	}
	for _, p := range loadPenalty {
		if p < 0 {
			return nil, vrperr.ErrNegativeValue
		}
	}
	e := &Evaluator{
		loadPenalty: append([]int64(nil), loadPenalty...),
		twPenalty:   twPenalty,
		distPenalty: distPenalty,
		durPenalty:  durPenalty,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.warnIfAtBound(append([]int64{twPenalty, distPenalty, durPenalty}, loadPenalty...)...)
	return e, nil
}

func (e *Evaluator) warnIfAtBound(weights ...int64) {
	if e.onWeakness == nil {
		return
	}
	for _, w := range weights {
		if w == vrperr.MaxCost {
			e.onWeakness("costeval: penalty weight set to the maximum representable cost")
			return
		}
	}
}

// LoadPenalty returns penalty[dim] * max(0, load - capacity).
// Complexity: O(1).
func (e *Evaluator) LoadPenalty(load, capacity int64, dim int) int64 {
	if dim < 0 || dim >= len(e.loadPenalty) {
		return 0
	}
	over := load - capacity
	if over <= 0 {
		return 0
	}
	return e.loadPenalty[dim] * over
}

// TWPenalty returns twPenalty * timeWarp.
// Complexity: O(1).
func (e *Evaluator) TWPenalty(timeWarp int64) int64 {
	if timeWarp <= 0 {
		return 0
	}
	return e.twPenalty * timeWarp
}

// DistPenalty returns distPenalty * max(0, distance - maxDistance).
// Complexity: O(1).
func (e *Evaluator) DistPenalty(distance, maxDistance int64) int64 {
	over := distance - maxDistance
	if over <= 0 {
		return 0
	}
	return e.distPenalty * over
}

// DurPenalty returns durPenalty * max(0, duration - maxDuration). Not named
// a separate penalty dimension in most formulations but symmetric with
// DistPenalty and needed to
// price VehicleType.MaxDuration violations.
// Complexity: O(1).
func (e *Evaluator) DurPenalty(duration, maxDuration int64) int64 {
	over := duration - maxDuration
	if over <= 0 {
		return 0
	}
	return e.durPenalty * over
}

// travelAndFixedCost sums the unpenalized travel/fixed/prize terms common to
// Cost and PenalisedCost.
func travelAndFixedCost(sol *vrptypes.Solution) int64 {
	return sol.DistanceCost() + sol.DurationCost() + sol.FixedVehicleCost() -
		sol.CollectedPrizes() + sol.UncollectedPrizes()
}

// Cost returns the sum of travel/fixed/prize cost for a feasible Solution,
// or vrperr.MaxCost if sol is infeasible.
// Complexity: O(1) given a Solution's already-aggregated quantities.
func (e *Evaluator) Cost(sol *vrptypes.Solution) int64 {
	if !sol.IsFeasible() {
		return vrperr.MaxCost
	}
	return travelAndFixedCost(sol)
}

// PenalisedCost returns the travel/fixed/prize cost plus every penalty term,
// even when sol is infeasible. Complexity: O(numLoadDimensions).
func (e *Evaluator) PenalisedCost(sol *vrptypes.Solution) int64 {
	total := travelAndFixedCost(sol)
	for dim, excess := range sol.ExcessLoad() {
		if dim >= len(e.loadPenalty) {
			break
		}
		total += e.loadPenalty[dim] * excess
	}
	total += e.twPenalty * sol.TimeWarp()
	total += e.distPenalty * sol.ExcessDistance()
	total += e.durPenalty * sol.ExcessDuration()
	return total
}
