// Duration segment algebra.
//
// A Duration value summarises the schedule state of a contiguous run of
// route nodes: how long it takes to traverse, how much time warp it has
// already accumulated, the window of feasible start times for the run as a
// whole, and the latest release time among its nodes.
//
// Merge composes two adjacent Duration values (with the travel time between
// them already looked up by the caller) into the Duration for their
// concatenation, in O(1). The formula is the standard forward-time-slack
// concatenation algebra from the VRPTW local-search literature (Vidal et
// al.); see DESIGN.md for the derivation.
package segment

import (
	"math"

	"github.com/vrpcore/localsearch/vrperr"
)

// boundHalf keeps identity windows far from the int64 edges so that a chain
// of merges cannot itself overflow before a real violation would.
const boundHalf = math.MaxInt64 / 4

// Duration is a concatenation segment over the duration/time-window
// dimension of a contiguous run of route nodes.
type Duration struct {
	First    int   // location index of the first node in the run, -1 if empty
	Last     int   // location index of the last node in the run, -1 if empty
	Duration int64 // total duration of the run, including travel and waiting
	TimeWarp int64 // time warp already incurred within the run
	TWEarly  int64 // earliest feasible start time for the run
	TWLate   int64 // latest feasible start time for the run
	Release  int64 // latest release time among the run's nodes
}

// IdentityDuration returns the neutral element for Merge: zero
// duration/time-warp, an unbounded start window, and no release time.
// Complexity: O(1).
func IdentityDuration() Duration {
	return Duration{First: -1, Last: -1, TWEarly: -boundHalf, TWLate: boundHalf}
}

// IsIdentity reports whether d is the empty/identity segment.
func (d Duration) IsIdentity() bool { return d.First == -1 && d.Last == -1 }

// DurationFromLocation builds the single-node Duration segment for a
// location with the given service duration and time window.
// Complexity: O(1).
func DurationFromLocation(locIdx int, serviceDuration, twEarly, twLate, release int64) Duration {
	return Duration{
		First:    locIdx,
		Last:     locIdx,
		Duration: serviceDuration,
		TWEarly:  twEarly,
		TWLate:   twLate,
		Release:  release,
	}
}

// TotalTimeWarp returns the time warp of this segment plus its release-time
// contribution: the run cannot start before its latest release time, so a
// release time past the latest feasible start is unrecoverable and counts
// as additional time warp.
func (d Duration) TotalTimeWarp() int64 {
	return d.TimeWarp + maxInt64(0, d.Release-d.TWLate)
}

// MergeDuration computes the Duration segment for the concatenation of a
// followed by b, given the travel duration between a.Last and b.First.
// Returns ErrOverflow if any intermediate arithmetic would wrap.
//
// Formula (Δ = time a advances net of its own time warp, plus travel):
//
//	Δ        = a.Duration - a.TimeWarp + travel
//	wait     = max(0, b.TWEarly - (a.TWLate  + Δ))
//	warp     = max(0, (a.TWEarly + Δ) - b.TWLate)
//	Duration = a.Duration + b.Duration + travel + wait
//	TimeWarp = a.TimeWarp + b.TimeWarp + warp
//	TWEarly  = max(a.TWEarly, b.TWEarly - Δ) - wait
//	TWLate   = min(a.TWLate,  b.TWLate  - Δ) + warp
//	Release  = max(a.Release, b.Release)
//
// Wait is incurred only when even a's latest start reaches b before its
// window opens; warp only when a's earliest start reaches b after its
// window closes. The wait/warp corrections on the merged window keep
// TWEarly <= TWLate and make the operation exactly associative -- the
// property test in property_test.go compares merged values field by field.
//
// Complexity: O(1).
func MergeDuration(travel int64, a, b Duration) (Duration, error) {
	if a.IsIdentity() {
		return b, nil
	}
	if b.IsIdentity() {
		return a, nil
	}
	if travel < 0 {
		return Duration{}, vrperr.ErrNegativeValue
	}

	delta, err := vrperr.CheckedAdd(a.Duration, travel)
	if err != nil {
		return Duration{}, err
	}
	delta, err = vrperr.CheckedSub(delta, a.TimeWarp)
	if err != nil {
		return Duration{}, err
	}

	aEarlyPlusDelta, err := vrperr.CheckedAdd(a.TWEarly, delta)
	if err != nil {
		return Duration{}, err
	}
	aLatePlusDelta, err := vrperr.CheckedAdd(a.TWLate, delta)
	if err != nil {
		return Duration{}, err
	}

	wait := maxInt64(0, b.TWEarly-aLatePlusDelta)
	warp := maxInt64(0, aEarlyPlusDelta-b.TWLate)

	dur, err := sumInt64(a.Duration, b.Duration, travel, wait)
	if err != nil {
		return Duration{}, err
	}
	tw, err := sumInt64(a.TimeWarp, b.TimeWarp, warp)
	if err != nil {
		return Duration{}, err
	}
	bEarlyMinusDelta, err := vrperr.CheckedSub(b.TWEarly, delta)
	if err != nil {
		return Duration{}, err
	}
	bLateMinusDelta, err := vrperr.CheckedSub(b.TWLate, delta)
	if err != nil {
		return Duration{}, err
	}

	return Duration{
		First:    a.First,
		Last:     b.Last,
		Duration: dur,
		TimeWarp: tw,
		TWEarly:  maxInt64(a.TWEarly, bEarlyMinusDelta) - wait,
		TWLate:   minInt64(a.TWLate, bLateMinusDelta) + warp,
		Release:  maxInt64(a.Release, b.Release),
	}, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func sumInt64(vals ...int64) (int64, error) {
	var total int64
	var err error
	for _, v := range vals {
		total, err = vrperr.CheckedAdd(total, v)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
