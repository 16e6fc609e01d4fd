package vrptypes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vrpcore/localsearch/segment"
)

// SolutionRoute is one vehicle's assignment: the VehicleType it uses and the
// ordered sequence of location indices it visits, excluding the implied
// leading StartDepot and trailing EndDepot. A reload depot visited
// mid-route appears inline as an ordinary element of Visits.
type SolutionRoute struct {
	VehicleType int
	Visits      []int
}

// Solution is an immutable snapshot of a complete assignment of routes to
// vehicle types, together with the cost and feasibility quantities derived
// from it. Solution holds its own lightweight route representation rather
// than the mutable route.Route/Node graph, so that
// this package never imports the route package (which itself depends on
// vrptypes) -- the driver in package search is responsible for converting
// between the two.
type Solution struct {
	data   *ProblemData
	routes []SolutionRoute

	distanceCost       int64
	durationCost       int64
	fixedVehicleCost   int64
	excessLoad         []int64 // per load dimension, summed over routes
	excessDistance     int64
	excessDuration     int64
	timeWarp           int64
	collectedPrizes    int64
	uncollectedPrizes  int64
	numMissingRequired int
	groupsFeasible     bool
}

// NewSolution validates routes against data and computes every derived
// quantity once, in O(total visits). A structurally invalid route (unknown
// vehicle type, out-of-range location, a duplicated client, a depot visited
// where the vehicle type forbids a reload) is rejected with an error;
// capacity/time-window/duration/distance violations are NOT rejected here --
// they are recorded as excess/time-warp quantities for the cost evaluator to
// price.
func NewSolution(data *ProblemData, routes []SolutionRoute) (*Solution, error) {
	numLoadDims := data.NumLoadDimensions()
	s := &Solution{
		data:       data,
		routes:     append([]SolutionRoute(nil), routes...),
		excessLoad: make([]int64, numLoadDims),
	}

	visited := make(map[int]int, data.NumLocations())
	vehiclesUsed := make(map[int]int, len(routes))

	for r, rt := range routes {
		vt, err := data.VehicleType(rt.VehicleType)
		if err != nil {
			return nil, fmt.Errorf("vrptypes: route %d: %w: vehicle type %d", r, errOutOfRange, rt.VehicleType)
		}
		vehiclesUsed[rt.VehicleType]++
		if vehiclesUsed[rt.VehicleType] > vt.NumAvailable {
			return nil, fmt.Errorf("vrptypes: route %d: %w: vehicle type %d has %d available", r, errVehicleUnavailable, rt.VehicleType, vt.NumAvailable)
		}
		if len(rt.Visits) == 0 {
			continue
		}

		reloadSet := make(map[int]struct{}, len(vt.ReloadDepots))
		for _, d := range vt.ReloadDepots {
			reloadSet[d] = struct{}{}
		}

		locs := make([]int, 0, len(rt.Visits)+2)
		locs = append(locs, vt.StartDepot)
		locs = append(locs, rt.Visits...)
		locs = append(locs, vt.EndDepot)

		numReloads := 0
		for _, idx := range rt.Visits {
			loc, err := data.Location(idx)
			if err != nil {
				return nil, fmt.Errorf("vrptypes: route %d: %w: location %d", r, errOutOfRange, idx)
			}
			if loc.IsDepot {
				if _, ok := reloadSet[idx]; !ok {
					return nil, fmt.Errorf("vrptypes: route %d: %w: depot %d is not a permitted reload depot", r, errInvalidReloadDepot, idx)
				}
				numReloads++
				continue
			}
			visited[idx]++
			if visited[idx] > 1 {
				return nil, fmt.Errorf("vrptypes: route %d: %w: client %d visited more than once", r, errDuplicateClient, idx)
			}
		}
		if numReloads > vt.MaxReloads {
			return nil, fmt.Errorf("vrptypes: route %d: %w: %d reloads exceeds max %d", r, errInvalidReloadDepot, numReloads, vt.MaxReloads)
		}

		dist, dur, loads, err := accumulateRoute(data, vt, locs, numLoadDims)
		if err != nil {
			return nil, fmt.Errorf("vrptypes: route %d: %w", r, err)
		}

		s.distanceCost += dist.Distance * vt.UnitDistanceCost
		s.durationCost += dur.Duration * vt.UnitDurationCost
		s.fixedVehicleCost += vt.FixedCost
		s.timeWarp += dur.TotalTimeWarp()

		if vt.MaxDistance != NoLimit && dist.Distance > vt.MaxDistance {
			s.excessDistance += dist.Distance - vt.MaxDistance
		}
		if vt.MaxDuration != NoLimit && dur.Duration > vt.MaxDuration {
			s.excessDuration += dur.Duration - vt.MaxDuration
		}
		for d := 0; d < numLoadDims; d++ {
			if over := loads[d].Current - vt.Capacity[d]; over > 0 {
				s.excessLoad[d] += over
			}
		}
	}

	s.groupsFeasible = true
	for gi := 0; gi < data.NumGroups(); gi++ {
		g, _ := data.Group(gi)
		count := 0
		for _, m := range g.Members {
			count += visited[m]
		}
		if g.Required && count != 1 {
			s.groupsFeasible = false
		}
		if !g.Required && count > 1 {
			s.groupsFeasible = false
		}
	}

	for _, clientIdx := range data.Clients() {
		loc, _ := data.Location(clientIdx)
		if visited[clientIdx] == 0 {
			if loc.Required {
				s.numMissingRequired++
			} else {
				s.uncollectedPrizes += loc.Prize
			}
			continue
		}
		s.collectedPrizes += loc.Prize
	}

	return s, nil
}

// accumulateRoute folds the distance, duration and per-dimension load
// segments across a depot-to-depot location sequence. Complexity: O(len(locs)
// * numLoadDims).
func accumulateRoute(data *ProblemData, vt VehicleType, locs []int, numLoadDims int) (segment.Distance, segment.Duration, []segment.Load, error) {
	distMatrix, err := data.DistanceMatrix(vt.Profile)
	if err != nil {
		return segment.Distance{}, segment.Duration{}, nil, err
	}
	durMatrix, err := data.DurationMatrix(vt.Profile)
	if err != nil {
		return segment.Distance{}, segment.Duration{}, nil, err
	}

	dist := segment.IdentityDistance()
	dur := segment.IdentityDuration()
	loads := make([]segment.Load, numLoadDims)
	for d := range loads {
		loads[d] = segment.IdentityLoad()
	}

	for i, idx := range locs {
		loc, err := data.Location(idx)
		if err != nil {
			return segment.Distance{}, segment.Duration{}, nil, err
		}

		release := loc.Release
		twEarly, twLate := loc.TWEarly, loc.TWLate
		if i == 0 {
			twEarly, twLate = vt.TWEarly, vt.StartLate
		} else if i == len(locs)-1 {
			twLate = vt.TWLate
		}
		nodeDur := segment.DurationFromLocation(idx, loc.ServiceDuration, twEarly, twLate, release)
		nodeDist := segment.DistanceFromLocation()

		if i == 0 {
			dur = nodeDur
			dist = nodeDist
			for d := 0; d < numLoadDims; d++ {
				loads[d] = segment.LoadFromLocation(initialOrDemand(vt, loc, d, true), initialOrDemand(vt, loc, d, false))
			}
			continue
		}

		prevIdx := locs[i-1]
		travelDist, err := distMatrix.At(prevIdx, idx)
		if err != nil {
			return segment.Distance{}, segment.Duration{}, nil, err
		}
		travelDur, err := durMatrix.At(prevIdx, idx)
		if err != nil {
			return segment.Distance{}, segment.Duration{}, nil, err
		}

		dist, err = segment.MergeDistance(travelDist, dist, nodeDist)
		if err != nil {
			return segment.Distance{}, segment.Duration{}, nil, err
		}
		dur, err = segment.MergeDuration(travelDur, dur, nodeDur)
		if err != nil {
			return segment.Distance{}, segment.Duration{}, nil, err
		}
		for d := 0; d < numLoadDims; d++ {
			nodeLoad := segment.LoadFromLocation(initialOrDemand(vt, loc, d, true), initialOrDemand(vt, loc, d, false))
			loads[d], err = segment.MergeLoad(loads[d], nodeLoad)
			if err != nil {
				return segment.Distance{}, segment.Duration{}, nil, err
			}
		}
	}

	for d := 0; d < numLoadDims; d++ {
		loads[d].Current += vt.InitialLoad[d]
	}

	return dist, dur, loads, nil
}

// initialOrDemand returns the delivery (wantDelivery == true) or pickup
// demand of loc in dimension d; depots carry no demand.
func initialOrDemand(_ VehicleType, loc Location, d int, wantDelivery bool) int64 {
	if loc.IsDepot {
		return 0
	}
	if wantDelivery {
		return loc.Delivery[d]
	}
	return loc.Pickup[d]
}

// DistanceCost returns the total distance-proportional cost across routes.
func (s *Solution) DistanceCost() int64 { return s.distanceCost }

// DurationCost returns the total duration-proportional cost across routes.
func (s *Solution) DurationCost() int64 { return s.durationCost }

// FixedVehicleCost returns the sum of fixed costs of every used route.
func (s *Solution) FixedVehicleCost() int64 { return s.fixedVehicleCost }

// ExcessLoad returns the per-load-dimension capacity violation, summed over
// routes. The returned slice must not be mutated.
func (s *Solution) ExcessLoad() []int64 { return s.excessLoad }

// TotalExcessLoad returns the sum of ExcessLoad across all load dimensions.
func (s *Solution) TotalExcessLoad() int64 {
	var total int64
	for _, v := range s.excessLoad {
		total += v
	}
	return total
}

// ExcessDistance returns the total max-distance violation, summed over
// routes.
func (s *Solution) ExcessDistance() int64 { return s.excessDistance }

// ExcessDuration returns the total max-duration violation, summed over
// routes.
func (s *Solution) ExcessDuration() int64 { return s.excessDuration }

// TimeWarp returns the total schedule infeasibility, summed over routes.
func (s *Solution) TimeWarp() int64 { return s.timeWarp }

// CollectedPrizes returns the sum of Prize over every visited optional
// client.
func (s *Solution) CollectedPrizes() int64 { return s.collectedPrizes }

// UncollectedPrizes returns the sum of Prize over every unvisited optional
// client.
func (s *Solution) UncollectedPrizes() int64 { return s.uncollectedPrizes }

// NumMissingRequiredClients returns how many Required clients this solution
// fails to visit.
func (s *Solution) NumMissingRequiredClients() int { return s.numMissingRequired }

// IsGroupFeasible reports whether every client group's required/mutually
// exclusive membership constraint is satisfied.
func (s *Solution) IsGroupFeasible() bool { return s.groupsFeasible }

// IsFeasible reports whether the solution violates no capacity, distance,
// duration, time-window or required-client/group constraint.
func (s *Solution) IsFeasible() bool {
	return s.TotalExcessLoad() == 0 && s.excessDistance == 0 && s.excessDuration == 0 &&
		s.timeWarp == 0 && s.numMissingRequired == 0 && s.groupsFeasible
}

// Routes returns the solution's routes. The returned slice must not be
// mutated.
func (s *Solution) Routes() []SolutionRoute { return s.routes }

// NumRoutes returns the number of routes, including empty ones.
func (s *Solution) NumRoutes() int { return len(s.routes) }

// canonicalKey renders the solution as an order-independent string: each
// non-empty route's (vehicle type, visits) is formatted and the resulting
// strings are sorted, so that two solutions differing only in which vehicle
// carries which route compare equal.
func (s *Solution) canonicalKey() string {
	parts := make([]string, 0, len(s.routes))
	for _, rt := range s.routes {
		if len(rt.Visits) == 0 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d:", rt.VehicleType)
		for i, v := range rt.Visits {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%d", v)
		}
		parts = append(parts, b.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// Equal reports whether s and other represent the same multiset of routes,
// independent of route order.
func (s *Solution) Equal(other *Solution) bool {
	if other == nil {
		return false
	}
	return s.canonicalKey() == other.canonicalKey()
}

// Hash returns a value suitable for grouping equal solutions in a map; it is
// consistent with Equal but is not a cryptographic digest.
func (s *Solution) Hash() uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for _, c := range []byte(s.canonicalKey()) {
		h ^= uint64(c)
		h *= prime64
	}
	return h
}
