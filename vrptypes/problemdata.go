package vrptypes

import (
	"fmt"

	"github.com/vrpcore/localsearch/segment"
)

// ProblemData is the immutable, shared-read-only bundle of clients, depots,
// vehicle types, one distance matrix and one duration matrix per profile,
// and client groups. Built once via NewProblemData,
// which validates every structural invariant and fails synchronously
// otherwise.
type ProblemData struct {
	locations    []Location
	vehicleTypes []VehicleType
	groups       []ClientGroup
	distance     []*segment.Matrix // one per profile
	duration     []*segment.Matrix // one per profile
	numLoadDims  int
	depotSet     map[int]struct{}
}

// NewProblemData validates and constructs a ProblemData. numLoadDims is
// derived from the first client encountered (or 0 if there are none); every
// client and vehicle type must agree with it.
func NewProblemData(locations []Location, vehicleTypes []VehicleType, groups []ClientGroup, distance, duration []*segment.Matrix) (*ProblemData, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("vrptypes: %w: no locations", errDimensionMismatch)
	}
	if len(distance) == 0 || len(distance) != len(duration) {
		return nil, fmt.Errorf("vrptypes: %w: distance/duration profile count mismatch", errDimensionMismatch)
	}
	numProfiles := len(distance)
	n := len(locations)
	for p := 0; p < numProfiles; p++ {
		if distance[p] == nil || duration[p] == nil {
			return nil, fmt.Errorf("vrptypes: %w: nil matrix for profile %d", errDimensionMismatch, p)
		}
		if distance[p].N() != n || duration[p].N() != n {
			return nil, fmt.Errorf("vrptypes: %w: profile %d matrix size %d/%d != %d locations", errNonSquareMatrix, p, distance[p].N(), duration[p].N(), n)
		}
	}

	numLoadDims := 0
	for _, loc := range locations {
		if !loc.IsDepot {
			numLoadDims = len(loc.Delivery)
			break
		}
	}

	depotSet := make(map[int]struct{})
	for i, loc := range locations {
		if loc.IsDepot {
			depotSet[i] = struct{}{}
		}
		if err := loc.Validate(numLoadDims); err != nil {
			return nil, fmt.Errorf("vrptypes: location %d: %w", i, err)
		}
	}

	isDepot := func(i int) bool { _, ok := depotSet[i]; return ok }
	for i, vt := range vehicleTypes {
		if err := vt.Validate(numLoadDims, n, numProfiles, isDepot); err != nil {
			return nil, fmt.Errorf("vrptypes: vehicle type %d: %w", i, err)
		}
	}

	locationRequired := func(i int) bool { return locations[i].Required }
	for i, g := range groups {
		if err := g.Validate(n, locationRequired); err != nil {
			return nil, fmt.Errorf("vrptypes: group %d: %w", i, err)
		}
	}
	if err := validateGroupIndices(locations, groups); err != nil {
		return nil, err
	}

	return &ProblemData{
		locations:    append([]Location(nil), locations...),
		vehicleTypes: append([]VehicleType(nil), vehicleTypes...),
		groups:       append([]ClientGroup(nil), groups...),
		distance:     distance,
		duration:     duration,
		numLoadDims:  numLoadDims,
		depotSet:     depotSet,
	}, nil
}

func validateGroupIndices(locations []Location, groups []ClientGroup) error {
	for i, loc := range locations {
		if loc.GroupIndex < -1 || loc.GroupIndex >= len(groups) {
			return fmt.Errorf("vrptypes: location %d: %w: group index %d out of range", i, errOutOfRange, loc.GroupIndex)
		}
	}
	return nil
}

// NumLocations returns the total number of depots and clients.
func (d *ProblemData) NumLocations() int { return len(d.locations) }

// NumProfiles returns the number of (distance, duration) matrix pairs.
func (d *ProblemData) NumProfiles() int { return len(d.distance) }

// NumLoadDimensions returns the number of per-client load dimensions.
func (d *ProblemData) NumLoadDimensions() int { return d.numLoadDims }

// NumVehicleTypes returns the number of distinct vehicle types.
func (d *ProblemData) NumVehicleTypes() int { return len(d.vehicleTypes) }

// NumGroups returns the number of client groups.
func (d *ProblemData) NumGroups() int { return len(d.groups) }

// Location returns the location at idx, or ErrOutOfRange.
func (d *ProblemData) Location(idx int) (Location, error) {
	if idx < 0 || idx >= len(d.locations) {
		return Location{}, errOutOfRange
	}
	return d.locations[idx], nil
}

// IsDepot reports whether idx names a depot location.
func (d *ProblemData) IsDepot(idx int) bool {
	_, ok := d.depotSet[idx]
	return ok
}

// VehicleType returns the vehicle type at idx, or ErrOutOfRange.
func (d *ProblemData) VehicleType(idx int) (VehicleType, error) {
	if idx < 0 || idx >= len(d.vehicleTypes) {
		return VehicleType{}, errOutOfRange
	}
	return d.vehicleTypes[idx], nil
}

// Group returns the client group at idx, or ErrOutOfRange.
func (d *ProblemData) Group(idx int) (ClientGroup, error) {
	if idx < 0 || idx >= len(d.groups) {
		return ClientGroup{}, errOutOfRange
	}
	return d.groups[idx], nil
}

// Clients returns the indices of every client (non-depot) location, in
// ascending order.
func (d *ProblemData) Clients() []int {
	out := make([]int, 0, len(d.locations))
	for i, loc := range d.locations {
		if !loc.IsDepot {
			out = append(out, i)
		}
	}
	return out
}

// Depots returns the indices of every depot location, in ascending order.
func (d *ProblemData) Depots() []int {
	out := make([]int, 0, len(d.depotSet))
	for i, loc := range d.locations {
		if loc.IsDepot {
			out = append(out, i)
		}
	}
	return out
}

// DistanceMatrix returns the distance matrix for the given profile.
func (d *ProblemData) DistanceMatrix(profile int) (*segment.Matrix, error) {
	if profile < 0 || profile >= len(d.distance) {
		return nil, errOutOfRange
	}
	return d.distance[profile], nil
}

// DurationMatrix returns the duration matrix for the given profile.
func (d *ProblemData) DurationMatrix(profile int) (*segment.Matrix, error) {
	if profile < 0 || profile >= len(d.duration) {
		return nil, errOutOfRange
	}
	return d.duration[profile], nil
}
