package vrptypes

import "fmt"

// NoLimit marks MaxDuration/MaxDistance as unconstrained. A value of zero is
// a legitimate (if degenerate) limit, so a negative sentinel is used instead
// (zero is a meaningful value here, so absence needs a sentinel).
const NoLimit int64 = -1

// VehicleType describes one class of vehicle.
type VehicleType struct {
	// NumAvailable is how many vehicles of this type exist.
	NumAvailable int

	// Capacity is the per-load-dimension capacity.
	Capacity []int64

	// InitialLoad is the per-load-dimension load the vehicle starts with;
	// InitialLoad[d] <= Capacity[d].
	InitialLoad []int64

	// StartDepot and EndDepot index Location entries that must be depots.
	StartDepot int
	EndDepot   int

	// ReloadDepots lists permitted mid-route reload depot indices.
	ReloadDepots []int

	// MaxReloads bounds the number of reload-depot visits per route; a
	// route therefore has at most MaxReloads+1 trips.
	MaxReloads int

	// TWEarly and TWLate bound the vehicle's shift.
	TWEarly int64
	TWLate  int64

	// StartLate is the latest time the vehicle may leave its start depot.
	// Must satisfy TWEarly <= StartLate <= TWLate. Set equal to TWLate by
	// NewVehicleType when not overridden via WithStartLate.
	StartLate int64

	// MaxDuration and MaxDistance bound total route duration/distance, or
	// NoLimit if unconstrained.
	MaxDuration int64
	MaxDistance int64

	// FixedCost is charged once per used route of this type.
	FixedCost int64

	// UnitDistanceCost and UnitDurationCost scale travelled distance and
	// duration into cost.
	UnitDistanceCost int64
	UnitDurationCost int64

	// Profile selects which (distance, duration) matrix pair this vehicle
	// type uses.
	Profile int
}

// VehicleTypeOption configures a VehicleType constructed by NewVehicleType.
type VehicleTypeOption func(*VehicleType)

// WithStartLate overrides the default StartLate (= TWLate).
func WithStartLate(startLate int64) VehicleTypeOption {
	return func(vt *VehicleType) { vt.StartLate = startLate }
}

// WithReloadDepots sets the permitted reload depots and the max reload
// count.
func WithReloadDepots(depots []int, maxReloads int) VehicleTypeOption {
	return func(vt *VehicleType) {
		vt.ReloadDepots = depots
		vt.MaxReloads = maxReloads
	}
}

// WithMaxDuration overrides MaxDuration (default NoLimit).
func WithMaxDuration(maxDuration int64) VehicleTypeOption {
	return func(vt *VehicleType) { vt.MaxDuration = maxDuration }
}

// WithMaxDistance overrides MaxDistance (default NoLimit).
func WithMaxDistance(maxDistance int64) VehicleTypeOption {
	return func(vt *VehicleType) { vt.MaxDistance = maxDistance }
}

// NewVehicleType builds a VehicleType with safe defaults (StartLate ==
// TWLate, no reloads, no duration/distance limit, zero costs at profile 0)
// and applies the given options.
func NewVehicleType(numAvailable int, capacity, initialLoad []int64, startDepot, endDepot int, twEarly, twLate int64, opts ...VehicleTypeOption) VehicleType {
	vt := VehicleType{
		NumAvailable: numAvailable,
		Capacity:     capacity,
		InitialLoad:  initialLoad,
		StartDepot:   startDepot,
		EndDepot:     endDepot,
		TWEarly:      twEarly,
		TWLate:       twLate,
		StartLate:    twLate,
		MaxDuration:  NoLimit,
		MaxDistance:  NoLimit,
	}
	for _, opt := range opts {
		opt(&vt)
	}
	return vt
}

// Validate checks the vehicle-type invariants: TWEarly <= StartLate <= TWLate;
// all costs and limits non-negative (or NoLimit); InitialLoad[d] <=
// Capacity[d]; numLoadDims load-vector lengths agree; depots and reload
// depots index valid, depot locations; profile indexes a valid matrix pair.
func (vt VehicleType) Validate(numLoadDims, numLocations, numProfiles int, isDepot func(int) bool) error {
	if vt.NumAvailable < 0 {
		return fmt.Errorf("vrptypes: %w: negative vehicle availability", errNegativeValue)
	}
	if vt.TWEarly > vt.StartLate || vt.StartLate > vt.TWLate {
		return fmt.Errorf("vrptypes: %w: tw_early <= start_late <= tw_late violated", errInvalidTimeWindow)
	}
	if len(vt.Capacity) != numLoadDims || len(vt.InitialLoad) != numLoadDims {
		return fmt.Errorf("vrptypes: %w: vehicle load vector length mismatch", errDimensionMismatch)
	}
	for d := 0; d < numLoadDims; d++ {
		if vt.Capacity[d] < 0 || vt.InitialLoad[d] < 0 {
			return fmt.Errorf("vrptypes: %w: negative capacity/initial load in dimension %d", errNegativeValue, d)
		}
		if vt.InitialLoad[d] > vt.Capacity[d] {
			return fmt.Errorf("vrptypes: %w: initial load exceeds capacity in dimension %d", errDimensionMismatch, d)
		}
	}
	if vt.MaxDuration != NoLimit && vt.MaxDuration < 0 {
		return fmt.Errorf("vrptypes: %w: negative max_duration", errNegativeValue)
	}
	if vt.MaxDistance != NoLimit && vt.MaxDistance < 0 {
		return fmt.Errorf("vrptypes: %w: negative max_distance", errNegativeValue)
	}
	if vt.FixedCost < 0 || vt.UnitDistanceCost < 0 || vt.UnitDurationCost < 0 {
		return fmt.Errorf("vrptypes: %w: negative cost coefficient", errNegativeValue)
	}
	if vt.MaxReloads < 0 {
		return fmt.Errorf("vrptypes: %w: negative max_reloads", errNegativeValue)
	}
	if vt.Profile < 0 || vt.Profile >= numProfiles {
		return fmt.Errorf("vrptypes: %w: profile %d out of range", errOutOfRange, vt.Profile)
	}
	if err := validDepotIndex(vt.StartDepot, numLocations, isDepot); err != nil {
		return fmt.Errorf("vrptypes: start depot: %w", err)
	}
	if err := validDepotIndex(vt.EndDepot, numLocations, isDepot); err != nil {
		return fmt.Errorf("vrptypes: end depot: %w", err)
	}
	for _, d := range vt.ReloadDepots {
		if err := validDepotIndex(d, numLocations, isDepot); err != nil {
			return fmt.Errorf("vrptypes: reload depot: %w", err)
		}
	}
	return nil
}

func validDepotIndex(idx, numLocations int, isDepot func(int) bool) error {
	if idx < 0 || idx >= numLocations {
		return errOutOfRange
	}
	if !isDepot(idx) {
		return errInvalidRouteEndpoints
	}
	return nil
}
