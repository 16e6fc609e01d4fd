// Distance segment algebra.
package segment

import "github.com/vrpcore/localsearch/vrperr"

// Distance is a concatenation segment over cumulative travel distance.
type Distance struct {
	Distance int64 // cumulative distance of the run
}

// IdentityDistance returns the neutral element for MergeDistance.
func IdentityDistance() Distance { return Distance{} }

// DistanceFromLocation builds the single-node Distance segment: a single
// location contributes no distance on its own.
func DistanceFromLocation() Distance { return Distance{} }

// MergeDistance computes the Distance segment for the concatenation of a
// followed by b, adding the travel distance between them.
// Complexity: O(1).
func MergeDistance(travel int64, a, b Distance) (Distance, error) {
	d, err := vrperr.CheckedAdd(a.Distance, travel)
	if err != nil {
		return Distance{}, err
	}
	d, err = vrperr.CheckedAdd(d, b.Distance)
	if err != nil {
		return Distance{}, err
	}
	return Distance{Distance: d}, nil
}
