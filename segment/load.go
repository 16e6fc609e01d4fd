// Load segment algebra, one instance per
// vehicle load dimension.
package segment

import "github.com/vrpcore/localsearch/vrperr"

// Load is a concatenation segment over a single load dimension of a
// contiguous run of route nodes.
type Load struct {
	Delivery int64 // cumulative delivery demand of the run
	Pickup   int64 // cumulative pickup demand of the run
	Current  int64 // load actually carried while traversing the run
}

// IdentityLoad returns the neutral element for MergeLoad: no delivery, no
// pickup, no load carried.
func IdentityLoad() Load { return Load{} }

// LoadFromLocation builds the single-node Load segment for a client with the
// given delivery and pickup demand. A depot carries zero of both.
func LoadFromLocation(delivery, pickup int64) Load {
	cur := delivery
	if pickup > cur {
		cur = pickup
	}
	return Load{Delivery: delivery, Pickup: pickup, Current: cur}
}

// MergeLoad computes the Load segment for the concatenation of a followed by
// b: cumulative delivery and pickup simply add, while the load actually
// carried is the larger of "a's carried load plus b's delivery still to
// come" and "b's carried load plus a's pickup already collected":
// load = max(load_a + delivery_b, load_b + pickup_a).
// Complexity: O(1).
func MergeLoad(a, b Load) (Load, error) {
	delivery, err := vrperr.CheckedAdd(a.Delivery, b.Delivery)
	if err != nil {
		return Load{}, err
	}
	pickup, err := vrperr.CheckedAdd(a.Pickup, b.Pickup)
	if err != nil {
		return Load{}, err
	}
	left, err := vrperr.CheckedAdd(a.Current, b.Delivery)
	if err != nil {
		return Load{}, err
	}
	right, err := vrperr.CheckedAdd(b.Current, a.Pickup)
	if err != nil {
		return Load{}, err
	}
	cur := left
	if right > cur {
		cur = right
	}
	return Load{Delivery: delivery, Pickup: pickup, Current: cur}, nil
}
