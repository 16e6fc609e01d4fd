// Package route implements the mutable search-time route representation:
// a sequence of nodes with cached
// prefix/suffix concatenation segments for O(1) delta-cost evaluation.
package route

// Node is one position in a Route: a client, the start depot, the end
// depot, or a reload depot. A Node is owned by the search
// state; its Route back-reference is a weak lookup pointer, never
// ownership.
type Node struct {
	// LocationIndex is the vrptypes.Location this node visits.
	LocationIndex int

	// route is the Route this node currently belongs to, or nil if
	// unassigned. Repaired by Route.Update; never used for ownership.
	route *Route

	// index is this node's position within route.nodes. Repaired by
	// Route.Update after every mutation.
	index int

	// tripIndex is 0 for the first trip, incremented after every reload
	// depot visited before this node.
	tripIndex int

	// isReload marks a mid-route reload-depot node, as opposed to the
	// route's structural start/end depot nodes.
	isReload bool
}

// IsReload reports whether this node is a mid-route reload-depot visit.
func (n *Node) IsReload() bool { return n.isReload }

// NewNode creates a detached Node for the given location, not yet attached
// to any Route.
func NewNode(locationIndex int) *Node {
	return &Node{LocationIndex: locationIndex, index: -1, tripIndex: -1}
}

// Route returns the Node's current route, or nil if unassigned.
func (n *Node) Route() *Route { return n.route }

// Index returns the Node's position within its route, or -1 if unassigned.
func (n *Node) Index() int { return n.index }

// TripIndex returns which trip this node belongs to, or -1 if unassigned.
func (n *Node) TripIndex() int { return n.tripIndex }

// IsDepot reports whether this node is a start, end, or reload depot node
// within its current route. A detached node (route == nil) counts as a
// depot only if it is a reload-depot node.
func (n *Node) IsDepot() bool {
	if n.route == nil {
		return n.isReload
	}
	return n.index == 0 || n.index == len(n.route.nodes)-1 || n.isReload
}
