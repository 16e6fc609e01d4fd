// Prize-collecting and mutually-exclusive-group operators. Unlike the
// plain routing operators, these read vrptypes.Location metadata (Prize,
// Required, GroupIndex) because their delta-cost includes a Solution-level
// term, collected or uncollected prize, that never shows up in a route's
// own penalised cost.
package nodeops

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrptypes"
)

func locationOf(data *vrptypes.ProblemData, idx int) (vrptypes.Location, bool) {
	loc, err := data.Location(idx)
	if err != nil {
		return vrptypes.Location{}, false
	}
	return loc, true
}

// insertDelta prices inserting locIdx at position pos in r (a pure
// insertion: the existing node at pos is pushed right, nothing is removed).
func insertDelta(r *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator, pos, locIdx int) (int64, error) {
	oldCost, err := currentRouteCost(r, data, ce)
	if err != nil {
		return 0, err
	}
	newCost, err := rangeReplacementCost(r, data, ce, pos, pos, []int{locIdx})
	if err != nil {
		return 0, err
	}
	return newCost - oldCost, nil
}

// removeDelta prices removing the single node at position pos in r.
func removeDelta(r *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator, pos int) (int64, error) {
	oldCost, err := currentRouteCost(r, data, ce)
	if err != nil {
		return 0, err
	}
	newCost, err := rangeReplacementCost(r, data, ce, pos, pos+1, nil)
	if err != nil {
		return 0, err
	}
	return newCost - oldCost, nil
}

// replaceDelta prices replacing the single node at position pos in r with
// newLocIdx.
func replaceDelta(r *route.Route, data *vrptypes.ProblemData, ce *costeval.Evaluator, pos, newLocIdx int) (int64, error) {
	oldCost, err := currentRouteCost(r, data, ce)
	if err != nil {
		return 0, err
	}
	newCost, err := rangeReplacementCost(r, data, ce, pos, pos+1, []int{newLocIdx})
	if err != nil {
		return 0, err
	}
	return newCost - oldCost, nil
}

// Insert places a currently-unassigned node u into v's route, right after
// v. u must be detached; v must already be routed.
// General-purpose: used both for missing required clients and as the
// building block OptionalInsert specialises.
type Insert struct{}

// Name implements Operator.
func (Insert) Name() string { return "Insert" }

// Supports implements Operator.
func (Insert) Supports(data *vrptypes.ProblemData) bool { return true }

func (Insert) resolve(u, v *route.Node) (r *route.Route, pos int, ok bool) {
	if u.Route() != nil || v.Route() == nil {
		return nil, 0, false
	}
	r = v.Route()
	pos = v.Index() + 1
	if pos < 1 || pos > r.NumNodes()-1 {
		return nil, 0, false
	}
	return r, pos, true
}

// Evaluate implements Operator.
func (op Insert) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	r, pos, ok := op.resolve(u, v)
	if !ok {
		return 0
	}
	delta, err := insertDelta(r, data, ce, pos, u.LocationIndex)
	if err != nil {
		return 0
	}
	return delta
}

// Apply implements Operator.
func (op Insert) Apply(u, v *route.Node) error {
	r, pos, ok := op.resolve(u, v)
	if !ok {
		return nil
	}
	if err := r.InsertNode(pos, u); err != nil {
		return err
	}
	return r.Update()
}

// OptionalInsert is Insert specialised to optional (non-required,
// non-group) clients: the collected prize offsets the routing cost
// increase.
type OptionalInsert struct{}

// Name implements Operator.
func (OptionalInsert) Name() string { return "OptionalInsert" }

// Supports implements Operator.
func (OptionalInsert) Supports(data *vrptypes.ProblemData) bool { return true }

func (OptionalInsert) eligible(data *vrptypes.ProblemData, u *route.Node) (vrptypes.Location, bool) {
	loc, ok := locationOf(data, u.LocationIndex)
	if !ok || loc.Required || loc.GroupIndex >= 0 {
		return vrptypes.Location{}, false
	}
	return loc, true
}

// Evaluate implements Operator.
func (op OptionalInsert) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	loc, ok := op.eligible(data, u)
	if !ok {
		return 0
	}
	r, pos, ok := (Insert{}).resolve(u, v)
	if !ok {
		return 0
	}
	delta, err := insertDelta(r, data, ce, pos, u.LocationIndex)
	if err != nil {
		return 0
	}
	return delta - loc.Prize
}

// Apply implements Operator.
func (op OptionalInsert) Apply(u, v *route.Node) error { return (Insert{}).Apply(u, v) }

// RemoveOptional removes an already-placed optional client u from its
// route; forgoing its prize increases cost by the
// prize amount. v is unused but kept for the shared Operator signature.
type RemoveOptional struct{}

// Name implements Operator.
func (RemoveOptional) Name() string { return "RemoveOptional" }

// Supports implements Operator.
func (RemoveOptional) Supports(data *vrptypes.ProblemData) bool { return true }

func (RemoveOptional) eligible(data *vrptypes.ProblemData, u *route.Node) (vrptypes.Location, bool) {
	if u.Route() == nil || u.IsDepot() {
		return vrptypes.Location{}, false
	}
	loc, ok := locationOf(data, u.LocationIndex)
	if !ok || loc.Required || loc.GroupIndex >= 0 {
		return vrptypes.Location{}, false
	}
	return loc, true
}

// Evaluate implements Operator.
func (op RemoveOptional) Evaluate(u, _ *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	loc, ok := op.eligible(data, u)
	if !ok {
		return 0
	}
	delta, err := removeDelta(u.Route(), data, ce, u.Index())
	if err != nil {
		return 0
	}
	return delta + loc.Prize
}

// Apply implements Operator.
func (op RemoveOptional) Apply(u, _ *route.Node) error {
	r := u.Route()
	if r == nil {
		return nil
	}
	_, err := r.RemoveNode(u)
	if err != nil {
		return err
	}
	return r.Update()
}

// ReplaceOptional swaps a routed optional client u for a currently
// unassigned optional candidate v, at u's position.
type ReplaceOptional struct{}

// Name implements Operator.
func (ReplaceOptional) Name() string { return "ReplaceOptional" }

// Supports implements Operator.
func (ReplaceOptional) Supports(data *vrptypes.ProblemData) bool { return true }

func (ReplaceOptional) eligible(data *vrptypes.ProblemData, u, v *route.Node) (uLoc, vLoc vrptypes.Location, ok bool) {
	if u.Route() == nil || u.IsDepot() || v.Route() != nil {
		return vrptypes.Location{}, vrptypes.Location{}, false
	}
	uLoc, okU := locationOf(data, u.LocationIndex)
	vLoc, okV := locationOf(data, v.LocationIndex)
	if !okU || !okV || uLoc.Required || vLoc.Required || uLoc.GroupIndex >= 0 || vLoc.GroupIndex >= 0 {
		return vrptypes.Location{}, vrptypes.Location{}, false
	}
	return uLoc, vLoc, true
}

// Evaluate implements Operator.
func (op ReplaceOptional) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	uLoc, vLoc, ok := op.eligible(data, u, v)
	if !ok {
		return 0
	}
	delta, err := replaceDelta(u.Route(), data, ce, u.Index(), v.LocationIndex)
	if err != nil {
		return 0
	}
	return delta + uLoc.Prize - vLoc.Prize
}

// Apply implements Operator.
func (op ReplaceOptional) Apply(u, v *route.Node) error {
	r := u.Route()
	if r == nil {
		return nil
	}
	pos := u.Index()
	if _, err := r.RemoveNode(u); err != nil {
		return err
	}
	if err := r.InsertNode(pos, v); err != nil {
		return err
	}
	return r.Update()
}

// Replace swaps a routed mutually-exclusive-group member u for a currently
// unassigned fellow member v of the same group, at u's position. Unlike
// ReplaceOptional, eligibility is group membership, not the optional-prize
// test: group members are always non-required, so no prize adjustment
// applies.
type Replace struct{}

// Name implements Operator.
func (Replace) Name() string { return "Replace" }

// Supports implements Operator: requires at least one client group.
func (Replace) Supports(data *vrptypes.ProblemData) bool { return data.NumGroups() > 0 }

func (Replace) eligible(data *vrptypes.ProblemData, u, v *route.Node) bool {
	if u.Route() == nil || u.IsDepot() || v.Route() != nil {
		return false
	}
	uLoc, okU := locationOf(data, u.LocationIndex)
	vLoc, okV := locationOf(data, v.LocationIndex)
	if !okU || !okV {
		return false
	}
	return uLoc.GroupIndex >= 0 && uLoc.GroupIndex == vLoc.GroupIndex
}

// Evaluate implements Operator.
func (op Replace) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	if !op.eligible(data, u, v) {
		return 0
	}
	delta, err := replaceDelta(u.Route(), data, ce, u.Index(), v.LocationIndex)
	if err != nil {
		return 0
	}
	return delta
}

// Apply implements Operator.
func (op Replace) Apply(u, v *route.Node) error { return (ReplaceOptional{}).Apply(u, v) }

// ReplaceGroup is Replace generalised to let the incoming candidate land at
// a different route position than the outgoing member's slot: u is the
// routed group member to remove, v is the anchor node after which the
// unassigned candidate w is inserted. Unlike
// Replace, this does not assume the candidate's best position is the
// outgoing member's own slot.
type ReplaceGroup struct{}

// Name implements Operator.
func (ReplaceGroup) Name() string { return "ReplaceGroup" }

// Supports implements Operator.
func (ReplaceGroup) Supports(data *vrptypes.ProblemData) bool { return data.NumGroups() > 0 }

// EvaluateCandidate prices removing u and inserting candidate (an
// unassigned node of the same group as u) right after anchor v. Exposed as
// a named method, rather than folded into Evaluate's two-node signature,
// since this move genuinely needs three participants; the driver supplies
// the candidate out of band from its own group bookkeeping.
func (op ReplaceGroup) EvaluateCandidate(u, v, candidate *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	if u.Route() == nil || u.IsDepot() || v.Route() == nil || candidate.Route() != nil {
		return 0
	}
	uLoc, okU := locationOf(data, u.LocationIndex)
	cLoc, okC := locationOf(data, candidate.LocationIndex)
	if !okU || !okC || uLoc.GroupIndex < 0 || uLoc.GroupIndex != cLoc.GroupIndex {
		return 0
	}
	r := u.Route()
	removeCost, err := removeDelta(r, data, ce, u.Index())
	if err != nil {
		return 0
	}
	anchorRoute := v.Route()
	insertPos := v.Index() + 1
	if anchorRoute == r && v.Index() > u.Index() {
		insertPos--
	}
	insertCost, err := insertDelta(anchorRoute, data, ce, insertPos, candidate.LocationIndex)
	if err != nil {
		return 0
	}
	// Both terms are priced against the route's pre-move cached segments;
	// same-route moves additionally shift insertPos left of v when v sits
	// after u, handled above (for the same-route case the sum is an
	// approximation).
	return removeCost + insertCost
}

// Evaluate implements Operator by treating v as both anchor and candidate
// source is not meaningful for a three-party move; ReplaceGroup is driven
// via EvaluateCandidate instead and this satisfies the interface with a
// conservative "not applicable".
func (ReplaceGroup) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	return 0
}

// Apply is unused directly; ApplyCandidate realises the move.
func (ReplaceGroup) Apply(u, v *route.Node) error { return nil }

// ApplyCandidate removes u and inserts candidate right after v.
func (op ReplaceGroup) ApplyCandidate(u, v, candidate *route.Node) error {
	r := u.Route()
	if r == nil {
		return nil
	}
	anchorRoute := v.Route()
	insertPos := v.Index() + 1
	uPos := u.Index()
	if _, err := r.RemoveNode(u); err != nil {
		return err
	}
	if anchorRoute == r && v.Index() > uPos {
		insertPos--
	}
	if err := anchorRoute.InsertNode(insertPos, candidate); err != nil {
		return err
	}
	if anchorRoute != r {
		if err := r.Update(); err != nil {
			return err
		}
	}
	return anchorRoute.Update()
}

// SwapInPlace directly exchanges two already-routed nodes' identities
// across two distinct routes via the O(1) route.Swap primitive, rather than
// Exchange's remove/reinsert machinery. Same-route
// pairs are left to Exchange(1,1), which already covers that case.
type SwapInPlace struct{}

// Name implements Operator.
func (SwapInPlace) Name() string { return "SwapInPlace" }

// Supports implements Operator.
func (SwapInPlace) Supports(data *vrptypes.ProblemData) bool { return true }

func (SwapInPlace) eligible(u, v *route.Node) bool {
	ru, rv := u.Route(), v.Route()
	if ru == nil || rv == nil || ru == rv {
		return false
	}
	return !u.IsDepot() && !v.IsDepot()
}

// Evaluate implements Operator.
func (op SwapInPlace) Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64 {
	if !op.eligible(u, v) {
		return 0
	}
	ru, rv := u.Route(), v.Route()
	newA, err := replaceDelta(ru, data, ce, u.Index(), v.LocationIndex)
	if err != nil {
		return 0
	}
	newB, err := replaceDelta(rv, data, ce, v.Index(), u.LocationIndex)
	if err != nil {
		return 0
	}
	return newA + newB
}

// Apply implements Operator.
func (op SwapInPlace) Apply(u, v *route.Node) error {
	if !op.eligible(u, v) {
		return nil
	}
	ru, rv := u.Route(), v.Route()
	i, j := u.Index(), v.Index()
	if err := route.Swap(ru, i, rv, j); err != nil {
		return err
	}
	if err := ru.Update(); err != nil {
		return err
	}
	return rv.Update()
}
