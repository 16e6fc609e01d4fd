package nodeops

import (
	"github.com/vrpcore/localsearch/costeval"
	"github.com/vrpcore/localsearch/route"
	"github.com/vrpcore/localsearch/vrptypes"
)

// Operator is the shared interface every node operator implements.
// Evaluate never errors: a structurally impossible move returns a
// zero delta.
type Operator interface {
	// Name identifies the operator for statistics and diagnostics.
	Name() string

	// Evaluate returns the cost change applying this move with u and v as
	// its two argument nodes would cause, or zero if the move is
	// structurally impossible.
	Evaluate(u, v *route.Node, data *vrptypes.ProblemData, ce *costeval.Evaluator) int64

	// Apply mutates the affected route(s) in place to realise the move.
	// The caller must have just called Evaluate with the same (u, v) and
	// observed a negative delta; Apply does not re-validate applicability.
	Apply(u, v *route.Node) error

	// Supports declares whether this operator is applicable to the given
	// problem variant (e.g. reload-depot operators require at least one
	// vehicle type with ReloadDepots configured).
	Supports(data *vrptypes.ProblemData) bool
}

// nodeLocs returns the location indices of r's nodes in [lo, hi).
func nodeLocs(r *route.Route, lo, hi int) ([]int, error) {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		n, err := r.At(i)
		if err != nil {
			return nil, err
		}
		out = append(out, n.LocationIndex)
	}
	return out, nil
}
