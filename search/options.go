package search

import (
	"time"

	"github.com/vrpcore/localsearch/nodeops"
	"github.com/vrpcore/localsearch/routeops"
)

// Default knobs.
const (
	// DefaultEps is the minimal strictly-negative delta accepted as an
	// improving move; deltas in [-Eps, 0] are treated as zero to absorb
	// accumulated rounding in downstream penalty weights.
	DefaultEps = 0

	// DefaultNumNeighbours caps each client's granular neighbour list.
	DefaultNumNeighbours = 10

	// DefaultOverlapTolerance is the minimum fraction of shared
	// neighbours two routes must have before intensify considers the
	// pair (see DESIGN.md "overlap tolerance").
	DefaultOverlapTolerance = 0.0
)

// Options configures a LocalSearch driver.
// Zero value is not meaningful; use DefaultOptions() and override fields.
type Options struct {
	// Seed controls the deterministic shuffler used for iteration order.
	Seed int64

	// Eps is the minimal strictly-negative delta accepted as improving.
	// A candidate move with Evaluate() in [-Eps, 0] is not applied, to
	// guarantee progress under accumulated rounding in penalty weights.
	Eps int64

	// NumNeighbours bounds each client's granular neighbour list.
	NumNeighbours int

	// SymmetricNeighbours requests closed neighbourhood adjacency.
	SymmetricNeighbours bool

	// NeighbourhoodProfile selects which distance/duration profile
	// neighbourhood proximity is measured against.
	NeighbourhoodProfile int

	// WeightWaitTime and WeightTimeWarp parameterize the neighbourhood
	// proximity formula.
	WeightWaitTime int64
	WeightTimeWarp int64

	// OverlapTolerance is the minimum fraction of one route's clients
	// that must count another route among their granular neighbours
	// before intensify considers that route pair (see DESIGN.md).
	OverlapTolerance float64

	// TimeLimit softly bounds a Call invocation's wall-clock time; zero
	// means unlimited.
	TimeLimit time.Duration

	// NodeOperators is the ordered set of node operators search() tries,
	// per neighbour, per client.
	NodeOperators []nodeops.Operator

	// RouteOperators is the ordered set of route operators intensify()
	// tries for every overlapping route pair.
	RouteOperators []routeops.Operator

	// Perturbation is applied once at the start of Call, before search
	// and intensify.
	Perturbation Perturbation
}

// Option mutates an Options value before the driver is built.
type Option func(*Options)

// WithSeed overrides the deterministic RNG seed.
func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

// WithEps overrides the minimal accepted improving delta.
func WithEps(eps int64) Option { return func(o *Options) { o.Eps = eps } }

// WithNumNeighbours overrides the granular neighbourhood size.
func WithNumNeighbours(k int) Option { return func(o *Options) { o.NumNeighbours = k } }

// WithSymmetricNeighbours toggles closed neighbourhood adjacency.
func WithSymmetricNeighbours(symmetric bool) Option {
	return func(o *Options) { o.SymmetricNeighbours = symmetric }
}

// WithOverlapTolerance overrides the route-pair overlap threshold used by
// intensify.
func WithOverlapTolerance(tolerance float64) Option {
	return func(o *Options) { o.OverlapTolerance = tolerance }
}

// WithTimeLimit overrides the soft wall-clock deadline for Call.
func WithTimeLimit(d time.Duration) Option { return func(o *Options) { o.TimeLimit = d } }

// WithNodeOperators overrides the ordered node-operator set.
func WithNodeOperators(ops ...nodeops.Operator) Option {
	return func(o *Options) { o.NodeOperators = ops }
}

// WithRouteOperators overrides the ordered route-operator set.
func WithRouteOperators(ops ...routeops.Operator) Option {
	return func(o *Options) { o.RouteOperators = ops }
}

// WithPerturbation overrides the perturbation operator run at the start of
// Call.
func WithPerturbation(p Perturbation) Option { return func(o *Options) { o.Perturbation = p } }

// DefaultOptions returns a fully populated Options with the standard node
// operator set (the Insert family for detached and optional clients,
// Exchange(1,0), Exchange(1,1), Exchange(2,1), MoveTwoClientsReversed,
// TwoOpt), the standard route operator set (SwapStar, SwapRoutes,
// RelocateStar), deterministic seed 0, and no perturbation. ReplaceGroup is
// deliberately excluded: its three-party EvaluateCandidate/ApplyCandidate
// protocol needs a candidate supplied out of band, which the generic
// (u, v) driver loop cannot provide (see DESIGN.md).
func DefaultOptions() Options {
	exchange10, _ := nodeops.NewExchange(1, 0)
	exchange11, _ := nodeops.NewExchange(1, 1)
	exchange21, _ := nodeops.NewExchange(2, 1)
	return Options{
		Seed:                0,
		Eps:                 DefaultEps,
		NumNeighbours:       DefaultNumNeighbours,
		SymmetricNeighbours: true,
		OverlapTolerance:    DefaultOverlapTolerance,
		NodeOperators: []nodeops.Operator{
			// Insert and its optional/group variants are listed first:
			// they are the only node operators that can route a currently
			// detached client. A detached required client is also placed
			// directly by the driver's searchPass.
			nodeops.Insert{},
			nodeops.OptionalInsert{},
			nodeops.RemoveOptional{},
			nodeops.ReplaceOptional{},
			nodeops.Replace{},
			nodeops.SwapInPlace{},
			exchange10,
			exchange11,
			exchange21,
			nodeops.MoveTwoClientsReversed{},
			nodeops.TwoOpt{},
		},
		RouteOperators: []routeops.Operator{
			routeops.NewSwapStar(),
			routeops.SwapRoutes{},
			routeops.NewRelocateStar(),
		},
	}
}
