package nodeops

import "github.com/vrpcore/localsearch/vrperr"

// Local aliases onto the shared vrperr sentinels, so errors.Is works for
// callers importing either package.
var (
	errOutOfRange  = vrperr.ErrOutOfRange
	errRemoveDepot = vrperr.ErrRemoveDepot
)
