package neighbourhood

import "github.com/vrpcore/localsearch/vrperr"

var (
	errOutOfRange        = vrperr.ErrOutOfRange
	errDimensionMismatch = vrperr.ErrDimensionMismatch
)
