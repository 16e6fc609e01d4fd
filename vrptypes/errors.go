package vrptypes

import "github.com/vrpcore/localsearch/vrperr"

// Local aliases onto the shared vrperr sentinels, so errors.Is(err, ...)
// works for callers importing either package.
var (
	errInvalidTimeWindow     = vrperr.ErrInvalidTimeWindow
	errNegativeValue         = vrperr.ErrNegativeValue
	errDimensionMismatch     = vrperr.ErrDimensionMismatch
	errInvalidGroup          = vrperr.ErrInvalidGroup
	errOutOfRange            = vrperr.ErrOutOfRange
	errNonSquareMatrix       = vrperr.ErrNonSquareMatrix
	errDuplicateClient       = vrperr.ErrDuplicateClient
	errMissingRequiredClient = vrperr.ErrMissingRequiredClient
	errGroupViolation        = vrperr.ErrGroupViolation
	errVehicleUnavailable    = vrperr.ErrVehicleUnavailable
	errInvalidRouteEndpoints = vrperr.ErrInvalidRouteEndpoints
	errInvalidReloadDepot    = vrperr.ErrInvalidReloadDepot
)
