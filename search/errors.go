package search

import "github.com/vrpcore/localsearch/vrperr"

var (
	errOutOfRange = vrperr.ErrOutOfRange
)
