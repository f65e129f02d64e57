package view

import (
	"errors"
	"smm-wrapper/lib/smm/api"
)

var ErrWrongUnit = errors.New("method is not available for the unit of this client")

// ShapeError is returned when a response lacks something needed to build a
// table from it, the api package returns the same type for bodies that do
// not decode.
type ShapeError = api.ShapeError
