package httpadapter

import "errors"

var (
	errMissingCoordinates = errors.New("lat and lon query parameters are required")
	errInvalidCoordinates = errors.New("lat and lon must be numbers")
)
