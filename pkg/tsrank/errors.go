package tsrank

import "errors"

// Input-validation errors (spec §6.3), raised before any computation
// begins.
var (
	ErrInvalidArrayDimension = errors.New("tsrank: weights must be a one-dimensional array")
	ErrArrayTooShort         = errors.New("tsrank: weights array must have at least 4 elements")
	ErrNullNotAllowed        = errors.New("tsrank: weights array must not contain null elements")
	ErrOutOfRange            = errors.New("tsrank: weight exceeds 1.0")
)
