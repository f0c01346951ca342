package usecase

import "errors"

// Sentinel errors the HTTP layer maps onto status codes. Wrap them with
// fmt.Errorf("%w: detail") so errors.Is still matches.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
