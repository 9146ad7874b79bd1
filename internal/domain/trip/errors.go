package trip

import "errors"

var (
	ErrNotFound           = errors.New("trip not found")
	ErrInvalidOrigin      = errors.New("trip origin is required")
	ErrInvalidDestination = errors.New("trip destination is required")
	ErrInvalidDistance    = errors.New("trip distance must be a non-negative number")
	ErrInvalidReference   = errors.New("trip requires a valid driver and vehicle")
	ErrNotActive          = errors.New("trip is not active")
)
