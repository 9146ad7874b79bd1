package driver

import "errors"

var (
	ErrNotFound        = errors.New("driver not found")
	ErrInvalidName     = errors.New("driver name is required")
	ErrInvalidLicense  = errors.New("driver license is required")
	ErrInvalidPhone    = errors.New("driver phone is required")
	ErrInvalidStatus   = errors.New("invalid driver status")
	ErrAlreadyAssigned = errors.New("driver already has an assigned vehicle")
	ErrInUse           = errors.New("driver has an active assignment or trips")
)
