package vehicle

import "errors"

var (
	ErrNotFound         = errors.New("vehicle not found")
	ErrInvalidModel     = errors.New("vehicle model is required")
	ErrInvalidRegNumber = errors.New("vehicle registration number is required")
	ErrInvalidCapacity  = errors.New("vehicle capacity must be a positive integer")
	ErrInvalidStatus    = errors.New("invalid vehicle status")
	ErrAlreadyAssigned  = errors.New("vehicle already assigned")
	ErrDuplicateReg     = errors.New("registration number already in use")
	ErrInUse            = errors.New("vehicle has an active assignment or trips")
)
