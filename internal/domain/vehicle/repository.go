package vehicle

import "context"

// Repository defines the interface for vehicle data access
type Repository interface {
	// List retrieves all vehicles joined with their assigned driver and a
	// capped trip preview
	List(ctx context.Context) ([]Vehicle, error)

	// GetByID retrieves a vehicle joined with its assigned driver and full
	// trip history. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*Vehicle, error)

	// Create creates a new vehicle and fills ID and timestamps.
	// Returns ErrDuplicateReg if the registration number is taken.
	Create(ctx context.Context, v *Vehicle) error

	// Update persists the mutable fields (model, status, capacity).
	// Assignment links are never written through Update.
	Update(ctx context.Context, v *Vehicle) error

	// Delete removes a vehicle. Returns ErrNotFound if absent, ErrInUse if
	// trips still reference the vehicle.
	Delete(ctx context.Context, id int64) error
}
