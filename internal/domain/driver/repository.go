package driver

import "context"

// TripPreviewLimit caps the number of trips joined into the list view.
// The detail view always carries the driver's full trip history.
const TripPreviewLimit = 2

// Repository defines the interface for driver data access
type Repository interface {
	// List retrieves all drivers joined with their assigned vehicle and a
	// capped trip preview (TripPreviewLimit most recent trips)
	List(ctx context.Context) ([]Driver, error)

	// GetByID retrieves a driver by ID joined with its assigned vehicle and
	// full trip history. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*Driver, error)

	// Create creates a new driver and fills ID and timestamps
	Create(ctx context.Context, d *Driver) error

	// Update persists the mutable fields (name, license, phone, status).
	// Assignment links are never written through Update.
	Update(ctx context.Context, d *Driver) error

	// Delete removes a driver. Returns ErrNotFound if absent, ErrInUse if
	// the store rejects the delete because trips still reference the driver.
	Delete(ctx context.Context, id int64) error

	// Assign atomically links the driver and vehicle on both sides.
	// Returns ErrNotFound / vehicle.ErrNotFound if either is absent,
	// vehicle.ErrAlreadyAssigned if the vehicle belongs to another driver,
	// and ErrAlreadyAssigned if this driver already holds a vehicle.
	// Exactly one of two concurrent Assign calls on the same vehicle succeeds.
	Assign(ctx context.Context, driverID, vehicleID int64) (*Driver, error)

	// Unassign atomically clears the link on both sides. A driver with no
	// assignment unassigns to the same state without error.
	Unassign(ctx context.Context, driverID int64) (*Driver, error)
}
