package trip

import (
	"context"
	"time"
)

// Repository defines the interface for trip data access
type Repository interface {
	// List retrieves all trips joined with driver and vehicle summaries
	List(ctx context.Context) ([]Trip, error)

	// GetByID retrieves a trip joined with driver and vehicle summaries.
	// Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*Trip, error)

	// Create creates a new ACTIVE trip and fills ID, StartTime, and
	// timestamps. Returns ErrInvalidReference if the store rejects the
	// driver or vehicle foreign key.
	Create(ctx context.Context, t *Trip) error

	// End atomically transitions an ACTIVE trip to ENDED, setting endTime
	// and overwriting distance when a new value is supplied. Returns
	// ErrNotActive if the trip is already terminal, ErrNotFound if absent.
	End(ctx context.Context, id int64, endTime time.Time, distanceKm *float64) (*Trip, error)

	// Cancel atomically transitions an ACTIVE trip to CANCELLED. Same
	// terminality guard as End; endTime and distance are left untouched.
	Cancel(ctx context.Context, id int64) (*Trip, error)

	// Delete removes a trip. Trips are leaf records; there is no guard.
	Delete(ctx context.Context, id int64) error

	// CountByDriver returns the number of trips referencing a driver
	CountByDriver(ctx context.Context, driverID int64) (int, error)

	// CountByVehicle returns the number of trips referencing a vehicle
	CountByVehicle(ctx context.Context, vehicleID int64) (int, error)
}
