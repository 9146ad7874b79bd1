// Package integrity holds the deletion-safety checks shared by the driver
// and vehicle registries. The guard is a pure predicate over store state:
// it owns no state of its own and must run before every registry delete so
// no orphaned back-reference can be left behind.
package integrity

import (
	"context"
	"fmt"

	"github.com/gocomet/microfleet/internal/domain/driver"
	"github.com/gocomet/microfleet/internal/domain/vehicle"
)

// TripCounter is the slice of the trip store the guard reads
type TripCounter interface {
	CountByDriver(ctx context.Context, driverID int64) (int, error)
	CountByVehicle(ctx context.Context, vehicleID int64) (int, error)
}

// CheckDriverDeletable returns driver.ErrInUse if the driver holds an
// assignment or any trip still references it
func CheckDriverDeletable(ctx context.Context, d *driver.Driver, trips TripCounter) error {
	if d.AssignedVehicleID != nil {
		return driver.ErrInUse
	}
	count, err := trips.CountByDriver(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("count driver trips: %w", err)
	}
	if count > 0 {
		return driver.ErrInUse
	}
	return nil
}

// CheckVehicleDeletable returns vehicle.ErrInUse if the vehicle holds an
// assignment or any trip still references it
func CheckVehicleDeletable(ctx context.Context, v *vehicle.Vehicle, trips TripCounter) error {
	if v.AssignedDriverID != nil {
		return vehicle.ErrInUse
	}
	count, err := trips.CountByVehicle(ctx, v.ID)
	if err != nil {
		return fmt.Errorf("count vehicle trips: %w", err)
	}
	if count > 0 {
		return vehicle.ErrInUse
	}
	return nil
}
