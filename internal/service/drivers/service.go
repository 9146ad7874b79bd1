// Package drivers implements the driver registry and the assignment
// manager. All driver/vehicle link mutations go through AssignVehicle and
// UnassignVehicle; the registry update never touches the link.
package drivers

import (
	"context"
	"errors"

	"github.com/gocomet/microfleet/internal/domain/driver"
	"github.com/gocomet/microfleet/internal/domain/trip"
	"github.com/gocomet/microfleet/internal/domain/vehicle"
	"github.com/gocomet/microfleet/internal/service/integrity"
	apperrors "github.com/gocomet/microfleet/pkg/errors"
	"github.com/gocomet/microfleet/pkg/logger"
)

// Service implements driver registry and assignment operations
type Service struct {
	drivers driver.Repository
	trips   trip.Repository
	logger  *logger.Logger
}

// NewService creates a driver service
func NewService(drivers driver.Repository, trips trip.Repository, log *logger.Logger) *Service {
	return &Service{drivers: drivers, trips: trips, logger: log}
}

// CreateInput carries the required fields for a new driver
type CreateInput struct {
	Name    string
	License string
	Phone   string
}

// UpdateInput carries a partial driver update; nil fields are left unchanged
type UpdateInput struct {
	Name    *string
	License *string
	Phone   *string
	Status  *string
}

// List returns all drivers with assigned vehicle and trip preview
func (s *Service) List(ctx context.Context) ([]driver.Driver, error) {
	result, err := s.drivers.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	if result == nil {
		result = []driver.Driver{}
	}
	return result, nil
}

// Create validates and persists a new driver with no assignment and
// default status AVAILABLE
func (s *Service) Create(ctx context.Context, in CreateInput) (*driver.Driver, error) {
	d := &driver.Driver{
		Name:    in.Name,
		License: in.License,
		Phone:   in.Phone,
		Status:  driver.StatusAvailable,
	}
	if err := d.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	if err := s.drivers.Create(ctx, d); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("Driver created",
		logger.Int64("driver_id", d.ID),
		logger.String("name", d.Name),
	)
	return d, nil
}

// Get returns a driver with its assigned vehicle and full trip history
func (s *Service) Get(ctx context.Context, id int64) (*driver.Driver, error) {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return d, nil
}

// Update applies only the fields present in the partial payload
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*driver.Driver, error) {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	if in.Name != nil {
		d.Name = *in.Name
	}
	if in.License != nil {
		d.License = *in.License
	}
	if in.Phone != nil {
		d.Phone = *in.Phone
	}
	if in.Status != nil {
		d.Status = driver.Status(*in.Status)
	}
	if err := d.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	if err := s.drivers.Update(ctx, d); err != nil {
		return nil, mapError(err)
	}
	return d, nil
}

// Delete removes a driver after the integrity guard clears it.
// The guard-before-delete ordering is mandatory: a driver with an active
// assignment or referencing trips must never be removed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if err := integrity.CheckDriverDeletable(ctx, d, s.trips); err != nil {
		return mapError(err)
	}

	if err := s.drivers.Delete(ctx, id); err != nil {
		return mapError(err)
	}

	s.logger.Info("Driver deleted", logger.Int64("driver_id", id))
	return nil
}

// AssignVehicle links a driver and a vehicle. The link is set atomically on
// both sides; a vehicle that already belongs to another driver is rejected,
// never silently overwritten. A driver that already holds a different
// vehicle is rejected as well, so no stale back-reference can be produced.
func (s *Service) AssignVehicle(ctx context.Context, driverID, vehicleID int64) (*driver.Driver, error) {
	if driverID <= 0 || vehicleID <= 0 {
		return nil, apperrors.Validation("Invalid driverId or vehicleId", nil)
	}

	d, err := s.drivers.Assign(ctx, driverID, vehicleID)
	if err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("Vehicle assigned",
		logger.Int64("driver_id", driverID),
		logger.Int64("vehicle_id", vehicleID),
	)
	return d, nil
}

// UnassignVehicle clears the driver's assignment on both sides
func (s *Service) UnassignVehicle(ctx context.Context, driverID int64) (*driver.Driver, error) {
	if driverID <= 0 {
		return nil, apperrors.Validation("Invalid driver ID format", nil)
	}

	d, err := s.drivers.Unassign(ctx, driverID)
	if err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("Vehicle unassigned", logger.Int64("driver_id", driverID))
	return d, nil
}

// mapError translates store errors into the boundary error taxonomy
func mapError(err error) error {
	switch {
	case errors.Is(err, driver.ErrNotFound):
		return apperrors.NotFound("Driver not found", err)
	case errors.Is(err, vehicle.ErrNotFound):
		return apperrors.NotFound("Vehicle not found", err)
	case errors.Is(err, vehicle.ErrAlreadyAssigned):
		return apperrors.Conflict("Vehicle already assigned", err)
	case errors.Is(err, driver.ErrAlreadyAssigned):
		return apperrors.Conflict("Driver already has an assigned vehicle", err)
	case errors.Is(err, driver.ErrInUse):
		return apperrors.Conflict("Driver has an active assignment or trips", err)
	default:
		return apperrors.Internal("Driver operation failed", err)
	}
}
