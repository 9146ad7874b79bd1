// Package vehicles implements the vehicle registry. Assignment links are
// read-only here; they are mutated only through the driver service.
package vehicles

import (
	"context"
	"errors"

	"github.com/gocomet/microfleet/internal/domain/trip"
	"github.com/gocomet/microfleet/internal/domain/vehicle"
	"github.com/gocomet/microfleet/internal/service/integrity"
	apperrors "github.com/gocomet/microfleet/pkg/errors"
	"github.com/gocomet/microfleet/pkg/logger"
)

// Service implements vehicle registry operations
type Service struct {
	vehicles vehicle.Repository
	trips    trip.Repository
	logger   *logger.Logger
}

// NewService creates a vehicle service
func NewService(vehicles vehicle.Repository, trips trip.Repository, log *logger.Logger) *Service {
	return &Service{vehicles: vehicles, trips: trips, logger: log}
}

// CreateInput carries the required fields for a new vehicle
type CreateInput struct {
	Model     string
	RegNumber string
	Capacity  int
}

// UpdateInput carries a partial vehicle update; nil fields are left unchanged
type UpdateInput struct {
	Model    *string
	Status   *string
	Capacity *int
}

// List returns all vehicles with assigned driver and trip preview
func (s *Service) List(ctx context.Context) ([]vehicle.Vehicle, error) {
	result, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	if result == nil {
		result = []vehicle.Vehicle{}
	}
	return result, nil
}

// Create validates and persists a new vehicle with no assignment
func (s *Service) Create(ctx context.Context, in CreateInput) (*vehicle.Vehicle, error) {
	v := &vehicle.Vehicle{
		Model:     in.Model,
		RegNumber: in.RegNumber,
		Capacity:  in.Capacity,
		Status:    vehicle.StatusAvailable,
	}
	if err := v.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("Vehicle created",
		logger.Int64("vehicle_id", v.ID),
		logger.String("reg_number", v.RegNumber),
	)
	return v, nil
}

// Get returns a vehicle with its assigned driver and full trip history
func (s *Service) Get(ctx context.Context, id int64) (*vehicle.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

// Update applies only the fields present in the partial payload.
// Capacity, when present, must be a positive integer.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*vehicle.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	if in.Model != nil {
		v.Model = *in.Model
	}
	if in.Status != nil {
		v.Status = vehicle.Status(*in.Status)
	}
	if in.Capacity != nil {
		v.Capacity = *in.Capacity
	}
	if err := v.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

// Delete removes a vehicle after the integrity guard clears it
func (s *Service) Delete(ctx context.Context, id int64) error {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if err := integrity.CheckVehicleDeletable(ctx, v, s.trips); err != nil {
		return mapError(err)
	}

	if err := s.vehicles.Delete(ctx, id); err != nil {
		return mapError(err)
	}

	s.logger.Info("Vehicle deleted", logger.Int64("vehicle_id", id))
	return nil
}

// mapError translates store errors into the boundary error taxonomy
func mapError(err error) error {
	switch {
	case errors.Is(err, vehicle.ErrNotFound):
		return apperrors.NotFound("Vehicle not found", err)
	case errors.Is(err, vehicle.ErrDuplicateReg):
		return apperrors.Conflict("Registration number already in use", err)
	case errors.Is(err, vehicle.ErrInUse):
		return apperrors.Conflict("Vehicle has an active assignment or trips", err)
	default:
		return apperrors.Internal("Vehicle operation failed", err)
	}
}
