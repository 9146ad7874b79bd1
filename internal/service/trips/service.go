// Package trips implements the trip lifecycle manager.
// ACTIVE is the only non-terminal state; End and Cancel are the only
// transitions and both are rejected once a trip is terminal. Trips never
// mutate driver/vehicle assignment state.
package trips

import (
	"context"
	"errors"
	"time"

	"github.com/gocomet/microfleet/internal/domain/driver"
	"github.com/gocomet/microfleet/internal/domain/trip"
	"github.com/gocomet/microfleet/internal/domain/vehicle"
	apperrors "github.com/gocomet/microfleet/pkg/errors"
	"github.com/gocomet/microfleet/pkg/logger"
)

// Service implements trip lifecycle operations
type Service struct {
	trips    trip.Repository
	drivers  driver.Repository
	vehicles vehicle.Repository
	logger   *logger.Logger
}

// NewService creates a trip service
func NewService(trips trip.Repository, drivers driver.Repository, vehicles vehicle.Repository, log *logger.Logger) *Service {
	return &Service{trips: trips, drivers: drivers, vehicles: vehicles, logger: log}
}

// CreateInput carries the fields for a new trip. DistanceKm is optional.
type CreateInput struct {
	Origin      string
	Destination string
	DriverID    int64
	VehicleID   int64
	DistanceKm  *float64
}

// EndInput carries the optional fields for ending a trip. EndTime, when
// supplied, must be RFC 3339.
type EndInput struct {
	DistanceKm *float64
	EndTime    *string
}

// List returns all trips with driver and vehicle summaries
func (s *Service) List(ctx context.Context) ([]trip.Trip, error) {
	result, err := s.trips.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	if result == nil {
		result = []trip.Trip{}
	}
	return result, nil
}

// Get returns a single trip with driver and vehicle summaries
func (s *Service) Get(ctx context.Context, id int64) (*trip.Trip, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

// Create validates and persists a new ACTIVE trip. Both referenced records
// must exist; creation does not touch assignment state.
func (s *Service) Create(ctx context.Context, in CreateInput) (*trip.Trip, error) {
	t := &trip.Trip{
		Origin:      in.Origin,
		Destination: in.Destination,
		DriverID:    in.DriverID,
		VehicleID:   in.VehicleID,
		DistanceKm:  in.DistanceKm,
	}
	if err := t.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	if _, err := s.drivers.GetByID(ctx, in.DriverID); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.vehicles.GetByID(ctx, in.VehicleID); err != nil {
		return nil, mapError(err)
	}

	if err := s.trips.Create(ctx, t); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("Trip created",
		logger.Int64("trip_id", t.ID),
		logger.Int64("driver_id", t.DriverID),
		logger.Int64("vehicle_id", t.VehicleID),
	)
	return t, nil
}

// End transitions an ACTIVE trip to ENDED, setting endTime (supplied or
// current time) and overwriting distance if a new value was supplied
func (s *Service) End(ctx context.Context, id int64, in EndInput) (*trip.Trip, error) {
	endTime := time.Now().UTC()
	if in.EndTime != nil {
		parsed, err := time.Parse(time.RFC3339, *in.EndTime)
		if err != nil {
			return nil, apperrors.Validation("Invalid endTime format", err)
		}
		endTime = parsed
	}
	if in.DistanceKm != nil && *in.DistanceKm < 0 {
		return nil, apperrors.Validation(trip.ErrInvalidDistance.Error(), trip.ErrInvalidDistance)
	}

	t, err := s.trips.End(ctx, id, endTime, in.DistanceKm)
	if err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("Trip ended", logger.Int64("trip_id", id))
	return t, nil
}

// Cancel transitions an ACTIVE trip to CANCELLED. endTime and distance are
// left untouched.
func (s *Service) Cancel(ctx context.Context, id int64) (*trip.Trip, error) {
	t, err := s.trips.Cancel(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("Trip cancelled", logger.Int64("trip_id", id))
	return t, nil
}

// Delete removes a trip unconditionally; trips are leaf records
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return mapError(err)
	}

	s.logger.Info("Trip deleted", logger.Int64("trip_id", id))
	return nil
}

// mapError translates store errors into the boundary error taxonomy
func mapError(err error) error {
	switch {
	case errors.Is(err, trip.ErrNotFound):
		return apperrors.NotFound("Trip not found", err)
	case errors.Is(err, driver.ErrNotFound):
		return apperrors.NotFound("Driver not found", err)
	case errors.Is(err, vehicle.ErrNotFound):
		return apperrors.NotFound("Vehicle not found", err)
	case errors.Is(err, trip.ErrNotActive):
		return apperrors.Conflict("Trip is not active", err)
	case errors.Is(err, trip.ErrInvalidReference):
		return apperrors.Validation("Trip requires a valid driver and vehicle", err)
	default:
		return apperrors.Internal("Trip operation failed", err)
	}
}
