package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gocomet/microfleet/internal/domain/trip"
)

// TripRepo is the PostgreSQL implementation of trip.Repository
type TripRepo struct {
	db *sql.DB
}

// NewTripRepo creates a trip repository backed by the given pool
func NewTripRepo(db *sql.DB) *TripRepo {
	return &TripRepo{db: db}
}

const tripColumns = `
	t.id, t.origin, t.destination, t.distance_km, t.driver_id, t.vehicle_id,
	t.status, t.start_time, t.end_time, t.created_at, t.updated_at,
	d.name, d.license, d.phone, d.status,
	v.model, v.reg_number, v.capacity, v.status`

// List retrieves all trips joined with driver and vehicle summaries
func (r *TripRepo) List(ctx context.Context) ([]trip.Trip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		JOIN drivers d ON d.id = t.driver_id
		JOIN vehicles v ON v.id = t.vehicle_id
		ORDER BY t.start_time DESC, t.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var trips []trip.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: scan: %w", err)
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

// GetByID retrieves a trip joined with driver and vehicle summaries
func (r *TripRepo) GetByID(ctx context.Context, id int64) (*trip.Trip, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		JOIN drivers d ON d.id = t.driver_id
		JOIN vehicles v ON v.id = t.vehicle_id
		WHERE t.id = $1
	`, id)

	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trip.ErrNotFound
		}
		return nil, fmt.Errorf("get trip %d: %w", id, err)
	}
	return t, nil
}

// Create inserts a new ACTIVE trip. A foreign-key rejection from the store
// surfaces as ErrInvalidReference.
func (r *TripRepo) Create(ctx context.Context, t *trip.Trip) error {
	var distance sql.NullFloat64
	if t.DistanceKm != nil {
		distance = sql.NullFloat64{Float64: *t.DistanceKm, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO trips (origin, destination, distance_km, driver_id, vehicle_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, start_time, created_at, updated_at
	`, t.Origin, t.Destination, distance, t.DriverID, t.VehicleID, trip.StatusActive).
		Scan(&t.ID, &t.StartTime, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isPQCode(err, codeForeignKeyViolation) {
			return trip.ErrInvalidReference
		}
		return fmt.Errorf("create trip: %w", err)
	}

	created, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

// End transitions an ACTIVE trip to ENDED. The terminality guard and the
// write are one conditional UPDATE, so two concurrent End calls cannot both
// succeed.
func (r *TripRepo) End(ctx context.Context, id int64, endTime time.Time, distanceKm *float64) (*trip.Trip, error) {
	var distance sql.NullFloat64
	if distanceKm != nil {
		distance = sql.NullFloat64{Float64: *distanceKm, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE trips
		SET status = $2,
		    end_time = $3,
		    distance_km = COALESCE($4, distance_km),
		    updated_at = now()
		WHERE id = $1 AND status = $5
	`, id, trip.StatusEnded, endTime, distance, trip.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("end trip %d: %w", id, err)
	}

	if err := r.checkTransition(ctx, res, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Cancel transitions an ACTIVE trip to CANCELLED without touching endTime
// or distance
func (r *TripRepo) Cancel(ctx context.Context, id int64) (*trip.Trip, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE trips
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
	`, id, trip.StatusCancelled, trip.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("cancel trip %d: %w", id, err)
	}

	if err := r.checkTransition(ctx, res, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a trip row. Trips are leaf records, so there is no guard.
func (r *TripRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete trip %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trip %d: %w", id, err)
	}
	if affected == 0 {
		return trip.ErrNotFound
	}
	return nil
}

// CountByDriver returns the number of trips referencing a driver
func (r *TripRepo) CountByDriver(ctx context.Context, driverID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trips WHERE driver_id = $1`, driverID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count trips by driver %d: %w", driverID, err)
	}
	return count, nil
}

// CountByVehicle returns the number of trips referencing a vehicle
func (r *TripRepo) CountByVehicle(ctx context.Context, vehicleID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trips WHERE vehicle_id = $1`, vehicleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count trips by vehicle %d: %w", vehicleID, err)
	}
	return count, nil
}

// checkTransition distinguishes a missing trip from a terminal one after a
// conditional lifecycle UPDATE matched zero rows
func (r *TripRepo) checkTransition(ctx context.Context, res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("trip %d transition: %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	var status trip.Status
	err = r.db.QueryRowContext(ctx, `SELECT status FROM trips WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return trip.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("trip %d transition: %w", id, err)
	}
	return trip.ErrNotActive
}

// scanTrip maps a trip row joined with driver and vehicle summaries
func scanTrip(s scanner) (*trip.Trip, error) {
	var (
		t        trip.Trip
		distance sql.NullFloat64
		endTime  sql.NullTime
		d        trip.DriverInfo
		v        trip.VehicleInfo
	)

	err := s.Scan(&t.ID, &t.Origin, &t.Destination, &distance, &t.DriverID, &t.VehicleID,
		&t.Status, &t.StartTime, &endTime, &t.CreatedAt, &t.UpdatedAt,
		&d.Name, &d.License, &d.Phone, &d.Status,
		&v.Model, &v.RegNumber, &v.Capacity, &v.Status)
	if err != nil {
		return nil, err
	}

	t.DistanceKm = nullFloat64(distance)
	if endTime.Valid {
		et := endTime.Time
		t.EndTime = &et
	}
	d.ID = t.DriverID
	v.ID = t.VehicleID
	t.Driver = &d
	t.Vehicle = &v

	return &t, nil
}
