package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gocomet/microfleet/internal/domain/vehicle"
)

// VehicleRepo is the PostgreSQL implementation of vehicle.Repository
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo creates a vehicle repository backed by the given pool
func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

const vehicleColumns = `
	v.id, v.model, v.reg_number, v.capacity, v.status, v.assigned_driver_id,
	v.created_at, v.updated_at,
	d.id, d.name, d.license, d.phone, d.status`

// List retrieves all vehicles with their assigned driver and a capped trip preview
func (r *VehicleRepo) List(ctx context.Context) ([]vehicle.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles v
		LEFT JOIN drivers d ON d.id = v.assigned_driver_id
		ORDER BY v.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []vehicle.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: scan: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: rows: %w", err)
	}

	previews, err := r.tripPreviews(ctx)
	if err != nil {
		return nil, err
	}
	for i := range vehicles {
		if trips, ok := previews[vehicles[i].ID]; ok {
			vehicles[i].Trips = trips
		} else {
			vehicles[i].Trips = []vehicle.TripInfo{}
		}
	}

	return vehicles, nil
}

// GetByID retrieves a vehicle with its assigned driver and full trip history
func (r *VehicleRepo) GetByID(ctx context.Context, id int64) (*vehicle.Vehicle, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles v
		LEFT JOIN drivers d ON d.id = v.assigned_driver_id
		WHERE v.id = $1
	`, id)

	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vehicle.ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle %d: %w", id, err)
	}

	trips, err := r.tripsByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Trips = trips

	return v, nil
}

// Create inserts a new vehicle row
func (r *VehicleRepo) Create(ctx context.Context, v *vehicle.Vehicle) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO vehicles (model, reg_number, capacity, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, v.Model, v.RegNumber, v.Capacity, v.Status).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if isPQCode(err, codeUniqueViolation) {
			return vehicle.ErrDuplicateReg
		}
		return fmt.Errorf("create vehicle: %w", err)
	}
	v.Trips = []vehicle.TripInfo{}
	return nil
}

// Update writes the mutable fields of a vehicle
func (r *VehicleRepo) Update(ctx context.Context, v *vehicle.Vehicle) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE vehicles
		SET model = $2, capacity = $3, status = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, v.ID, v.Model, v.Capacity, v.Status).Scan(&v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vehicle.ErrNotFound
		}
		return fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	return nil
}

// Delete removes a vehicle row. Referenced vehicles surface ErrInUse via the
// ON DELETE RESTRICT foreign key.
func (r *VehicleRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		if isPQCode(err, codeForeignKeyViolation) {
			return vehicle.ErrInUse
		}
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	if affected == 0 {
		return vehicle.ErrNotFound
	}
	return nil
}

// tripPreviews returns the most recent trips per vehicle, keyed by vehicle id
func (r *VehicleRepo) tripPreviews(ctx context.Context) (map[int64][]vehicle.TripInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT vehicle_id, id, origin, destination, distance_km, status, start_time, end_time
		FROM (
			SELECT t.*, ROW_NUMBER() OVER (
				PARTITION BY vehicle_id ORDER BY start_time DESC, id DESC
			) AS rn
			FROM trips t
		) ranked
		WHERE rn <= 2
	`)
	if err != nil {
		return nil, fmt.Errorf("vehicle trip previews: %w", err)
	}
	defer rows.Close()

	previews := make(map[int64][]vehicle.TripInfo)
	for rows.Next() {
		var vehicleID int64
		info, err := scanVehicleTrip(rows, &vehicleID)
		if err != nil {
			return nil, fmt.Errorf("vehicle trip previews: scan: %w", err)
		}
		previews[vehicleID] = append(previews[vehicleID], info)
	}
	return previews, rows.Err()
}

// tripsByVehicle returns the full trip history of a vehicle
func (r *VehicleRepo) tripsByVehicle(ctx context.Context, vehicleID int64) ([]vehicle.TripInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT vehicle_id, id, origin, destination, distance_km, status, start_time, end_time
		FROM trips
		WHERE vehicle_id = $1
		ORDER BY start_time DESC, id DESC
	`, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("trips by vehicle %d: %w", vehicleID, err)
	}
	defer rows.Close()

	trips := []vehicle.TripInfo{}
	for rows.Next() {
		var id int64
		info, err := scanVehicleTrip(rows, &id)
		if err != nil {
			return nil, fmt.Errorf("trips by vehicle %d: scan: %w", vehicleID, err)
		}
		trips = append(trips, info)
	}
	return trips, rows.Err()
}

// scanVehicle maps a vehicle row joined with its (possibly absent) driver
func scanVehicle(s scanner) (*vehicle.Vehicle, error) {
	var (
		v                vehicle.Vehicle
		assignedDriverID sql.NullInt64
		dID              sql.NullInt64
		dName, dLicense  sql.NullString
		dPhone, dStatus  sql.NullString
	)

	err := s.Scan(&v.ID, &v.Model, &v.RegNumber, &v.Capacity, &v.Status, &assignedDriverID,
		&v.CreatedAt, &v.UpdatedAt,
		&dID, &dName, &dLicense, &dPhone, &dStatus)
	if err != nil {
		return nil, err
	}

	v.AssignedDriverID = nullInt64(assignedDriverID)
	if dID.Valid {
		v.AssignedDriver = &vehicle.DriverInfo{
			ID:      dID.Int64,
			Name:    dName.String,
			License: dLicense.String,
			Phone:   dPhone.String,
			Status:  dStatus.String,
		}
	}

	return &v, nil
}

// scanVehicleTrip maps one trip summary row, writing the owning vehicle id
// into vehicleID
func scanVehicleTrip(s scanner, vehicleID *int64) (vehicle.TripInfo, error) {
	var (
		info     vehicle.TripInfo
		distance sql.NullFloat64
		endTime  sql.NullTime
	)
	err := s.Scan(vehicleID, &info.ID, &info.Origin, &info.Destination,
		&distance, &info.Status, &info.StartTime, &endTime)
	if err != nil {
		return vehicle.TripInfo{}, err
	}
	info.DistanceKm = nullFloat64(distance)
	if endTime.Valid {
		t := endTime.Time
		info.EndTime = &t
	}
	return info, nil
}
