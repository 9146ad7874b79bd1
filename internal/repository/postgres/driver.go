package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gocomet/microfleet/internal/domain/driver"
	"github.com/gocomet/microfleet/internal/domain/vehicle"
)

// DriverRepo is the PostgreSQL implementation of driver.Repository
type DriverRepo struct {
	db *sql.DB
}

// NewDriverRepo creates a driver repository backed by the given pool
func NewDriverRepo(db *sql.DB) *DriverRepo {
	return &DriverRepo{db: db}
}

const driverColumns = `
	d.id, d.name, d.license, d.phone, d.status, d.assigned_vehicle_id,
	d.created_at, d.updated_at,
	v.id, v.model, v.reg_number, v.capacity, v.status`

// List retrieves all drivers with their assigned vehicle and a capped trip preview
func (r *DriverRepo) List(ctx context.Context) ([]driver.Driver, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+driverColumns+`
		FROM drivers d
		LEFT JOIN vehicles v ON v.id = d.assigned_vehicle_id
		ORDER BY d.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []driver.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("list drivers: scan: %w", err)
		}
		drivers = append(drivers, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drivers: rows: %w", err)
	}

	previews, err := r.tripPreviews(ctx)
	if err != nil {
		return nil, err
	}
	for i := range drivers {
		if trips, ok := previews[drivers[i].ID]; ok {
			drivers[i].Trips = trips
		} else {
			drivers[i].Trips = []driver.TripInfo{}
		}
	}

	return drivers, nil
}

// GetByID retrieves a driver with its assigned vehicle and full trip history
func (r *DriverRepo) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+driverColumns+`
		FROM drivers d
		LEFT JOIN vehicles v ON v.id = d.assigned_vehicle_id
		WHERE d.id = $1
	`, id)

	d, err := scanDriver(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, driver.ErrNotFound
		}
		return nil, fmt.Errorf("get driver %d: %w", id, err)
	}

	trips, err := r.tripsByDriver(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Trips = trips

	return d, nil
}

// Create inserts a new driver row
func (r *DriverRepo) Create(ctx context.Context, d *driver.Driver) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO drivers (name, license, phone, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, d.Name, d.License, d.Phone, d.Status).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create driver: %w", err)
	}
	d.Trips = []driver.TripInfo{}
	return nil
}

// Update writes the mutable fields of a driver. Assignment links are
// mutated only through Assign/Unassign.
func (r *DriverRepo) Update(ctx context.Context, d *driver.Driver) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE drivers
		SET name = $2, license = $3, phone = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, d.ID, d.Name, d.License, d.Phone, d.Status).Scan(&d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return driver.ErrNotFound
		}
		return fmt.Errorf("update driver %d: %w", d.ID, err)
	}
	return nil
}

// Delete removes a driver row. The trips foreign key is ON DELETE RESTRICT,
// so a referenced driver surfaces ErrInUse even if the caller skipped the
// integrity guard.
func (r *DriverRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		if isPQCode(err, codeForeignKeyViolation) {
			return driver.ErrInUse
		}
		return fmt.Errorf("delete driver %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete driver %d: %w", id, err)
	}
	if affected == 0 {
		return driver.ErrNotFound
	}
	return nil
}

// Assign links a driver and a vehicle on both sides in one transaction.
// Locks are taken vehicle first, then driver; a deadlock against a
// concurrent unassign is detected by Postgres and retried by withTx.
func (r *DriverRepo) Assign(ctx context.Context, driverID, vehicleID int64) (*driver.Driver, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var assignedDriver sql.NullInt64
		err := tx.QueryRowContext(ctx, `
			SELECT assigned_driver_id FROM vehicles WHERE id = $1 FOR UPDATE
		`, vehicleID).Scan(&assignedDriver)
		if errors.Is(err, sql.ErrNoRows) {
			return vehicle.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock vehicle %d: %w", vehicleID, err)
		}
		if assignedDriver.Valid {
			return vehicle.ErrAlreadyAssigned
		}

		var assignedVehicle sql.NullInt64
		err = tx.QueryRowContext(ctx, `
			SELECT assigned_vehicle_id FROM drivers WHERE id = $1 FOR UPDATE
		`, driverID).Scan(&assignedVehicle)
		if errors.Is(err, sql.ErrNoRows) {
			return driver.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock driver %d: %w", driverID, err)
		}
		if assignedVehicle.Valid {
			return driver.ErrAlreadyAssigned
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE drivers SET assigned_vehicle_id = $2, updated_at = now() WHERE id = $1
		`, driverID, vehicleID); err != nil {
			return fmt.Errorf("set driver link: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE vehicles SET assigned_driver_id = $2, updated_at = now() WHERE id = $1
		`, vehicleID, driverID); err != nil {
			return fmt.Errorf("set vehicle link: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, driverID)
}

// Unassign clears the driver/vehicle link on both sides in one transaction.
// A driver with no assignment is returned unchanged.
func (r *DriverRepo) Unassign(ctx context.Context, driverID int64) (*driver.Driver, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var assignedVehicle sql.NullInt64
		err := tx.QueryRowContext(ctx, `
			SELECT assigned_vehicle_id FROM drivers WHERE id = $1 FOR UPDATE
		`, driverID).Scan(&assignedVehicle)
		if errors.Is(err, sql.ErrNoRows) {
			return driver.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock driver %d: %w", driverID, err)
		}
		if !assignedVehicle.Valid {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
			SELECT id FROM vehicles WHERE id = $1 FOR UPDATE
		`, assignedVehicle.Int64); err != nil {
			return fmt.Errorf("lock vehicle %d: %w", assignedVehicle.Int64, err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE drivers SET assigned_vehicle_id = NULL, updated_at = now() WHERE id = $1
		`, driverID); err != nil {
			return fmt.Errorf("clear driver link: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE vehicles SET assigned_driver_id = NULL, updated_at = now() WHERE id = $1
		`, assignedVehicle.Int64); err != nil {
			return fmt.Errorf("clear vehicle link: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, driverID)
}

// tripPreviews returns the most recent trips per driver, capped at
// driver.TripPreviewLimit, keyed by driver id.
func (r *DriverRepo) tripPreviews(ctx context.Context) (map[int64][]driver.TripInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT driver_id, id, origin, destination, distance_km, status, start_time, end_time
		FROM (
			SELECT t.*, ROW_NUMBER() OVER (
				PARTITION BY driver_id ORDER BY start_time DESC, id DESC
			) AS rn
			FROM trips t
		) ranked
		WHERE rn <= $1
	`, driver.TripPreviewLimit)
	if err != nil {
		return nil, fmt.Errorf("driver trip previews: %w", err)
	}
	defer rows.Close()

	previews := make(map[int64][]driver.TripInfo)
	for rows.Next() {
		var driverID int64
		info, err := scanDriverTrip(rows, &driverID)
		if err != nil {
			return nil, fmt.Errorf("driver trip previews: scan: %w", err)
		}
		previews[driverID] = append(previews[driverID], info)
	}
	return previews, rows.Err()
}

// tripsByDriver returns the full trip history of a driver
func (r *DriverRepo) tripsByDriver(ctx context.Context, driverID int64) ([]driver.TripInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT driver_id, id, origin, destination, distance_km, status, start_time, end_time
		FROM trips
		WHERE driver_id = $1
		ORDER BY start_time DESC, id DESC
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("trips by driver %d: %w", driverID, err)
	}
	defer rows.Close()

	trips := []driver.TripInfo{}
	for rows.Next() {
		var id int64
		info, err := scanDriverTrip(rows, &id)
		if err != nil {
			return nil, fmt.Errorf("trips by driver %d: scan: %w", driverID, err)
		}
		trips = append(trips, info)
	}
	return trips, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// scanDriver maps a driver row joined with its (possibly absent) vehicle
func scanDriver(s scanner) (*driver.Driver, error) {
	var (
		d                 driver.Driver
		assignedVehicleID sql.NullInt64
		vID               sql.NullInt64
		vModel, vReg      sql.NullString
		vCapacity         sql.NullInt64
		vStatus           sql.NullString
	)

	err := s.Scan(&d.ID, &d.Name, &d.License, &d.Phone, &d.Status, &assignedVehicleID,
		&d.CreatedAt, &d.UpdatedAt,
		&vID, &vModel, &vReg, &vCapacity, &vStatus)
	if err != nil {
		return nil, err
	}

	d.AssignedVehicleID = nullInt64(assignedVehicleID)
	if vID.Valid {
		d.AssignedVehicle = &driver.VehicleInfo{
			ID:        vID.Int64,
			Model:     vModel.String,
			RegNumber: vReg.String,
			Capacity:  int(vCapacity.Int64),
			Status:    vStatus.String,
		}
	}

	return &d, nil
}

// scanDriverTrip maps one trip summary row, writing the owning driver id
// into driverID
func scanDriverTrip(s scanner, driverID *int64) (driver.TripInfo, error) {
	var (
		info     driver.TripInfo
		distance sql.NullFloat64
		endTime  sql.NullTime
	)
	err := s.Scan(driverID, &info.ID, &info.Origin, &info.Destination,
		&distance, &info.Status, &info.StartTime, &endTime)
	if err != nil {
		return driver.TripInfo{}, err
	}
	info.DistanceKm = nullFloat64(distance)
	if endTime.Valid {
		t := endTime.Time
		info.EndTime = &t
	}
	return info, nil
}
