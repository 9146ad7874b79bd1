package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gocomet/microfleet/internal/domain/driver"
	"github.com/gocomet/microfleet/internal/domain/vehicle"
)

type driverRepo struct {
	s *Store
}

func (r *driverRepo) List(ctx context.Context) ([]driver.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]driver.Driver, 0, len(r.s.drivers))
	for _, d := range r.s.drivers {
		out = append(out, *r.joined(d, driver.TripPreviewLimit))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.drivers[id]
	if !ok {
		return nil, driver.ErrNotFound
	}
	return r.joined(d, 0), nil
}

func (r *driverRepo) Create(ctx context.Context, d *driver.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.driverSeq++
	now := time.Now().UTC()
	d.ID = r.s.driverSeq
	d.CreatedAt = now
	d.UpdatedAt = now
	d.Trips = []driver.TripInfo{}

	stored := *d
	stored.AssignedVehicle = nil
	stored.Trips = nil
	r.s.drivers[d.ID] = &stored
	return nil
}

func (r *driverRepo) Update(ctx context.Context, d *driver.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.drivers[d.ID]
	if !ok {
		return driver.ErrNotFound
	}
	stored.Name = d.Name
	stored.License = d.License
	stored.Phone = d.Phone
	stored.Status = d.Status
	stored.UpdatedAt = time.Now().UTC()
	d.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *driverRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.drivers[id]; !ok {
		return driver.ErrNotFound
	}
	for _, t := range r.s.trips {
		if t.DriverID == id {
			return driver.ErrInUse
		}
	}
	delete(r.s.drivers, id)
	return nil
}

func (r *driverRepo) Assign(ctx context.Context, driverID, vehicleID int64) (*driver.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.vehicles[vehicleID]
	if !ok {
		return nil, vehicle.ErrNotFound
	}
	if v.AssignedDriverID != nil {
		return nil, vehicle.ErrAlreadyAssigned
	}
	d, ok := r.s.drivers[driverID]
	if !ok {
		return nil, driver.ErrNotFound
	}
	if d.AssignedVehicleID != nil {
		return nil, driver.ErrAlreadyAssigned
	}

	now := time.Now().UTC()
	vid, did := vehicleID, driverID
	d.AssignedVehicleID = &vid
	d.UpdatedAt = now
	v.AssignedDriverID = &did
	v.UpdatedAt = now

	return r.joined(d, 0), nil
}

func (r *driverRepo) Unassign(ctx context.Context, driverID int64) (*driver.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.drivers[driverID]
	if !ok {
		return nil, driver.ErrNotFound
	}
	if d.AssignedVehicleID != nil {
		if v, ok := r.s.vehicles[*d.AssignedVehicleID]; ok {
			v.AssignedDriverID = nil
			v.UpdatedAt = time.Now().UTC()
		}
		d.AssignedVehicleID = nil
		d.UpdatedAt = time.Now().UTC()
	}

	return r.joined(d, 0), nil
}

// joined builds the read view of a driver with its vehicle summary and
// trips (capped when limit > 0). Callers must hold s.mu.
func (r *driverRepo) joined(d *driver.Driver, limit int) *driver.Driver {
	out := *d
	out.Trips = []driver.TripInfo{}

	if d.AssignedVehicleID != nil {
		if v, ok := r.s.vehicles[*d.AssignedVehicleID]; ok {
			out.AssignedVehicle = &driver.VehicleInfo{
				ID:        v.ID,
				Model:     v.Model,
				RegNumber: v.RegNumber,
				Capacity:  v.Capacity,
				Status:    string(v.Status),
			}
		}
	}

	for _, t := range r.s.tripsOf(true, d.ID) {
		if limit > 0 && len(out.Trips) == limit {
			break
		}
		out.Trips = append(out.Trips, driver.TripInfo{
			ID:          t.ID,
			Origin:      t.Origin,
			Destination: t.Destination,
			DistanceKm:  t.DistanceKm,
			Status:      string(t.Status),
			StartTime:   t.StartTime,
			EndTime:     t.EndTime,
		})
	}
	return &out
}
