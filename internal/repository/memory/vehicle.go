package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gocomet/microfleet/internal/domain/vehicle"
)

type vehicleRepo struct {
	s *Store
}

func (r *vehicleRepo) List(ctx context.Context) ([]vehicle.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]vehicle.Vehicle, 0, len(r.s.vehicles))
	for _, v := range r.s.vehicles {
		out = append(out, *r.joined(v, 2))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *vehicleRepo) GetByID(ctx context.Context, id int64) (*vehicle.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.vehicles[id]
	if !ok {
		return nil, vehicle.ErrNotFound
	}
	return r.joined(v, 0), nil
}

func (r *vehicleRepo) Create(ctx context.Context, v *vehicle.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.vehicles {
		if existing.RegNumber == v.RegNumber {
			return vehicle.ErrDuplicateReg
		}
	}

	r.s.vehicleSeq++
	now := time.Now().UTC()
	v.ID = r.s.vehicleSeq
	v.CreatedAt = now
	v.UpdatedAt = now
	v.Trips = []vehicle.TripInfo{}

	stored := *v
	stored.AssignedDriver = nil
	stored.Trips = nil
	r.s.vehicles[v.ID] = &stored
	return nil
}

func (r *vehicleRepo) Update(ctx context.Context, v *vehicle.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.vehicles[v.ID]
	if !ok {
		return vehicle.ErrNotFound
	}
	stored.Model = v.Model
	stored.Capacity = v.Capacity
	stored.Status = v.Status
	stored.UpdatedAt = time.Now().UTC()
	v.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *vehicleRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vehicles[id]; !ok {
		return vehicle.ErrNotFound
	}
	for _, t := range r.s.trips {
		if t.VehicleID == id {
			return vehicle.ErrInUse
		}
	}
	delete(r.s.vehicles, id)
	return nil
}

// joined builds the read view of a vehicle. Callers must hold s.mu.
func (r *vehicleRepo) joined(v *vehicle.Vehicle, limit int) *vehicle.Vehicle {
	out := *v
	out.Trips = []vehicle.TripInfo{}

	if v.AssignedDriverID != nil {
		if d, ok := r.s.drivers[*v.AssignedDriverID]; ok {
			out.AssignedDriver = &vehicle.DriverInfo{
				ID:      d.ID,
				Name:    d.Name,
				License: d.License,
				Phone:   d.Phone,
				Status:  string(d.Status),
			}
		}
	}

	for _, t := range r.s.tripsOf(false, v.ID) {
		if limit > 0 && len(out.Trips) == limit {
			break
		}
		out.Trips = append(out.Trips, vehicle.TripInfo{
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
