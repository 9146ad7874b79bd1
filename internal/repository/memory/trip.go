package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gocomet/microfleet/internal/domain/trip"
)

type tripRepo struct {
	s *Store
}

func (r *tripRepo) List(ctx context.Context) ([]trip.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []trip.Trip
	for _, t := range r.s.trips {
		out = append(out, *r.joined(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *tripRepo) GetByID(ctx context.Context, id int64) (*trip.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.trips[id]
	if !ok {
		return nil, trip.ErrNotFound
	}
	return r.joined(t), nil
}

func (r *tripRepo) Create(ctx context.Context, t *trip.Trip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.drivers[t.DriverID]; !ok {
		return trip.ErrInvalidReference
	}
	if _, ok := r.s.vehicles[t.VehicleID]; !ok {
		return trip.ErrInvalidReference
	}

	r.s.tripSeq++
	now := time.Now().UTC()
	t.ID = r.s.tripSeq
	t.Status = trip.StatusActive
	t.StartTime = now
	t.EndTime = nil
	t.CreatedAt = now
	t.UpdatedAt = now

	stored := *t
	stored.Driver = nil
	stored.Vehicle = nil
	r.s.trips[t.ID] = &stored

	*t = *r.joined(&stored)
	return nil
}

func (r *tripRepo) End(ctx context.Context, id int64, endTime time.Time, distanceKm *float64) (*trip.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.trips[id]
	if !ok {
		return nil, trip.ErrNotFound
	}
	if t.Status != trip.StatusActive {
		return nil, trip.ErrNotActive
	}

	t.Status = trip.StatusEnded
	et := endTime
	t.EndTime = &et
	if distanceKm != nil {
		d := *distanceKm
		t.DistanceKm = &d
	}
	t.UpdatedAt = time.Now().UTC()

	return r.joined(t), nil
}

func (r *tripRepo) Cancel(ctx context.Context, id int64) (*trip.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.trips[id]
	if !ok {
		return nil, trip.ErrNotFound
	}
	if t.Status != trip.StatusActive {
		return nil, trip.ErrNotActive
	}

	t.Status = trip.StatusCancelled
	t.UpdatedAt = time.Now().UTC()

	return r.joined(t), nil
}

func (r *tripRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.trips[id]; !ok {
		return trip.ErrNotFound
	}
	delete(r.s.trips, id)
	return nil
}

func (r *tripRepo) CountByDriver(ctx context.Context, driverID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, t := range r.s.trips {
		if t.DriverID == driverID {
			count++
		}
	}
	return count, nil
}

func (r *tripRepo) CountByVehicle(ctx context.Context, vehicleID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, t := range r.s.trips {
		if t.VehicleID == vehicleID {
			count++
		}
	}
	return count, nil
}

// joined builds the read view of a trip with driver and vehicle summaries.
// Callers must hold s.mu.
func (r *tripRepo) joined(t *trip.Trip) *trip.Trip {
	out := *t
	if d, ok := r.s.drivers[t.DriverID]; ok {
		out.Driver = &trip.DriverInfo{
			ID:      d.ID,
			Name:    d.Name,
			License: d.License,
			Phone:   d.Phone,
			Status:  string(d.Status),
		}
	}
	if v, ok := r.s.vehicles[t.VehicleID]; ok {
		out.Vehicle = &trip.VehicleInfo{
			ID:        v.ID,
			Model:     v.Model,
			RegNumber: v.RegNumber,
			Capacity:  v.Capacity,
			Status:    string(v.Status),
		}
	}
	return &out
}
