// Package memory implements the repository interfaces on an in-process map
// store. One mutex serializes every operation, so the multi-record mutations
// (assignment set/clear, trip terminal transitions) are atomic exactly like
// their SQL-transaction counterparts. Used by unit tests and local runs
// without Postgres.
package memory

import (
	"sort"
	"sync"

	"github.com/gocomet/microfleet/internal/domain/driver"
	"github.com/gocomet/microfleet/internal/domain/trip"
	"github.com/gocomet/microfleet/internal/domain/vehicle"
)

// Store holds all fleet records behind a single mutex
type Store struct {
	mu sync.Mutex

	drivers  map[int64]*driver.Driver
	vehicles map[int64]*vehicle.Vehicle
	trips    map[int64]*trip.Trip

	driverSeq  int64
	vehicleSeq int64
	tripSeq    int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		drivers:  make(map[int64]*driver.Driver),
		vehicles: make(map[int64]*vehicle.Vehicle),
		trips:    make(map[int64]*trip.Trip),
	}
}

// Drivers returns the driver repository view of the store
func (s *Store) Drivers() driver.Repository {
	return &driverRepo{s}
}

// Vehicles returns the vehicle repository view of the store
func (s *Store) Vehicles() vehicle.Repository {
	return &vehicleRepo{s}
}

// Trips returns the trip repository view of the store
func (s *Store) Trips() trip.Repository {
	return &tripRepo{s}
}

// tripsOf returns the trips referencing the given driver or vehicle id,
// most recent first. Callers must hold s.mu.
func (s *Store) tripsOf(byDriver bool, id int64) []*trip.Trip {
	var out []*trip.Trip
	for _, t := range s.trips {
		if (byDriver && t.DriverID == id) || (!byDriver && t.VehicleID == id) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
