package driver

import (
	"strings"
	"time"
)

// Status represents driver availability status. It is advisory display
// state only; the assignment invariant does not depend on it.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusOnTrip    Status = "ON_TRIP"
	StatusInactive  Status = "INACTIVE"
)

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOnTrip, StatusInactive:
		return true
	}
	return false
}

// Driver represents a driver entity.
// AssignedVehicleID is either nil or references a vehicle whose own
// AssignedDriverID points back at this driver.
type Driver struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	License           string       `json:"license"`
	Phone             string       `json:"phone"`
	Status            Status       `json:"status"`
	AssignedVehicleID *int64       `json:"assignedVehicleId"`
	AssignedVehicle   *VehicleInfo `json:"assignedVehicle,omitempty"`
	Trips             []TripInfo   `json:"trips"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// VehicleInfo is the joined summary of the driver's assigned vehicle.
type VehicleInfo struct {
	ID        int64  `json:"id"`
	Model     string `json:"model"`
	RegNumber string `json:"regNumber"`
	Capacity  int    `json:"capacity"`
	Status    string `json:"status"`
}

// TripInfo is the joined summary of a trip this driver has driven.
type TripInfo struct {
	ID          int64      `json:"id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	DistanceKm  *float64   `json:"distanceKm"`
	Status      string     `json:"status"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}

// Validate checks the required fields of the entity
func (d *Driver) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(d.License) == "" {
		return ErrInvalidLicense
	}
	if strings.TrimSpace(d.Phone) == "" {
		return ErrInvalidPhone
	}
	if !d.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
