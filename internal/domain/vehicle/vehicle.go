package vehicle

import (
	"strings"
	"time"
)

// Status represents vehicle availability status (advisory display state)
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusInService   Status = "IN_SERVICE"
	StatusMaintenance Status = "MAINTENANCE"
)

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusInService, StatusMaintenance:
		return true
	}
	return false
}

// Vehicle represents a vehicle entity.
// AssignedDriverID mirrors driver.AssignedVehicleID; the pair is mutated
// only through the atomic assign/unassign store operations.
type Vehicle struct {
	ID               int64       `json:"id"`
	Model            string      `json:"model"`
	RegNumber        string      `json:"regNumber"`
	Capacity         int         `json:"capacity"`
	Status           Status      `json:"status"`
	AssignedDriverID *int64      `json:"assignedDriverId"`
	AssignedDriver   *DriverInfo `json:"assignedDriver,omitempty"`
	Trips            []TripInfo  `json:"trips"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// DriverInfo is the joined summary of the vehicle's assigned driver.
type DriverInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	License string `json:"license"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
}

// TripInfo is the joined summary of a trip driven with this vehicle.
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
func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.Model) == "" {
		return ErrInvalidModel
	}
	if strings.TrimSpace(v.RegNumber) == "" {
		return ErrInvalidRegNumber
	}
	if v.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if !v.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
