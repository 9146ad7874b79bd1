package trip

import (
	"strings"
	"time"
)

// Status represents the trip lifecycle state.
// ACTIVE is the only non-terminal state; no transition leaves ENDED or
// CANCELLED.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusEnded     Status = "ENDED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusEnded, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusEnded || s == StatusCancelled
}

// Trip represents a single trip. DriverID and VehicleID are immutable after
// creation; EndTime is set exactly once when the trip ends.
type Trip struct {
	ID          int64        `json:"id"`
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	DistanceKm  *float64     `json:"distanceKm"`
	DriverID    int64        `json:"driverId"`
	VehicleID   int64        `json:"vehicleId"`
	Status      Status       `json:"status"`
	StartTime   time.Time    `json:"startTime"`
	EndTime     *time.Time   `json:"endTime"`
	Driver      *DriverInfo  `json:"driver,omitempty"`
	Vehicle     *VehicleInfo `json:"vehicle,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// DriverInfo is the joined driver summary
type DriverInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	License string `json:"license"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
}

// VehicleInfo is the joined vehicle summary
type VehicleInfo struct {
	ID        int64  `json:"id"`
	Model     string `json:"model"`
	RegNumber string `json:"regNumber"`
	Capacity  int    `json:"capacity"`
	Status    string `json:"status"`
}

// Validate checks the required fields of the entity
func (t *Trip) Validate() error {
	if strings.TrimSpace(t.Origin) == "" {
		return ErrInvalidOrigin
	}
	if strings.TrimSpace(t.Destination) == "" {
		return ErrInvalidDestination
	}
	if t.DriverID <= 0 || t.VehicleID <= 0 {
		return ErrInvalidReference
	}
	if t.DistanceKm != nil && *t.DistanceKm < 0 {
		return ErrInvalidDistance
	}
	return nil
}
