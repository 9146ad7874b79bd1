package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusActive.IsTerminal())
	assert.True(t, StatusEnded.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.False(t, Status("PAUSED").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestValidate(t *testing.T) {
	negative := -1.0
	zero := 0.0

	tests := []struct {
		name    string
		trip    Trip
		wantErr error
	}{
		{
			name:    "valid",
			trip:    Trip{Origin: "Depot", Destination: "Airport", DriverID: 1, VehicleID: 1},
			wantErr: nil,
		},
		{
			name:    "zero distance allowed",
			trip:    Trip{Origin: "Depot", Destination: "Airport", DriverID: 1, VehicleID: 1, DistanceKm: &zero},
			wantErr: nil,
		},
		{
			name:    "blank origin",
			trip:    Trip{Origin: "  ", Destination: "Airport", DriverID: 1, VehicleID: 1},
			wantErr: ErrInvalidOrigin,
		},
		{
			name:    "blank destination",
			trip:    Trip{Origin: "Depot", Destination: "", DriverID: 1, VehicleID: 1},
			wantErr: ErrInvalidDestination,
		},
		{
			name:    "missing driver reference",
			trip:    Trip{Origin: "Depot", Destination: "Airport", VehicleID: 1},
			wantErr: ErrInvalidReference,
		},
		{
			name:    "negative distance",
			trip:    Trip{Origin: "Depot", Destination: "Airport", DriverID: 1, VehicleID: 1, DistanceKm: &negative},
			wantErr: ErrInvalidDistance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.trip.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
