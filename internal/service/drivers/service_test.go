package drivers_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocomet/microfleet/internal/domain/driver"
	"github.com/gocomet/microfleet/internal/repository/memory"
	"github.com/gocomet/microfleet/internal/service/drivers"
	"github.com/gocomet/microfleet/internal/service/trips"
	"github.com/gocomet/microfleet/internal/service/vehicles"
	apperrors "github.com/gocomet/microfleet/pkg/errors"
	"github.com/gocomet/microfleet/pkg/logger"
)

// fixture wires driver, vehicle and trip services to a shared in-memory store
type fixture struct {
	store    *memory.Store
	drivers  *drivers.Service
	vehicles *vehicles.Service
	trips    *trips.Service
}

func newFixture() *fixture {
	store := memory.NewStore()
	log := logger.NewNop()
	return &fixture{
		store:    store,
		drivers:  drivers.NewService(store.Drivers(), store.Trips(), log),
		vehicles: vehicles.NewService(store.Vehicles(), store.Trips(), log),
		trips:    trips.NewService(store.Trips(), store.Drivers(), store.Vehicles(), log),
	}
}

func (f *fixture) mustCreateDriver(t *testing.T, name string) *driver.Driver {
	t.Helper()
	d, err := f.drivers.Create(context.Background(), drivers.CreateInput{
		Name:    name,
		License: "DL-" + name,
		Phone:   "555-0100",
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) mustCreateVehicle(t *testing.T, reg string) int64 {
	t.Helper()
	v, err := f.vehicles.Create(context.Background(), vehicles.CreateInput{
		Model:     "Transit Van",
		RegNumber: reg,
		Capacity:  3,
	})
	require.NoError(t, err)
	return v.ID
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.True(t, apperrors.IsAppError(err), "expected an AppError, got %v", err)
	return apperrors.GetAppError(err).Status
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture()

	d := f.mustCreateDriver(t, "Alice")

	assert.Equal(t, driver.StatusAvailable, d.Status)
	assert.Nil(t, d.AssignedVehicleID)
	assert.NotZero(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.drivers.Create(context.Background(), drivers.CreateInput{
		Name:    "  ",
		License: "DL-1",
		Phone:   "555-0100",
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestUpdate_Partial(t *testing.T) {
	f := newFixture()
	d := f.mustCreateDriver(t, "Alice")

	phone := "555-0199"
	got, err := f.drivers.Update(context.Background(), d.ID, drivers.UpdateInput{Phone: &phone})

	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, phone, got.Phone)
}

func TestUpdate_InvalidStatus(t *testing.T) {
	f := newFixture()
	d := f.mustCreateDriver(t, "Alice")

	bad := "NAPPING"
	_, err := f.drivers.Update(context.Background(), d.ID, drivers.UpdateInput{Status: &bad})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()

	name := "Ghost"
	_, err := f.drivers.Update(context.Background(), 404, drivers.UpdateInput{Name: &name})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestAssign_SetsBothSides(t *testing.T) {
	f := newFixture()
	d := f.mustCreateDriver(t, "Alice")
	vehicleID := f.mustCreateVehicle(t, "VAN-001")

	got, err := f.drivers.AssignVehicle(context.Background(), d.ID, vehicleID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedVehicleID)
	assert.Equal(t, vehicleID, *got.AssignedVehicleID)

	v, err := f.vehicles.Get(context.Background(), vehicleID)
	require.NoError(t, err)
	require.NotNil(t, v.AssignedDriverID)
	assert.Equal(t, d.ID, *v.AssignedDriverID)
}

func TestAssign_VehicleTaken(t *testing.T) {
	f := newFixture()
	alice := f.mustCreateDriver(t, "Alice")
	bob := f.mustCreateDriver(t, "Bob")
	vehicleID := f.mustCreateVehicle(t, "VAN-001")

	_, err := f.drivers.AssignVehicle(context.Background(), alice.ID, vehicleID)
	require.NoError(t, err)

	_, err = f.drivers.AssignVehicle(context.Background(), bob.ID, vehicleID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	// The original link must survive the rejected attempt.
	v, err := f.vehicles.Get(context.Background(), vehicleID)
	require.NoError(t, err)
	require.NotNil(t, v.AssignedDriverID)
	assert.Equal(t, alice.ID, *v.AssignedDriverID)
}

func TestAssign_DriverAlreadyHolding(t *testing.T) {
	f := newFixture()
	d := f.mustCreateDriver(t, "Alice")
	first := f.mustCreateVehicle(t, "VAN-001")
	second := f.mustCreateVehicle(t, "VAN-002")

	_, err := f.drivers.AssignVehicle(context.Background(), d.ID, first)
	require.NoError(t, err)

	_, err = f.drivers.AssignVehicle(context.Background(), d.ID, second)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	// The second vehicle must stay free.
	v, err := f.vehicles.Get(context.Background(), second)
	require.NoError(t, err)
	assert.Nil(t, v.AssignedDriverID)
}

func TestAssign_UnknownIDs(t *testing.T) {
	f := newFixture()
	d := f.mustCreateDriver(t, "Alice")

	_, err := f.drivers.AssignVehicle(context.Background(), d.ID, 404)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	vehicleID := f.mustCreateVehicle(t, "VAN-001")
	_, err = f.drivers.AssignVehicle(context.Background(), 404, vehicleID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = f.drivers.AssignVehicle(context.Background(), 0, vehicleID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestUnassign_ClearsBothSides(t *testing.T) {
	f := newFixture()
	d := f.mustCreateDriver(t, "Alice")
	vehicleID := f.mustCreateVehicle(t, "VAN-001")

	_, err := f.drivers.AssignVehicle(context.Background(), d.ID, vehicleID)
	require.NoError(t, err)

	got, err := f.drivers.UnassignVehicle(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedVehicleID)

	v, err := f.vehicles.Get(context.Background(), vehicleID)
	require.NoError(t, err)
	assert.Nil(t, v.AssignedDriverID)
}

func TestUnassign_NoAssignmentIsNoop(t *testing.T) {
	f := newFixture()
	d := f.mustCreateDriver(t, "Alice")

	got, err := f.drivers.UnassignVehicle(context.Background(), d.ID)

	require.NoError(t, err)
	assert.Nil(t, got.AssignedVehicleID)
}

func TestDelete_BlockedByAssignment(t *testing.T) {
	f := newFixture()
	d := f.mustCreateDriver(t, "Alice")
	vehicleID := f.mustCreateVehicle(t, "VAN-001")

	_, err := f.drivers.AssignVehicle(context.Background(), d.ID, vehicleID)
	require.NoError(t, err)

	err = f.drivers.Delete(context.Background(), d.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	// Still retrievable after the rejected delete.
	_, err = f.drivers.Get(context.Background(), d.ID)
	assert.NoError(t, err)
}

func TestDelete_BlockedByTrips(t *testing.T) {
	f := newFixture()
	d := f.mustCreateDriver(t, "Alice")
	vehicleID := f.mustCreateVehicle(t, "VAN-001")

	tr, err := f.trips.Create(context.Background(), trips.CreateInput{
		Origin:      "Depot",
		Destination: "Airport",
		DriverID:    d.ID,
		VehicleID:   vehicleID,
	})
	require.NoError(t, err)

	// Finishing the trip keeps the historical reference in place.
	_, err = f.trips.End(context.Background(), tr.ID, trips.EndInput{})
	require.NoError(t, err)

	err = f.drivers.Delete(context.Background(), d.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestDelete_Unreferenced(t *testing.T) {
	f := newFixture()
	d := f.mustCreateDriver(t, "Alice")

	require.NoError(t, f.drivers.Delete(context.Background(), d.ID))

	_, err := f.drivers.Get(context.Background(), d.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestAssign_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture()
	vehicleID := f.mustCreateVehicle(t, "VAN-001")

	const contenders = 8
	ids := make([]int64, contenders)
	for i := range ids {
		ids[i] = f.mustCreateDriver(t, "Driver").ID
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = f.drivers.AssignVehicle(context.Background(), id, vehicleID)
		}(i, id)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.Equal(t, http.StatusConflict, statusOf(t, err))
		}
	}
	assert.Equal(t, 1, winners, "exactly one contender may win the vehicle")
}
