package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocomet/microfleet/internal/api/dto"
	"github.com/gocomet/microfleet/internal/api/handlers"
	"github.com/gocomet/microfleet/internal/api/routes"
	"github.com/gocomet/microfleet/internal/repository/memory"
	"github.com/gocomet/microfleet/internal/service/drivers"
	"github.com/gocomet/microfleet/internal/service/trips"
	"github.com/gocomet/microfleet/internal/service/vehicles"
	"github.com/gocomet/microfleet/pkg/logger"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	log := logger.NewNop()

	driverSvc := drivers.NewService(store.Drivers(), store.Trips(), log)
	vehicleSvc := vehicles.NewService(store.Vehicles(), store.Trips(), log)
	tripSvc := trips.NewService(store.Trips(), store.Drivers(), store.Vehicles(), log)

	h := handlers.NewHandlers(driverSvc, vehicleSvc, tripSvc, nil, log, nil)

	r := gin.New()
	routes.SetupRoutes(r, h, nil)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createDriver(t *testing.T, r *gin.Engine, name string) int64 {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/drivers", gin.H{
		"name":    name,
		"license": "DL-" + name,
		"phone":   "555-0100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &body)
	return body.ID
}

func createVehicle(t *testing.T, r *gin.Engine, reg string) int64 {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/vehicles", gin.H{
		"model":     "Transit Van",
		"regNumber": reg,
		"capacity":  3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &body)
	return body.ID
}

func createTrip(t *testing.T, r *gin.Engine, driverID, vehicleID int64) int64 {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/trips", gin.H{
		"origin":      "Depot",
		"destination": "Airport",
		"driverId":    driverID,
		"vehicleId":   vehicleID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &body)
	return body.ID
}

func TestHealth(t *testing.T) {
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateDriver_MissingFields(t *testing.T) {
	r := newRouter()

	w := doJSON(t, r, http.MethodPost, "/api/drivers", gin.H{"name": "Alice"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body dto.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
}

func TestGetDriver_BadID(t *testing.T) {
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, "/api/drivers/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDriver_NotFound(t *testing.T) {
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, "/api/drivers/404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body dto.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestDriverLifecycle(t *testing.T) {
	r := newRouter()
	id := createDriver(t, r, "Alice")

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/drivers/%d", id), gin.H{"phone": "555-0199"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Phone string `json:"phone"`
		Name  string `json:"name"`
	}
	decode(t, w, &updated)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "Alice", updated.Name)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/drivers/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/drivers/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignVehicle(t *testing.T) {
	r := newRouter()
	driverID := createDriver(t, r, "Alice")
	vehicleID := createVehicle(t, r, "VAN-001")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/drivers/%d/assign-vehicle", driverID),
		gin.H{"vehicleId": vehicleID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		AssignedVehicleID *int64 `json:"assignedVehicleId"`
	}
	decode(t, w, &body)
	require.NotNil(t, body.AssignedVehicleID)
	assert.Equal(t, vehicleID, *body.AssignedVehicleID)

	// Assigning the same vehicle to another driver must be rejected.
	otherID := createDriver(t, r, "Bob")
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/drivers/%d/assign-vehicle", otherID),
		gin.H{"vehicleId": vehicleID})
	assert.Equal(t, http.StatusConflict, w.Code)

	var conflict dto.ErrorResponse
	decode(t, w, &conflict)
	assert.Equal(t, "CONFLICT", conflict.Code)
}

func TestUnassignVehicle(t *testing.T) {
	r := newRouter()
	driverID := createDriver(t, r, "Alice")
	vehicleID := createVehicle(t, r, "VAN-001")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/drivers/%d/assign-vehicle", driverID),
		gin.H{"vehicleId": vehicleID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/drivers/%d/unassign-vehicle", driverID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AssignedVehicleID *int64 `json:"assignedVehicleId"`
	}
	decode(t, w, &body)
	assert.Nil(t, body.AssignedVehicleID)
}

func TestCreateVehicle_DuplicateReg(t *testing.T) {
	r := newRouter()
	createVehicle(t, r, "VAN-001")

	w := doJSON(t, r, http.MethodPost, "/api/vehicles", gin.H{
		"model":     "Box Truck",
		"regNumber": "VAN-001",
		"capacity":  2,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateVehicle_InvalidCapacity(t *testing.T) {
	r := newRouter()

	w := doJSON(t, r, http.MethodPost, "/api/vehicles", gin.H{
		"model":     "Transit Van",
		"regNumber": "VAN-001",
		"capacity":  0,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteVehicle_InUse(t *testing.T) {
	r := newRouter()
	driverID := createDriver(t, r, "Alice")
	vehicleID := createVehicle(t, r, "VAN-001")
	createTrip(t, r, driverID, vehicleID)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/vehicles/%d", vehicleID), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTripLifecycle(t *testing.T) {
	r := newRouter()
	driverID := createDriver(t, r, "Alice")
	vehicleID := createVehicle(t, r, "VAN-001")
	tripID := createTrip(t, r, driverID, vehicleID)

	// Empty body is allowed when ending a trip.
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/trips/%d/end", tripID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Status  string  `json:"status"`
		EndTime *string `json:"endTime"`
	}
	decode(t, w, &body)
	assert.Equal(t, "ENDED", body.Status)
	assert.NotNil(t, body.EndTime)

	// A terminal trip cannot be ended or cancelled again.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/trips/%d/end", tripID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/trips/%d/cancel", tripID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/trips/%d", tripID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestEndTrip_WithDistance(t *testing.T) {
	r := newRouter()
	driverID := createDriver(t, r, "Alice")
	vehicleID := createVehicle(t, r, "VAN-001")
	tripID := createTrip(t, r, driverID, vehicleID)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/trips/%d/end", tripID),
		gin.H{"distanceKm": 12.5})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		DistanceKm *float64 `json:"distanceKm"`
	}
	decode(t, w, &body)
	require.NotNil(t, body.DistanceKm)
	assert.Equal(t, 12.5, *body.DistanceKm)
}

func TestCreateTrip_UnknownDriver(t *testing.T) {
	r := newRouter()
	vehicleID := createVehicle(t, r, "VAN-001")

	w := doJSON(t, r, http.MethodPost, "/api/trips", gin.H{
		"origin":      "Depot",
		"destination": "Airport",
		"driverId":    404,
		"vehicleId":   vehicleID,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFleetOverview(t *testing.T) {
	r := newRouter()
	driverID := createDriver(t, r, "Alice")
	createDriver(t, r, "Bob")
	vehicleID := createVehicle(t, r, "VAN-001")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/drivers/%d/assign-vehicle", driverID),
		gin.H{"vehicleId": vehicleID})
	require.Equal(t, http.StatusOK, w.Code)

	createTrip(t, r, driverID, vehicleID)
	otherTrip := createTrip(t, r, driverID, vehicleID)
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/trips/%d/cancel", otherTrip), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/fleet/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var overview dto.FleetOverviewResponse
	decode(t, w, &overview)
	assert.Equal(t, 2, overview.Drivers.Total)
	assert.Equal(t, 1, overview.Drivers.Assigned)
	assert.Equal(t, 1, overview.Vehicles.Total)
	assert.Equal(t, 1, overview.Vehicles.Assigned)
	assert.Equal(t, 2, overview.Trips.Total)
	assert.Equal(t, 1, overview.Trips.Active)
	assert.Equal(t, 1, overview.Trips.Cancelled)
}

func TestListEndpoints_EmptyArrays(t *testing.T) {
	r := newRouter()

	for _, path := range []string{"/api/drivers", "/api/vehicles", "/api/trips"} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String(), path)
	}
}

func TestRequestIDHeader(t *testing.T) {
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "test-request-id", w.Header().Get("X-Request-ID"))
}
