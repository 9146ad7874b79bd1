package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gocomet/microfleet/internal/api/dto"
	"github.com/gocomet/microfleet/internal/service/trips"
	"github.com/gocomet/microfleet/pkg/websocket"
)

// ListTrips handles GET /api/trips
func (h *Handlers) ListTrips(c *gin.Context) {
	result, err := h.Trips.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateTrip handles POST /api/trips
func (h *Handlers) CreateTrip(c *gin.Context) {
	var req dto.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	t, err := h.Trips.Create(c.Request.Context(), trips.CreateInput{
		Origin:      req.Origin,
		Destination: req.Destination,
		DriverID:    req.DriverID,
		VehicleID:   req.VehicleID,
		DistanceKm:  req.DistanceKm,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateOverview(c.Request.Context())
	h.publish(websocket.EventTripStarted, gin.H{
		"tripId":    t.ID,
		"driverId":  t.DriverID,
		"vehicleId": t.VehicleID,
	})
	c.JSON(http.StatusCreated, t)
}

// GetTrip handles GET /api/trips/:id
func (h *Handlers) GetTrip(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid trip ID format")
	if !ok {
		return
	}

	t, err := h.Trips.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// EndTrip handles POST /api/trips/:id/end. The request body is optional;
// an empty body ends the trip now with the recorded distance.
func (h *Handlers) EndTrip(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid trip ID format")
	if !ok {
		return
	}

	var req dto.EndTripRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondBindError(c, err)
		return
	}

	t, err := h.Trips.End(c.Request.Context(), id, trips.EndInput{
		DistanceKm: req.DistanceKm,
		EndTime:    req.EndTime,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateOverview(c.Request.Context())
	h.publish(websocket.EventTripEnded, gin.H{"tripId": t.ID})
	c.JSON(http.StatusOK, t)
}

// CancelTrip handles POST /api/trips/:id/cancel
func (h *Handlers) CancelTrip(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid trip ID format")
	if !ok {
		return
	}

	t, err := h.Trips.Cancel(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateOverview(c.Request.Context())
	h.publish(websocket.EventTripCancelled, gin.H{"tripId": t.ID})
	c.JSON(http.StatusOK, t)
}

// DeleteTrip handles DELETE /api/trips/:id
func (h *Handlers) DeleteTrip(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid trip ID format")
	if !ok {
		return
	}

	if err := h.Trips.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateOverview(c.Request.Context())
	c.Status(http.StatusNoContent)
}
