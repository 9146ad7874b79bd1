package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gocomet/microfleet/internal/api/dto"
	"github.com/gocomet/microfleet/internal/service/drivers"
	"github.com/gocomet/microfleet/pkg/websocket"
)

// ListDrivers handles GET /api/drivers
func (h *Handlers) ListDrivers(c *gin.Context) {
	result, err := h.Drivers.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateDriver handles POST /api/drivers
func (h *Handlers) CreateDriver(c *gin.Context) {
	var req dto.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	d, err := h.Drivers.Create(c.Request.Context(), drivers.CreateInput{
		Name:    req.Name,
		License: req.License,
		Phone:   req.Phone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateOverview(c.Request.Context())
	c.JSON(http.StatusCreated, d)
}

// GetDriver handles GET /api/drivers/:id
func (h *Handlers) GetDriver(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid driver ID format")
	if !ok {
		return
	}

	d, err := h.Drivers.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// UpdateDriver handles PUT /api/drivers/:id
func (h *Handlers) UpdateDriver(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid driver ID format")
	if !ok {
		return
	}

	var req dto.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	d, err := h.Drivers.Update(c.Request.Context(), id, drivers.UpdateInput{
		Name:    req.Name,
		License: req.License,
		Phone:   req.Phone,
		Status:  req.Status,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// AssignVehicle handles POST /api/drivers/:id/assign-vehicle
func (h *Handlers) AssignVehicle(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid driverId or vehicleId")
	if !ok {
		return
	}

	var req dto.AssignVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	d, err := h.Drivers.AssignVehicle(c.Request.Context(), id, req.VehicleID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateOverview(c.Request.Context())
	h.publish(websocket.EventDriverAssigned, gin.H{
		"driverId":  d.ID,
		"vehicleId": req.VehicleID,
	})
	c.JSON(http.StatusOK, d)
}

// UnassignVehicle handles POST /api/drivers/:id/unassign-vehicle
func (h *Handlers) UnassignVehicle(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid driver ID format")
	if !ok {
		return
	}

	d, err := h.Drivers.UnassignVehicle(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateOverview(c.Request.Context())
	h.publish(websocket.EventDriverUnassigned, gin.H{"driverId": d.ID})
	c.JSON(http.StatusOK, d)
}

// DeleteDriver handles DELETE /api/drivers/:id
func (h *Handlers) DeleteDriver(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid driver ID format")
	if !ok {
		return
	}

	if err := h.Drivers.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateOverview(c.Request.Context())
	c.Status(http.StatusNoContent)
}
