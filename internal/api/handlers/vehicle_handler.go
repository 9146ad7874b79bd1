package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gocomet/microfleet/internal/api/dto"
	"github.com/gocomet/microfleet/internal/service/vehicles"
)

// ListVehicles handles GET /api/vehicles
func (h *Handlers) ListVehicles(c *gin.Context) {
	result, err := h.Vehicles.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateVehicle handles POST /api/vehicles
func (h *Handlers) CreateVehicle(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	v, err := h.Vehicles.Create(c.Request.Context(), vehicles.CreateInput{
		Model:     req.Model,
		RegNumber: req.RegNumber,
		Capacity:  req.Capacity,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateOverview(c.Request.Context())
	c.JSON(http.StatusCreated, v)
}

// GetVehicle handles GET /api/vehicles/:id
func (h *Handlers) GetVehicle(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid vehicle ID format")
	if !ok {
		return
	}

	v, err := h.Vehicles.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// UpdateVehicle handles PUT /api/vehicles/:id
func (h *Handlers) UpdateVehicle(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid vehicle ID format")
	if !ok {
		return
	}

	var req dto.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	v, err := h.Vehicles.Update(c.Request.Context(), id, vehicles.UpdateInput{
		Model:    req.Model,
		Status:   req.Status,
		Capacity: req.Capacity,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DeleteVehicle handles DELETE /api/vehicles/:id
func (h *Handlers) DeleteVehicle(c *gin.Context) {
	id, ok := h.parseID(c, "Invalid vehicle ID format")
	if !ok {
		return
	}

	if err := h.Vehicles.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateOverview(c.Request.Context())
	c.Status(http.StatusNoContent)
}
