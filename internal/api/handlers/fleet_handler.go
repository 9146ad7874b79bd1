package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/gocomet/microfleet/internal/api/dto"
	"github.com/gocomet/microfleet/internal/domain/trip"
	"github.com/gocomet/microfleet/pkg/cache"
	"github.com/gocomet/microfleet/pkg/logger"
)

// FleetOverview handles GET /api/fleet/overview. The aggregated counts are
// cached in Redis for OverviewTTL and invalidated on every mutation.
func (h *Handlers) FleetOverview(c *gin.Context) {
	ctx := c.Request.Context()

	if h.Redis != nil {
		cached, err := cache.Get(ctx, h.Redis, overviewCacheKey)
		if err == nil {
			var overview dto.FleetOverviewResponse
			if jsonErr := json.Unmarshal([]byte(cached), &overview); jsonErr == nil {
				c.JSON(http.StatusOK, overview)
				return
			}
		} else if err != redis.Nil {
			h.Logger.Warn("Failed to read overview cache", logger.Err(err))
		}
	}

	overview, err := h.buildOverview(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.Redis != nil {
		payload, err := json.Marshal(overview)
		if err == nil {
			if err := cache.SetWithExpiry(ctx, h.Redis, overviewCacheKey, payload, h.OverviewTTL); err != nil {
				h.Logger.Warn("Failed to write overview cache", logger.Err(err))
			}
		}
	}

	c.JSON(http.StatusOK, overview)
}

func (h *Handlers) buildOverview(c *gin.Context) (*dto.FleetOverviewResponse, error) {
	ctx := c.Request.Context()

	driverList, err := h.Drivers.List(ctx)
	if err != nil {
		return nil, err
	}
	vehicleList, err := h.Vehicles.List(ctx)
	if err != nil {
		return nil, err
	}
	tripList, err := h.Trips.List(ctx)
	if err != nil {
		return nil, err
	}

	overview := &dto.FleetOverviewResponse{}
	overview.Drivers.Total = len(driverList)
	for _, d := range driverList {
		if d.AssignedVehicleID != nil {
			overview.Drivers.Assigned++
		}
	}

	overview.Vehicles.Total = len(vehicleList)
	for _, v := range vehicleList {
		if v.AssignedDriverID != nil {
			overview.Vehicles.Assigned++
		}
	}

	overview.Trips.Total = len(tripList)
	for _, t := range tripList {
		switch t.Status {
		case trip.StatusActive:
			overview.Trips.Active++
		case trip.StatusEnded:
			overview.Trips.Ended++
		case trip.StatusCancelled:
			overview.Trips.Cancelled++
		}
	}

	return overview, nil
}
