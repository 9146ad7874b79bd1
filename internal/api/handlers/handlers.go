package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/gocomet/microfleet/internal/api/dto"
	"github.com/gocomet/microfleet/internal/service/drivers"
	"github.com/gocomet/microfleet/internal/service/trips"
	"github.com/gocomet/microfleet/internal/service/vehicles"
	"github.com/gocomet/microfleet/pkg/cache"
	apperrors "github.com/gocomet/microfleet/pkg/errors"
	"github.com/gocomet/microfleet/pkg/logger"
	"github.com/gocomet/microfleet/pkg/websocket"
)

// overviewCacheKey is the Redis key holding the cached fleet overview
const overviewCacheKey = "fleet:overview"

// Handlers holds all handler dependencies
type Handlers struct {
	Drivers  *drivers.Service
	Vehicles *vehicles.Service
	Trips    *trips.Service
	Redis    *redis.Client
	Logger   *logger.Logger
	Hub      *websocket.Hub

	OverviewTTL time.Duration
}

// NewHandlers creates a new Handlers instance. Redis and Hub may be nil;
// caching and event broadcasting are then skipped.
func NewHandlers(d *drivers.Service, v *vehicles.Service, t *trips.Service,
	redisClient *redis.Client, log *logger.Logger, hub *websocket.Hub) *Handlers {
	return &Handlers{
		Drivers:     d,
		Vehicles:    v,
		Trips:       t,
		Redis:       redisClient,
		Logger:      log,
		Hub:         hub,
		OverviewTTL: 30 * time.Second,
	}
}

// parseID parses the :id path parameter. On failure it writes a validation
// error response and returns false.
func (h *Handlers) parseID(c *gin.Context, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: message,
		})
		return 0, false
	}
	return id, true
}

// respondError translates a service error into the structured error payload
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed",
			logger.String("path", c.FullPath()),
			logger.Err(err),
		)
	}
	c.JSON(appErr.Status, dto.ErrorResponse{Code: appErr.Code, Message: appErr.Message})
}

// respondBindError writes a validation error for a malformed request body
func (h *Handlers) respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    "VALIDATION_ERROR",
		Message: "Invalid request payload: " + err.Error(),
	})
}

// publish broadcasts a fleet event to dashboard clients
func (h *Handlers) publish(eventType string, data interface{}) {
	if h.Hub == nil {
		return
	}
	h.Hub.Broadcast(websocket.Event{Type: eventType, Data: data})
}

// invalidateOverview drops the cached fleet overview after a mutation
func (h *Handlers) invalidateOverview(ctx context.Context) {
	if h.Redis == nil {
		return
	}
	if err := cache.Delete(ctx, h.Redis, overviewCacheKey); err != nil {
		h.Logger.Warn("Failed to invalidate overview cache", logger.Err(err))
	}
}
