package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/gocomet/microfleet/internal/api/handlers"
)

// RequestID attaches a request ID to every request, generating one when the
// caller did not supply an X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application) {
	// Add New Relic middleware if enabled
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}
	r.Use(RequestID())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	{
		// WebSocket connection for fleet events
		api.GET("/ws", h.HandleWebSocket)

		// Driver endpoints
		drivers := api.Group("/drivers")
		{
			drivers.GET("", h.ListDrivers)
			drivers.POST("", h.CreateDriver)
			drivers.GET("/:id", h.GetDriver)
			drivers.PUT("/:id", h.UpdateDriver)
			drivers.DELETE("/:id", h.DeleteDriver)
			drivers.POST("/:id/assign-vehicle", h.AssignVehicle)
			drivers.POST("/:id/unassign-vehicle", h.UnassignVehicle)
		}

		// Vehicle endpoints
		vehicles := api.Group("/vehicles")
		{
			vehicles.GET("", h.ListVehicles)
			vehicles.POST("", h.CreateVehicle)
			vehicles.GET("/:id", h.GetVehicle)
			vehicles.PUT("/:id", h.UpdateVehicle)
			vehicles.DELETE("/:id", h.DeleteVehicle)
		}

		// Trip endpoints
		trips := api.Group("/trips")
		{
			trips.GET("", h.ListTrips)
			trips.POST("", h.CreateTrip)
			trips.GET("/:id", h.GetTrip)
			trips.DELETE("/:id", h.DeleteTrip)
			trips.POST("/:id/end", h.EndTrip)
			trips.POST("/:id/cancel", h.CancelTrip)
		}

		// Fleet dashboard aggregates
		api.GET("/fleet/overview", h.FleetOverview)
	}
}
