package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"github.com/gocomet/microfleet/pkg/logger"
	"github.com/gocomet/microfleet/pkg/websocket"
)

// HandleWebSocket handles GET /api/ws. Clients subscribe to a channel via
// the ?channel= query parameter and receive fleet events as they happen.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "websocket hub not running"})
		return
	}

	upgrader := gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins in development
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade to WebSocket", logger.Err(err))
		return
	}

	channel := c.Query("channel")
	if channel == "" {
		channel = "dashboard"
	}

	client := websocket.NewClient(h.Hub, conn, channel, h.Logger)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
