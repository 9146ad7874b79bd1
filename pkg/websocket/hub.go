package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gocomet/microfleet/pkg/logger"
)

// Hub maintains active client connections and fans fleet events out to them.
// Mutations to the fleet (assignments, trip transitions) are broadcast as
// Event values so dashboards see changes without polling.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *logger.Logger
}

// Event represents a fleet event pushed to connected clients
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Well-known event types
const (
	EventDriverAssigned   = "driver_assigned"
	EventDriverUnassigned = "driver_unassigned"
	EventTripStarted      = "trip_started"
	EventTripEnded        = "trip_ended"
	EventTripCancelled    = "trip_cancelled"
)

// NewHub creates a new WebSocket hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Client registered",
				logger.String("client_id", client.ID),
				logger.String("channel", client.Channel),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Info("Client unregistered",
					logger.String("client_id", client.ID),
				)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register registers a new client
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister unregisters a client
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast event", logger.Err(err))
		return
	}
	h.broadcast <- data
}

// BroadcastToChannel sends an event to all clients on a specific channel
func (h *Hub) BroadcastToChannel(channel string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to marshal channel event", logger.Err(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for client := range h.clients {
		if client.Channel == channel {
			select {
			case client.Send <- data:
				count++
			default:
				h.logger.Warn("Failed to send event to client",
					logger.String("channel", channel),
					logger.String("client_id", client.ID),
				)
			}
		}
	}

	h.logger.Debug("Event broadcast to channel",
		logger.String("channel", channel),
		logger.String("type", ev.Type),
		logger.Int("count", count),
	)
}

// GetActiveConnections returns the number of active connections
func (h *Hub) GetActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
