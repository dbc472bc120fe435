// internal/handler/websocket_types.go
package handler

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"label-print-service/internal/model"
)

// Client represents a WebSocket client
type Client struct {
	ID          string          `json:"id"`
	Connection  *websocket.Conn `json:"-"`
	Send        chan []byte     `json:"-"`
	UserAgent   string          `json:"user_agent"`
	RemoteAddr  string          `json:"remote_addr"`
	ConnectedAt time.Time       `json:"connected_at"`

	mutex      sync.RWMutex
	eventTypes map[model.EventType]bool
	printerID  string
}

// Subscribe limits the client to the given event types and, when printerID
// is set, to events of that printer. No event types means all of them.
func (c *Client) Subscribe(eventTypes []model.EventType, printerID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.eventTypes = make(map[model.EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		c.eventTypes[t] = true
	}
	c.printerID = printerID
}

// Unsubscribe clears the client's filters
func (c *Client) Unsubscribe() {
	c.Subscribe(nil, "")
}

// Wants reports whether the event passes the client's filters
func (c *Client) Wants(event model.PrintEvent) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if len(c.eventTypes) > 0 && !c.eventTypes[event.EventType] {
		return false
	}
	if c.printerID != "" && event.PrinterID != c.printerID {
		return false
	}
	return true
}

// WebSocketMessage represents a WebSocket message
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// ConnectionManager manages WebSocket connections
type ConnectionManager struct {
	clients map[string]*Client
	mutex   sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[string]*Client),
	}
}

// Register registers a new client
func (cm *ConnectionManager) Register(client *Client) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[client.ID] = client
}

// Unregister removes a client and closes its send channel. Idempotent.
func (cm *ConnectionManager) Unregister(client *Client) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if _, ok := cm.clients[client.ID]; ok {
		delete(cm.clients, client.ID)
		close(client.Send)
	}
}

// Clients returns a snapshot of the connected clients
func (cm *ConnectionManager) Clients() []*Client {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	return clients
}

// GetStats returns connection statistics
func (cm *ConnectionManager) GetStats() *ConnectionStats {
	clients := cm.Clients()
	return &ConnectionStats{
		TotalConnections: len(clients),
		Clients:          clients,
	}
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	TotalConnections int       `json:"total_connections"`
	Clients          []*Client `json:"clients"`
}
