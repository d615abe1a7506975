package services

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wakeguard/internal/models"
)

// WebSocketMessage is the envelope for everything sent over /ws.
type WebSocketMessage struct {
	Type      string      `json:"type"` // "status", "pong", "error"
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// StatusPayload is pushed to every client when a snapshot is published,
// so the tray host can redraw its icon without polling.
type StatusPayload struct {
	Status           models.Status         `json:"status"`
	Entries          []models.BlockerEntry `json:"entries"`
	PermissionDenied bool                  `json:"permission_denied"`
	ScanError        string                `json:"scan_error,omitempty"`
	SnapshotTime     time.Time             `json:"snapshot_time"`
}

// ClientConnection represents one connected presentation client.
type ClientConnection struct {
	ID   string
	Conn *websocket.Conn
	Send chan WebSocketMessage
}

// WebSocketHub manages connected clients and fans snapshot updates out
// to them.
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	register   chan *ClientConnection
	unregister chan string
	mu         sync.RWMutex
	done       chan struct{}
}

var wsHub *WebSocketHub

// InitWebSocketHub initializes the hub and subscribes it to snapshot
// publishes, so a push goes out the moment a scan lands.
func InitWebSocketHub() *WebSocketHub {
	wsHub = &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 64),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan struct{}),
	}

	OnPublish(func(s *models.Snapshot) {
		wsHub.BroadcastSnapshot(s)
	})

	go wsHub.run()
	return wsHub
}

func (h *WebSocketHub) run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client connected: %s (total: %d)", client.ID, total)

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client disconnected: %s (total: %d)", clientID, total)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Client's send channel is full, skip this message
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastSnapshot pushes the projected status and entries of a freshly
// published snapshot to every client.
func (h *WebSocketHub) BroadcastSnapshot(s *models.Snapshot) {
	status := Project(s)
	if status.Stale {
		status.Count = LastGoodCount()
	}

	msg := WebSocketMessage{
		Type:      "status",
		Timestamp: time.Now(),
		Data: StatusPayload{
			Status:           status,
			Entries:          s.Entries,
			PermissionDenied: s.PermissionDenied,
			ScanError:        s.ScanError,
			SnapshotTime:     s.Timestamp,
		},
	}

	select {
	case h.broadcast <- msg:
	default:
		// Channel full, the next publish will carry fresher data anyway
	}
}

// Register adds a new client to the hub.
func (h *WebSocketHub) Register(client *ClientConnection) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WebSocketHub) Unregister(clientID string) {
	h.unregister <- clientID
}

// GetWebSocketHub returns the hub, or nil before InitWebSocketHub.
func GetWebSocketHub() *WebSocketHub {
	return wsHub
}

// StopWebSocketHub stops the hub's event loop.
func StopWebSocketHub() {
	if wsHub != nil {
		close(wsHub.done)
	}
}
