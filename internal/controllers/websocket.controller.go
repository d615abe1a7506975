package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"wakeguard/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Loopback bind; the tray host connects from the same machine.
		return true
	},
}

// wsAuthEnabled is set at startup; when true, /ws requires a valid token
// query parameter.
var wsAuthEnabled bool

// SetWebSocketAuth toggles token checking on the websocket endpoint.
func SetWebSocketAuth(enabled bool) {
	wsAuthEnabled = enabled
}

// HandleWebSocket upgrades the connection and registers the client with
// the hub. Clients receive a status payload on every snapshot publish;
// the messages they may send are "ping" and "refresh".
func HandleWebSocket(c *gin.Context) {
	clientName := "presentation"
	if wsAuthEnabled {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := services.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		clientName = claims.ClientName
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &services.ClientConnection{
		ID:   fmt.Sprintf("%s-%s-%d", c.ClientIP(), clientName, time.Now().UnixNano()),
		Conn: ws,
		Send: make(chan services.WebSocketMessage, 64),
	}

	hub := services.GetWebSocketHub()
	hub.Register(client)

	go readPump(client, hub)
	go writePump(client)

	// Push the current state immediately so a freshly connected client
	// does not wait for the next scan.
	hub.BroadcastSnapshot(services.CurrentSnapshot())
}

// readPump reads client messages until the connection drops.
func readPump(client *services.ClientConnection, hub *services.WebSocketHub) {
	defer func() {
		hub.Unregister(client.ID)
		client.Conn.Close()
	}()

	for {
		var msg services.WebSocketMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Read error: %v", err)
			}
			return
		}

		switch msg.Type {
		case "ping":
			select {
			case client.Send <- services.WebSocketMessage{Type: "pong", Timestamp: time.Now()}:
			default:
			}

		case "refresh":
			// User gesture in the presentation layer; dropped when a
			// scan is already in flight.
			services.RequestRefresh()

		default:
			log.Printf("[WS] Unknown message type from %s: %s", client.ID, msg.Type)
		}
	}
}

// writePump writes hub messages to the client.
func writePump(client *services.ClientConnection) {
	defer client.Conn.Close()

	for msg := range client.Send {
		if err := client.Conn.WriteJSON(msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Write error: %v", err)
			}
			return
		}
	}
	// Send channel closed by the hub
	client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
