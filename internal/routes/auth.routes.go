package routes

import (
	"github.com/gin-gonic/gin"

	"wakeguard/internal/controllers"
)

// RegisterAuthRoutes registers the WebSocket endpoint. Token generation
// is done via the CLI only (no HTTP endpoint mints tokens).
func RegisterAuthRoutes(r *gin.Engine) {
	r.GET("/ws", controllers.HandleWebSocket)
}
