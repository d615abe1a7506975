package routes

import (
	"github.com/gin-gonic/gin"

	"wakeguard/internal/controllers"
	"wakeguard/internal/middleware"
)

func RegisterBlockerRoutes(r *gin.Engine, authEnabled bool) {
	blockers := r.Group("/blockers")
	{
		blockers.GET("", controllers.GetBlockers)
		blockers.POST("/refresh", controllers.RequestRefresh)
		blockers.POST("/kill", middleware.AuthRequired(authEnabled), controllers.KillBlocker)
	}
}
