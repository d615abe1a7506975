package routes

import (
	"github.com/gin-gonic/gin"

	"wakeguard/internal/controllers"
)

func RegisterStatusRoutes(r *gin.Engine) {
	r.GET("/status", controllers.GetStatus)
}
