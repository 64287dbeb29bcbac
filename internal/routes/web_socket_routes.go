package routes

import (
	"courier_service/internal/controllers"

	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine) {
	r.GET("/ws/updates", controllers.ServeUpdates)
}
