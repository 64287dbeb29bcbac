package routes

import (
	"courier_service/internal/controllers"
	"courier_service/internal/middleware"

	"github.com/gin-gonic/gin"
)

func DriverRoutes(r *gin.Engine) {
	drivers := r.Group("/api/drivers")
	{
		// Reads are open for the dashboards
		drivers.GET("/", controllers.ListDrivers)
		drivers.GET("/:id", controllers.GetDriver)
		drivers.GET("/:id/packages", controllers.GetDriverPackages)
	}

	protected := r.Group("/api/drivers")
	protected.Use(middleware.RequireAuthWithRole("operator"))
	{
		protected.POST("/", controllers.CreateDriver)
		protected.PUT("/:id/status", controllers.UpdateDriverStatus)
		protected.DELETE("/:id", controllers.DeleteDriver)
	}
}
