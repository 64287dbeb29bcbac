package routes

import (
	"courier_service/internal/controllers"
	"courier_service/internal/middleware"

	"github.com/gin-gonic/gin"
)

func PackageRoutes(r *gin.Engine) {
	packages := r.Group("/api/packages")
	{
		packages.GET("/", controllers.ListPackages)
		packages.GET("/:id", controllers.GetPackage)
		packages.GET("/:id/events", controllers.GetPackageEvents)
		packages.GET("/:id/proofs", controllers.GetPackageProofs)
	}

	protected := r.Group("/api/packages")
	protected.Use(middleware.RequireAuthWithRole("operator"))
	{
		protected.POST("/", controllers.CreatePackage)
		protected.PUT("/:id/status", controllers.UpdatePackageStatus)
		protected.PUT("/:id/assign", controllers.AssignPackage)
		protected.PUT("/:id/deliver", controllers.DeliverPackage)
		protected.DELETE("/:id", controllers.DeletePackage)
	}
}
