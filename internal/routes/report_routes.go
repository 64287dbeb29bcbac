package routes

import (
	"courier_service/internal/controllers"

	"github.com/gin-gonic/gin"
)

func ReportRoutes(r *gin.Engine) {
	reports := r.Group("/api/reports")
	{
		reports.GET("/summary", controllers.GetSummary)
		reports.GET("/performance", controllers.GetPerformance)
		reports.GET("/orphans", controllers.GetOrphanedPackages)
		reports.GET("/available-drivers", controllers.GetAvailableDrivers)
		reports.GET("/pending-packages", controllers.GetPendingPackages)
	}
}
