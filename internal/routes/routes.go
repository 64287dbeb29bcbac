package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"courier_service/internal/controllers"
	"courier_service/internal/middleware"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	// Recovery, request logging, metrics
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/health", controllers.HealthCheck)

	AuthRoutes(r)
	DriverRoutes(r)
	PackageRoutes(r)
	ReportRoutes(r)
	WebSocketRoutes(r)

	return r
}
