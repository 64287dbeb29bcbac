// Package controllers exposes the courier REST surface. Handlers delegate to
// the service layer and translate the storage error taxonomy to HTTP codes.
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"courier_service/internal/config"
	"courier_service/internal/models"
	"courier_service/internal/service"
)

func svc() *service.Courier {
	return service.New(config.DB)
}

// HealthCheck reports service liveness and database reachability.
func HealthCheck(c *gin.Context) {
	sqlDB, err := config.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

// respondError maps service/storage errors to an HTTP status. Constraint
// violations are the caller's fault; anything unclassified is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, models.ErrPrimaryKeyViolation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrForeignKeyViolation),
		errors.Is(err, models.ErrCheckConstraintViolation),
		errors.Is(err, models.ErrNotNullViolation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
