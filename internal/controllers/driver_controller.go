package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"courier_service/internal/models"
)

// CreateDriver registers a new driver. Vehicle type must be one of
// bike/van/truck; anything else is rejected by the model check.
func CreateDriver(c *gin.Context) {
	var input struct {
		DriverID    string `json:"driver_id" binding:"required"`
		Name        string `json:"name" binding:"required"`
		Phone       string `json:"phone" binding:"required"`
		VehicleType string `json:"vehicle_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver input: " + err.Error()})
		return
	}

	driver := models.Driver{
		DriverID:    input.DriverID,
		Name:        input.Name,
		Phone:       input.Phone,
		VehicleType: models.VehicleType(input.VehicleType),
	}
	if err := svc().AddDriver(&driver); err != nil {
		respondError(c, err)
		return
	}

	Hub.Broadcast("driver_created", driver)
	c.JSON(http.StatusCreated, gin.H{"driver": driver})
}

func GetDriver(c *gin.Context) {
	driver, err := svc().Driver(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

func ListDrivers(c *gin.Context) {
	drivers, err := svc().Drivers()
	if err != nil {
		logrus.WithError(err).Error("Error listing drivers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// UpdateDriverStatus sets the driver's free-text availability status.
func UpdateDriverStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status input: " + err.Error()})
		return
	}

	id := c.Param("id")
	if err := svc().UpdateDriverStatus(id, input.Status); err != nil {
		respondError(c, err)
		return
	}

	Hub.Broadcast("driver_status", gin.H{"driver_id": id, "status": input.Status})
	c.JSON(http.StatusOK, gin.H{"message": "Driver status updated"})
}

// DeleteDriver removes a driver. Packages referencing it are kept and revert
// to unassigned.
func DeleteDriver(c *gin.Context) {
	id := c.Param("id")
	if err := svc().RemoveDriver(id); err != nil {
		respondError(c, err)
		return
	}

	Hub.Broadcast("driver_deleted", gin.H{"driver_id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted"})
}

// GetDriverPackages lists the packages a driver is currently carrying.
func GetDriverPackages(c *gin.Context) {
	pkgs, err := svc().DriverPackages(c.Param("id"))
	if err != nil {
		logrus.WithError(err).Error("Error fetching driver packages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching driver packages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pkgs})
}
