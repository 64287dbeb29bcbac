package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
)

// GetSummary returns package counts per lifecycle status.
func GetSummary(c *gin.Context) {
	sum, err := svc().Summary()
	if err != nil {
		logrus.WithError(err).Error("Error building package summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error building package summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": sum})
}

// GetPerformance returns per-driver delivery totals and current load,
// busiest first.
func GetPerformance(c *gin.Context) {
	perf, err := svc().Performance()
	if err != nil {
		logrus.WithError(err).Error("Error building driver performance report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error building driver performance report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": perf})
}

// GetOrphanedPackages lists unassigned packages whose status never reverted
// to pending after their driver was deleted. Reconciliation is the caller's
// call, the store only reports them.
func GetOrphanedPackages(c *gin.Context) {
	pkgs, err := svc().OrphanedPackages()
	if err != nil {
		logrus.WithError(err).Error("Error listing orphaned packages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing orphaned packages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pkgs})
}

// GetAvailableDrivers lists drivers ready for assignment.
func GetAvailableDrivers(c *gin.Context) {
	drivers, err := svc().AvailableDrivers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing available drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// GetPendingPackages lists packages not yet assigned to anyone.
func GetPendingPackages(c *gin.Context) {
	pkgs, err := svc().PendingPackages()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing pending packages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pkgs})
}
