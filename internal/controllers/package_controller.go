package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"courier_service/internal/middleware"
	"courier_service/internal/models"
)

// CreatePackage registers a package. The id is optional; the service
// generates one when omitted. A "created" audit event is written with it.
func CreatePackage(c *gin.Context) {
	var input struct {
		PackageID        string  `json:"package_id"`
		SenderName       string  `json:"sender_name" binding:"required"`
		SenderAddress    string  `json:"sender_address" binding:"required"`
		RecipientName    string  `json:"recipient_name" binding:"required"`
		RecipientAddress string  `json:"recipient_address" binding:"required"`
		Weight           float64 `json:"weight" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package input: " + err.Error()})
		return
	}

	pkg := models.Package{
		PackageID:        input.PackageID,
		SenderName:       input.SenderName,
		SenderAddress:    input.SenderAddress,
		RecipientName:    input.RecipientName,
		RecipientAddress: input.RecipientAddress,
		Weight:           input.Weight,
	}
	if err := svc().AddPackage(&pkg); err != nil {
		respondError(c, err)
		return
	}

	Hub.Broadcast("package_created", pkg)
	c.JSON(http.StatusCreated, gin.H{"package": pkg})
}

func GetPackage(c *gin.Context) {
	pkg, err := svc().Package(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"package": pkg})
}

func ListPackages(c *gin.Context) {
	pkgs, err := svc().Packages()
	if err != nil {
		logrus.WithError(err).Error("Error listing packages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing packages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pkgs})
}

// UpdatePackageStatus writes a new status. Free text is accepted; statuses in
// the lifecycle enumeration also get an audit event, and "delivered" stamps
// delivered_at.
func UpdatePackageStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status input: " + err.Error()})
		return
	}

	id := c.Param("id")
	if err := svc().UpdatePackageStatus(id, input.Status); err != nil {
		respondError(c, err)
		return
	}

	Hub.Broadcast("package_status", gin.H{"package_id": id, "status": input.Status})
	c.JSON(http.StatusOK, gin.H{"message": "Package status updated"})
}

// AssignPackage hands the package to a driver and notifies the driver's
// update feed.
func AssignPackage(c *gin.Context) {
	var input struct {
		DriverID string `json:"driver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment input: " + err.Error()})
		return
	}

	id := c.Param("id")
	if err := svc().AssignPackage(id, input.DriverID); err != nil {
		respondError(c, err)
		return
	}

	Hub.Broadcast("package_assigned", gin.H{"package_id": id, "driver_id": input.DriverID})
	Hub.NotifyDriver(input.DriverID, "New package assigned", gin.H{"package_id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Package assigned"})
}

// DeliverPackage completes the delivery. An optional proof (recipient name,
// note, photo reference) is stored alongside the delivered event.
func DeliverPackage(c *gin.Context) {
	var input struct {
		RecipientName string `json:"recipient_name"`
		Note          string `json:"note"`
		PhotoRef      string `json:"photo_ref"`
	}
	// Body is optional for deliveries without proof.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proof input: " + err.Error()})
			return
		}
	}

	var proof *models.DeliveryProof
	if input.RecipientName != "" || input.Note != "" || input.PhotoRef != "" {
		proof = &models.DeliveryProof{
			RecipientName: input.RecipientName,
			Note:          input.Note,
			PhotoRef:      input.PhotoRef,
		}
	}

	id := c.Param("id")
	if err := svc().CompleteDelivery(id, proof); err != nil {
		respondError(c, err)
		return
	}

	middleware.DeliveriesCompleted.Inc()
	Hub.Broadcast("package_delivered", gin.H{"package_id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Delivery completed"})
}

// DeletePackage removes the package and, by cascade, its events and proofs.
func DeletePackage(c *gin.Context) {
	id := c.Param("id")
	if err := svc().RemovePackage(id); err != nil {
		respondError(c, err)
		return
	}

	Hub.Broadcast("package_deleted", gin.H{"package_id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Package deleted"})
}

// GetPackageEvents returns the append-only audit trail, oldest first.
func GetPackageEvents(c *gin.Context) {
	events, err := svc().PackageEvents(c.Param("id"))
	if err != nil {
		logrus.WithError(err).Error("Error fetching package events")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching package events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func GetPackageProofs(c *gin.Context) {
	proofs, err := svc().PackageProofs(c.Param("id"))
	if err != nil {
		logrus.WithError(err).Error("Error fetching delivery proofs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching delivery proofs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": proofs})
}
