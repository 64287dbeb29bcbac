// internal/models/driver.go
package models

import (
	"fmt"

	"gorm.io/gorm"
)

// VehicleType is the closed set of vehicles a driver can operate.
type VehicleType string

const (
	VehicleBike  VehicleType = "bike"
	VehicleVan   VehicleType = "van"
	VehicleTruck VehicleType = "truck"
)

// Driver statuses used by the delivery workflow. The column itself is free
// text so external callers can write their own values.
const (
	DriverAvailable = "available"
	DriverBusy      = "busy"
	DriverOffline   = "offline"
)

type Driver struct {
	DriverID        string      `json:"driver_id" gorm:"primaryKey;size:50"`
	Name            string      `json:"name" gorm:"size:100;not null" binding:"required"`
	Phone           string      `json:"phone" gorm:"size:20;not null" binding:"required"`
	VehicleType     VehicleType `json:"vehicle_type" gorm:"size:20;not null;check:vehicle_type IN ('bike','van','truck')"`
	Status          string      `json:"status" gorm:"size:20;default:'available'"`
	TotalDeliveries int         `json:"total_deliveries" gorm:"default:0"`

	// Packages currently referencing this driver. Deleting the driver nulls
	// the reference, it never removes the package.
	Packages []Package `gorm:"foreignKey:AssignedDriver;references:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"packages,omitempty"`
}

func validVehicleType(v VehicleType) bool {
	switch v {
	case VehicleBike, VehicleVan, VehicleTruck:
		return true
	}
	return false
}

// BeforeCreate rejects vehicle types outside the enumerated set so the check
// also holds on engines where the check tag is not migrated (sqlite mode).
func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	if !validVehicleType(d.VehicleType) {
		return fmt.Errorf("%w: vehicle_type %q", ErrCheckConstraintViolation, d.VehicleType)
	}
	if d.Status == "" {
		d.Status = DriverAvailable
	}
	return nil
}

// BeforeUpdate re-checks the enum only when the update actually touches
// vehicle_type. Column updates issued through an empty model (status changes,
// delivery counter bumps) must not trip it; gorm runs update hooks on the
// Model value even for map updates, so an unconditional check would see a
// zero-value driver and reject every such statement.
func (d *Driver) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("vehicle_type") && d.VehicleType != "" && !validVehicleType(d.VehicleType) {
		return fmt.Errorf("%w: vehicle_type %q", ErrCheckConstraintViolation, d.VehicleType)
	}
	return nil
}

// BeforeDelete detaches the driver from every package that references it.
// Runs in the same transaction as the delete itself.
func (d *Driver) BeforeDelete(tx *gorm.DB) error {
	return tx.Model(&Package{}).
		Where("assigned_driver = ?", d.DriverID).
		Update("assigned_driver", nil).Error
}
