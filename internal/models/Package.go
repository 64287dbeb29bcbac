// internal/models/package.go
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Package statuses written by the delivery workflow. Like Driver.Status the
// column is free text; the schema only closes vehicle_type and event_type.
const (
	PackagePending   = "pending"
	PackageAssigned  = "assigned"
	PackageInTransit = "in_transit"
	PackageDelivered = "delivered"
	PackageCancelled = "cancelled"
)

// Package is the aggregate root of the courier data model. Its events and
// delivery proofs live and die with it; the assigned driver is only referenced.
type Package struct {
	PackageID        string     `json:"package_id" gorm:"primaryKey;size:50"`
	SenderName       string     `json:"sender_name" gorm:"size:100;not null" binding:"required"`
	SenderAddress    string     `json:"sender_address" gorm:"size:255;not null" binding:"required"`
	RecipientName    string     `json:"recipient_name" gorm:"size:100;not null" binding:"required"`
	RecipientAddress string     `json:"recipient_address" gorm:"size:255;not null" binding:"required"`
	Weight           float64    `json:"weight" gorm:"type:decimal(10,2);not null" binding:"required"`
	Status           string     `json:"status" gorm:"size:20;default:'pending'"`
	AssignedDriver   *string    `json:"assigned_driver" gorm:"size:50;index"`
	CreatedAt        time.Time  `json:"created_at"`
	DeliveredAt      *time.Time `json:"delivered_at"`

	Events []JobEvent      `gorm:"foreignKey:JobID;references:PackageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"events,omitempty"`
	Proofs []DeliveryProof `gorm:"foreignKey:JobID;references:PackageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"proofs,omitempty"`
}

func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive, got %.2f", ErrCheckConstraintViolation, p.Weight)
	}
	if p.Status == "" {
		p.Status = PackagePending
	}
	return nil
}

// BeforeDelete cascades to the package's audit trail and proofs so the
// behavior is identical on engines without migrated FK cascade rules.
func (p *Package) BeforeDelete(tx *gorm.DB) error {
	if err := tx.Where("job_id = ?", p.PackageID).Delete(&JobEvent{}).Error; err != nil {
		return err
	}
	return tx.Where("job_id = ?", p.PackageID).Delete(&DeliveryProof{}).Error
}
