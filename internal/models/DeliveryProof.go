// internal/models/delivery_proof.go
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DeliveryProof is the evidence record attached to a completed delivery.
// Written once, never updated, removed together with its package.
type DeliveryProof struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	JobID         string    `json:"job_id" gorm:"size:50;not null;index"`
	RecipientName string    `json:"recipient_name" gorm:"size:100;not null" binding:"required"`
	DeliveredAt   time.Time `json:"delivered_at" gorm:"autoCreateTime"`
	Note          string    `json:"note" gorm:"type:text"`
	PhotoRef      string    `json:"photo_ref" gorm:"size:255"`
}

func (p *DeliveryProof) BeforeCreate(tx *gorm.DB) error {
	if p.JobID == "" {
		return fmt.Errorf("%w: job_id", ErrNotNullViolation)
	}
	if p.RecipientName == "" {
		return fmt.Errorf("%w: recipient_name", ErrNotNullViolation)
	}
	return nil
}
