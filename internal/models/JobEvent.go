// internal/models/job_event.go
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EventType is the closed set of lifecycle transitions recorded for a package.
type EventType string

const (
	EventCreated   EventType = "created"
	EventAssigned  EventType = "assigned"
	EventInTransit EventType = "in_transit"
	EventDelivered EventType = "delivered"
	EventCancelled EventType = "cancelled"
)

// JobEvent is an append-only audit record. One "created" event is written
// when the package is inserted; the rest follow the package's lifecycle.
type JobEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	JobID     string    `json:"job_id" gorm:"size:50;not null;index"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime"`
	EventType EventType `json:"event_type" gorm:"size:20;not null;check:event_type IN ('created','assigned','in_transit','delivered','cancelled')"`
	Metadata  string    `json:"metadata" gorm:"type:text"`
}

func (e *JobEvent) BeforeCreate(tx *gorm.DB) error {
	switch e.EventType {
	case EventCreated, EventAssigned, EventInTransit, EventDelivered, EventCancelled:
	default:
		return fmt.Errorf("%w: event_type %q", ErrCheckConstraintViolation, e.EventType)
	}
	if e.JobID == "" {
		return fmt.Errorf("%w: job_id", ErrNotNullViolation)
	}
	return nil
}
