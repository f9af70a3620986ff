package models

import "time"

// Bounds for catalog and booking durations, in minutes.
const (
	MinEventTypeDuration = 15
	MaxEventTypeDuration = 480
	MaxBufferMinutes     = 240
	MinBookingDuration   = 30
	MaxBookingDuration   = 480
)

type EventType struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	Slug                string `gorm:"type:varchar(64);uniqueIndex;not null" json:"slug"`
	Name                string `gorm:"not null" json:"name"`
	DurationMinutes     int    `gorm:"not null" json:"duration_minutes"`
	BufferBeforeMinutes int    `gorm:"not null" json:"buffer_before_minutes"`
	BufferAfterMinutes  int    `gorm:"not null" json:"buffer_after_minutes"`
	IsActive            bool   `gorm:"not null" json:"is_active"`
	SortOrder           int    `gorm:"not null" json:"sort_order"`
	// UpstreamID is the ID in the upstream catalog for synced event types.
	UpstreamID *uint     `gorm:"uniqueIndex" json:"upstream_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (e *EventType) BufferBefore() time.Duration {
	return time.Duration(e.BufferBeforeMinutes) * time.Minute
}

func (e *EventType) BufferAfter() time.Duration {
	return time.Duration(e.BufferAfterMinutes) * time.Minute
}
