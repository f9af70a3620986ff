package models

import "time"

type ActivityAction string

const (
	ActionCreated       ActivityAction = "created"
	ActionStatusChanged ActivityAction = "status_changed"
	ActionAssigned      ActivityAction = "assigned"
	ActionUpdated       ActivityAction = "updated"
	ActionNotesAdded    ActivityAction = "notes_added"
)

// SystemActor is recorded when no authenticated user caused the entry.
const SystemActor = "System"

// ActivityLog rows are only ever inserted.
type ActivityLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookingID uint           `gorm:"not null;index" json:"booking_id"`
	Action    ActivityAction `gorm:"type:varchar(32);not null" json:"action"`
	Details   string         `gorm:"type:text;not null" json:"details"`
	ActorID   *uint          `json:"actor_id,omitempty"`
	ActorName string         `gorm:"not null" json:"actor_name"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT" json:"-"`
}
