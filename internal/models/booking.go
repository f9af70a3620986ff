package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Reference       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	EventTypeID     uint      `gorm:"not null;index" json:"event_type_id"`
	ContactName     string    `gorm:"not null" json:"contact_name"`
	ContactEmail    string    `gorm:"not null" json:"contact_email"`
	ContactPhone    string    `gorm:"type:varchar(64);not null" json:"contact_phone"`
	StartAt         time.Time `gorm:"type:timestamptz;not null;index" json:"start_at"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Notes           string    `gorm:"type:text;not null" json:"notes"`
	StatusID        uint      `gorm:"not null;index" json:"status_id"`
	AssigneeID      *uint     `gorm:"index" json:"assignee_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	EventType *EventType      `gorm:"foreignKey:EventTypeID;constraint:OnDelete:RESTRICT" json:"event_type,omitempty"`
	Status    *WorkflowStatus `gorm:"foreignKey:StatusID;constraint:OnDelete:RESTRICT" json:"status,omitempty"`
	Assignee  *User           `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Reference == uuid.Nil {
		b.Reference = uuid.New()
	}
	return nil
}

func (b *Booking) EndAt() time.Time {
	return b.StartAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}
