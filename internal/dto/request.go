package dto

import (
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/service"
)

type AvailabilityCheckRequest struct {
	Start           time.Time `json:"start" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=30,max=480"`
	EventTypeID     *uint     `json:"event_type_id"`
}

type CreateBookingRequest struct {
	EventTypeID     uint      `json:"event_type_id" validate:"required"`
	ContactName     string    `json:"contact_name" validate:"required,max=200"`
	ContactEmail    string    `json:"contact_email" validate:"required,email,max=254"`
	ContactPhone    string    `json:"contact_phone" validate:"required,max=64"`
	StartAt         time.Time `json:"start_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=30,max=480"`
	Notes           string    `json:"notes" validate:"max=2000"`
}

func (r CreateBookingRequest) ToInput() service.CreateBookingInput {
	return service.CreateBookingInput{
		EventTypeID:     r.EventTypeID,
		ContactName:     r.ContactName,
		ContactEmail:    r.ContactEmail,
		ContactPhone:    r.ContactPhone,
		StartAt:         r.StartAt,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}
}

type AdminCreateBookingRequest struct {
	CreateBookingRequest
	StatusID   *uint `json:"status_id"`
	AssigneeID *uint `json:"assignee_id"`
	Force      bool  `json:"force"`
}

func (r AdminCreateBookingRequest) ToInput() service.AdminCreateBookingInput {
	return service.AdminCreateBookingInput{
		CreateBookingInput: r.CreateBookingRequest.ToInput(),
		StatusID:           r.StatusID,
		AssigneeID:         r.AssigneeID,
		Force:              r.Force,
	}
}

// UpdateBookingRequest is a partial update; omitted fields stay unchanged.
type UpdateBookingRequest struct {
	StatusID        *uint      `json:"status_id"`
	AssigneeID      *uint      `json:"assignee_id"`
	Unassign        bool       `json:"unassign" validate:"excluded_with=AssigneeID"`
	Notes           *string    `json:"notes" validate:"omitempty,max=2000"`
	ContactName     *string    `json:"contact_name" validate:"omitempty,min=1,max=200"`
	ContactEmail    *string    `json:"contact_email" validate:"omitempty,email,max=254"`
	ContactPhone    *string    `json:"contact_phone" validate:"omitempty,min=1,max=64"`
	StartAt         *time.Time `json:"start_at"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,min=30,max=480"`
	EventTypeID     *uint      `json:"event_type_id"`
	Force           bool       `json:"force"`
}

func (r UpdateBookingRequest) ToInput() service.UpdateBookingInput {
	return service.UpdateBookingInput{
		StatusID:        r.StatusID,
		AssigneeID:      r.AssigneeID,
		Unassign:        r.Unassign,
		Notes:           r.Notes,
		ContactName:     r.ContactName,
		ContactEmail:    r.ContactEmail,
		ContactPhone:    r.ContactPhone,
		StartAt:         r.StartAt,
		DurationMinutes: r.DurationMinutes,
		EventTypeID:     r.EventTypeID,
		Force:           r.Force,
	}
}

type EventTypeRequest struct {
	Slug                string `json:"slug" validate:"omitempty,max=64"`
	Name                string `json:"name" validate:"required,max=120"`
	DurationMinutes     int    `json:"duration_minutes" validate:"required,min=15,max=480"`
	BufferBeforeMinutes int    `json:"buffer_before_minutes" validate:"min=0,max=240"`
	BufferAfterMinutes  int    `json:"buffer_after_minutes" validate:"min=0,max=240"`
	IsActive            *bool  `json:"is_active"`
	SortOrder           int    `json:"sort_order"`
}

// ToModel builds the event type; IsActive defaults to true.
func (r EventTypeRequest) ToModel(id uint) *models.EventType {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.EventType{
		ID:                  id,
		Slug:                r.Slug,
		Name:                r.Name,
		DurationMinutes:     r.DurationMinutes,
		BufferBeforeMinutes: r.BufferBeforeMinutes,
		BufferAfterMinutes:  r.BufferAfterMinutes,
		IsActive:            active,
		SortOrder:           r.SortOrder,
	}
}

type WorkflowStatusRequest struct {
	Slug      string `json:"slug" validate:"omitempty,max=64"`
	Name      string `json:"name" validate:"required,max=120"`
	SortOrder int    `json:"sort_order"`
	Color     string `json:"color" validate:"omitempty,max=32"`
	IsDefault bool   `json:"is_default"`
	IsFinal   bool   `json:"is_final"`
	IsActive  *bool  `json:"is_active"`
}

func (r WorkflowStatusRequest) ToModel(id uint) *models.WorkflowStatus {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.WorkflowStatus{
		ID:        id,
		Slug:      r.Slug,
		Name:      r.Name,
		SortOrder: r.SortOrder,
		Color:     r.Color,
		IsDefault: r.IsDefault,
		IsFinal:   r.IsFinal,
		IsActive:  active,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
