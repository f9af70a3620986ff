package dto

import (
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/availability"
	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/service"
	"github.com/google/uuid"
)

type EventTypeResponse struct {
	ID                  uint   `json:"id"`
	Slug                string `json:"slug"`
	Name                string `json:"name"`
	DurationMinutes     int    `json:"duration_minutes"`
	BufferBeforeMinutes int    `json:"buffer_before_minutes"`
	BufferAfterMinutes  int    `json:"buffer_after_minutes"`
	IsActive            bool   `json:"is_active"`
	SortOrder           int    `json:"sort_order"`
}

type WorkflowStatusResponse struct {
	ID        uint   `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	Color     string `json:"color"`
	IsDefault bool   `json:"is_default"`
	IsFinal   bool   `json:"is_final"`
	IsActive  bool   `json:"is_active"`
}

type UserResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type BookingResponse struct {
	ID              uint                    `json:"id"`
	Reference       uuid.UUID               `json:"reference"`
	EventTypeID     uint                    `json:"event_type_id"`
	EventType       *EventTypeResponse      `json:"event_type,omitempty"`
	ContactName     string                  `json:"contact_name"`
	ContactEmail    string                  `json:"contact_email"`
	ContactPhone    string                  `json:"contact_phone"`
	StartAt         time.Time               `json:"start_at"`
	EndAt           time.Time               `json:"end_at"`
	DurationMinutes int                     `json:"duration_minutes"`
	Notes           string                  `json:"notes"`
	StatusID        uint                    `json:"status_id"`
	Status          *WorkflowStatusResponse `json:"status,omitempty"`
	AssigneeID      *uint                   `json:"assignee_id,omitempty"`
	Assignee        *UserResponse           `json:"assignee,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// PublicBookingResponse is what the requester sees after submitting the
// public form.
type PublicBookingResponse struct {
	Reference       uuid.UUID `json:"reference"`
	Status          string    `json:"status"`
	EventType       string    `json:"event_type"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

type ActivityResponse struct {
	ID        uint                  `json:"id"`
	BookingID uint                  `json:"booking_id"`
	Action    models.ActivityAction `json:"action"`
	Details   string                `json:"details"`
	ActorID   *uint                 `json:"actor_id,omitempty"`
	ActorName string                `json:"actor_name"`
	CreatedAt time.Time             `json:"created_at"`
}

type BlockedSlotResponse struct {
	ID             uint   `json:"id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	EventTypeLabel string `json:"event_type_label"`
	StatusSlug     string `json:"status_slug"`
}

type BoardColumnResponse struct {
	Status   WorkflowStatusResponse `json:"status"`
	Bookings []BookingResponse      `json:"bookings"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func ToEventTypeResponse(et *models.EventType) EventTypeResponse {
	return EventTypeResponse{
		ID:                  et.ID,
		Slug:                et.Slug,
		Name:                et.Name,
		DurationMinutes:     et.DurationMinutes,
		BufferBeforeMinutes: et.BufferBeforeMinutes,
		BufferAfterMinutes:  et.BufferAfterMinutes,
		IsActive:            et.IsActive,
		SortOrder:           et.SortOrder,
	}
}

func ToEventTypeResponses(ets []models.EventType) []EventTypeResponse {
	resp := make([]EventTypeResponse, len(ets))
	for i := range ets {
		resp[i] = ToEventTypeResponse(&ets[i])
	}
	return resp
}

func ToWorkflowStatusResponse(st *models.WorkflowStatus) WorkflowStatusResponse {
	return WorkflowStatusResponse{
		ID:        st.ID,
		Slug:      st.Slug,
		Name:      st.Name,
		SortOrder: st.SortOrder,
		Color:     st.Color,
		IsDefault: st.IsDefault,
		IsFinal:   st.IsFinal,
		IsActive:  st.IsActive,
	}
}

func ToWorkflowStatusResponses(sts []models.WorkflowStatus) []WorkflowStatusResponse {
	resp := make([]WorkflowStatusResponse, len(sts))
	for i := range sts {
		resp[i] = ToWorkflowStatusResponse(&sts[i])
	}
	return resp
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

func ToUserResponses(users []models.User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = ToUserResponse(&users[i])
	}
	return resp
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID,
		Reference:       b.Reference,
		EventTypeID:     b.EventTypeID,
		ContactName:     b.ContactName,
		ContactEmail:    b.ContactEmail,
		ContactPhone:    b.ContactPhone,
		StartAt:         b.StartAt,
		EndAt:           b.EndAt(),
		DurationMinutes: b.DurationMinutes,
		Notes:           b.Notes,
		StatusID:        b.StatusID,
		AssigneeID:      b.AssigneeID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.EventType != nil {
		et := ToEventTypeResponse(b.EventType)
		resp.EventType = &et
	}
	if b.Status != nil {
		st := ToWorkflowStatusResponse(b.Status)
		resp.Status = &st
	}
	if b.Assignee != nil {
		u := ToUserResponse(b.Assignee)
		resp.Assignee = &u
	}
	return resp
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToBookingResponse(&bookings[i])
	}
	return resp
}

func ToPublicBookingResponse(b *models.Booking) PublicBookingResponse {
	resp := PublicBookingResponse{
		Reference:       b.Reference,
		StartAt:         b.StartAt,
		EndAt:           b.EndAt(),
		DurationMinutes: b.DurationMinutes,
	}
	if b.Status != nil {
		resp.Status = b.Status.Name
	}
	if b.EventType != nil {
		resp.EventType = b.EventType.Name
	}
	return resp
}

func ToActivityResponses(entries []models.ActivityLog) []ActivityResponse {
	resp := make([]ActivityResponse, len(entries))
	for i, e := range entries {
		resp[i] = ActivityResponse{
			ID:        e.ID,
			BookingID: e.BookingID,
			Action:    e.Action,
			Details:   e.Details,
			ActorID:   e.ActorID,
			ActorName: e.ActorName,
			CreatedAt: e.CreatedAt,
		}
	}
	return resp
}

func ToBlockedSlotResponses(slots []availability.BlockedSlot) []BlockedSlotResponse {
	resp := make([]BlockedSlotResponse, len(slots))
	for i, s := range slots {
		resp[i] = BlockedSlotResponse{
			ID:             s.ID,
			Date:           s.Date,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			EventTypeLabel: s.EventTypeLabel,
			StatusSlug:     s.StatusSlug,
		}
	}
	return resp
}

func ToBoardResponse(columns []service.BoardColumn) []BoardColumnResponse {
	resp := make([]BoardColumnResponse, len(columns))
	for i := range columns {
		resp[i] = BoardColumnResponse{
			Status:   ToWorkflowStatusResponse(&columns[i].Status),
			Bookings: ToBookingResponses(columns[i].Bookings),
		}
	}
	return resp
}

func ToLoginResponse(res *service.LoginResult) LoginResponse {
	return LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      ToUserResponse(res.User),
	}
}
