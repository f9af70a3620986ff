package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/availability"
	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/repository"
	"github.com/Eursukkul/seasonal-booking/pkg/otelhelper"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrEventTypeNotFound = errors.New("event type not found")
	ErrEventTypeInactive = errors.New("event type is not bookable")
	ErrStatusNotFound    = errors.New("workflow status not found")
	ErrStatusInactive    = errors.New("workflow status is not active")
	ErrAssigneeNotFound  = errors.New("assignee not found")
	ErrInvalidDuration   = fmt.Errorf("duration must be between %d and %d minutes", models.MinBookingDuration, models.MaxBookingDuration)
	ErrStartInPast       = errors.New("start time is in the past")
	ErrSlotUnavailable   = errors.New("requested time slot is not available")
)

type CreateBookingInput struct {
	EventTypeID  uint
	ContactName  string
	ContactEmail string
	ContactPhone string
	StartAt      time.Time
	// DurationMinutes falls back to the event type's duration when zero.
	DurationMinutes int
	Notes           string
}

type AdminCreateBookingInput struct {
	CreateBookingInput
	StatusID   *uint
	AssigneeID *uint
	// Force skips the availability check.
	Force bool
}

// UpdateBookingInput holds the fields to change; nil leaves a field as is.
type UpdateBookingInput struct {
	StatusID        *uint
	AssigneeID      *uint
	Unassign        bool
	Notes           *string
	ContactName     *string
	ContactEmail    *string
	ContactPhone    *string
	StartAt         *time.Time
	DurationMinutes *int
	EventTypeID     *uint
	Force           bool
}

func (in UpdateBookingInput) touchesSchedule() bool {
	return in.StartAt != nil || in.DurationMinutes != nil || in.EventTypeID != nil
}

// BookingEvent is the payload published on the bookings exchange.
type BookingEvent struct {
	BookingID  uint      `json:"booking_id"`
	Reference  uuid.UUID `json:"reference"`
	Action     string    `json:"action"`
	StatusID   uint      `json:"status_id"`
	StartAt    time.Time `json:"start_at"`
	AssigneeID *uint     `json:"assignee_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type BoardColumn struct {
	Status   models.WorkflowStatus
	Bookings []models.Booking
}

type BookingService interface {
	CreatePublicBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	CreateAdminBooking(ctx context.Context, in AdminCreateBookingInput, actor Actor) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id uint, in UpdateBookingInput, actor Actor) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error)
	Board(ctx context.Context) ([]BoardColumn, error)
	ListActivity(ctx context.Context, bookingID uint) ([]models.ActivityLog, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	activityRepo repository.ActivityRepository
	statusRepo   repository.WorkflowStatusRepository
	userRepo     repository.UserRepository
	catalog      catalogLoader
	publisher    EventPublisher
	logger       *slog.Logger
	now          func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	activityRepo repository.ActivityRepository,
	eventTypeRepo repository.EventTypeRepository,
	statusRepo repository.WorkflowStatusRepository,
	userRepo repository.UserRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		activityRepo: activityRepo,
		statusRepo:   statusRepo,
		userRepo:     userRepo,
		catalog:      catalogLoader{eventTypeRepo: eventTypeRepo, statusRepo: statusRepo},
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

// CreatePublicBooking stores a request from the public form. The status is
// always the catalog default and the slot must be free.
func (s *bookingService) CreatePublicBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	return s.create(ctx, AdminCreateBookingInput{CreateBookingInput: in}, Actor{}, true)
}

func (s *bookingService) CreateAdminBooking(ctx context.Context, in AdminCreateBookingInput, actor Actor) (*models.Booking, error) {
	return s.create(ctx, in, actor, false)
}

func (s *bookingService) create(ctx context.Context, in AdminCreateBookingInput, actor Actor, public bool) (*models.Booking, error) {
	ctx, span := otelhelper.StartSpan(ctx, tracer, "booking.create",
		attribute.Int64(otelhelper.EventTypeIDKey, int64(in.EventTypeID)),
		attribute.Bool("booking.public", public),
	)
	defer span.End()

	booking, err := s.createInTx(ctx, in, actor, public)
	if err != nil {
		otelhelper.SetError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64(otelhelper.BookingIDKey, int64(booking.ID)))
	s.logger.Info("booking created", "booking_id", booking.ID, "reference", booking.Reference, "public", public)
	s.publish(ctx, "booking.created", booking)
	return booking, nil
}

func (s *bookingService) createInTx(ctx context.Context, in AdminCreateBookingInput, actor Actor, public bool) (*models.Booking, error) {
	if public && in.StartAt.Before(s.now()) {
		return nil, ErrStartInPast
	}

	var (
		assignee *models.User
		err      error
	)
	if in.AssigneeID != nil {
		assignee, err = s.activeUser(ctx, *in.AssigneeID)
		if err != nil {
			return nil, err
		}
	}

	var (
		booking *models.Booking
		et      models.EventType
		status  models.WorkflowStatus
	)
	err = s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		// 1. Serialise against other writers; the catalog is read under the lock
		if err := s.bookingRepo.LockSchedule(ctx, tx); err != nil {
			return err
		}
		cat, err := s.catalog.load(ctx, tx)
		if err != nil {
			return err
		}

		// 2. Event type and duration
		var ok bool
		et, ok = cat.EventType(in.EventTypeID)
		if !ok {
			return ErrEventTypeNotFound
		}
		if public && !et.IsActive {
			return ErrEventTypeInactive
		}
		duration := in.DurationMinutes
		if duration == 0 {
			duration = et.DurationMinutes
		}
		if duration < models.MinBookingDuration || duration > models.MaxBookingDuration {
			return ErrInvalidDuration
		}

		// 3. Initial status
		if in.StatusID == nil {
			status, ok = cat.DefaultStatus()
			if !ok {
				return ErrNoDefaultStatus
			}
		} else {
			status, ok = cat.Status(*in.StatusID)
			if !ok {
				return ErrStatusNotFound
			}
			if !status.IsActive {
				return ErrStatusInactive
			}
		}

		booking = &models.Booking{
			EventTypeID:     et.ID,
			ContactName:     in.ContactName,
			ContactEmail:    in.ContactEmail,
			ContactPhone:    in.ContactPhone,
			StartAt:         in.StartAt,
			DurationMinutes: duration,
			Notes:           in.Notes,
			StatusID:        status.ID,
			AssigneeID:      in.AssigneeID,
		}

		// 4. Slot check
		if !in.Force {
			available, err := checkSlot(ctx, s.bookingRepo, tx, cat, availability.Candidate{
				Start:           booking.StartAt,
				DurationMinutes: booking.DurationMinutes,
				EventTypeID:     &booking.EventTypeID,
			}, s.logger)
			if err != nil {
				return err
			}
			if !available {
				return ErrSlotUnavailable
			}
		}

		// 5. Insert with its first activity entry
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}
		details := fmt.Sprintf("Booking created with status %q", status.Name)
		if public {
			details = fmt.Sprintf("Booking request submitted by %s", booking.ContactName)
		}
		return s.activityRepo.Create(ctx, tx, s.entry(booking.ID, models.ActionCreated, details, actor))
	})
	if err != nil {
		return nil, classifyTxError(err)
	}

	booking.EventType = &et
	booking.Status = &status
	booking.Assignee = assignee
	return booking, nil
}

// UpdateBooking applies the changed fields in one transaction and appends
// one activity entry per kind of change: status, assignee, notes, and the
// remaining contact or schedule fields together.
func (s *bookingService) UpdateBooking(ctx context.Context, id uint, in UpdateBookingInput, actor Actor) (*models.Booking, error) {
	ctx, span := otelhelper.StartSpan(ctx, tracer, "booking.update", attribute.Int64(otelhelper.BookingIDKey, int64(id)))
	defer span.End()

	var (
		entries []*models.ActivityLog
		updated *models.Booking
	)

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		entries = nil

		if in.touchesSchedule() {
			if err := s.bookingRepo.LockSchedule(ctx, tx); err != nil {
				return err
			}
		}

		b, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		cat, err := s.catalog.load(ctx, tx)
		if err != nil {
			return err
		}

		var columns []string

		// Status
		if in.StatusID != nil && *in.StatusID != b.StatusID {
			next, ok := cat.Status(*in.StatusID)
			if !ok {
				return ErrStatusNotFound
			}
			if !next.IsActive {
				return ErrStatusInactive
			}
			prevName := "unknown"
			if prev, ok := cat.Status(b.StatusID); ok {
				prevName = prev.Name
			}
			entries = append(entries, s.entry(b.ID, models.ActionStatusChanged,
				fmt.Sprintf("Status changed from %q to %q", prevName, next.Name), actor))
			b.StatusID = next.ID
			columns = append(columns, "status_id")
		}

		// Assignee
		nextAssignee := b.AssigneeID
		if in.Unassign {
			nextAssignee = nil
		} else if in.AssigneeID != nil {
			nextAssignee = in.AssigneeID
		}
		if !sameID(nextAssignee, b.AssigneeID) {
			details, err := s.assignmentDetails(ctx, b.AssigneeID, nextAssignee)
			if err != nil {
				return err
			}
			entries = append(entries, s.entry(b.ID, models.ActionAssigned, details, actor))
			b.AssigneeID = nextAssignee
			columns = append(columns, "assignee_id")
		}

		// Notes
		if in.Notes != nil && *in.Notes != b.Notes {
			entries = append(entries, s.entry(b.ID, models.ActionNotesAdded, notesDetails(b.Notes, *in.Notes), actor))
			b.Notes = *in.Notes
			columns = append(columns, "notes")
		}

		// Contact and schedule
		var changed []string
		if in.ContactName != nil && *in.ContactName != b.ContactName {
			b.ContactName = *in.ContactName
			changed = append(changed, "contact name")
			columns = append(columns, "contact_name")
		}
		if in.ContactEmail != nil && *in.ContactEmail != b.ContactEmail {
			b.ContactEmail = *in.ContactEmail
			changed = append(changed, "contact email")
			columns = append(columns, "contact_email")
		}
		if in.ContactPhone != nil && *in.ContactPhone != b.ContactPhone {
			b.ContactPhone = *in.ContactPhone
			changed = append(changed, "contact phone")
			columns = append(columns, "contact_phone")
		}

		rescheduled := false
		if in.EventTypeID != nil && *in.EventTypeID != b.EventTypeID {
			if _, ok := cat.EventType(*in.EventTypeID); !ok {
				return ErrEventTypeNotFound
			}
			b.EventTypeID = *in.EventTypeID
			changed = append(changed, "event type")
			columns = append(columns, "event_type_id")
			rescheduled = true
		}
		if in.StartAt != nil && !in.StartAt.Equal(b.StartAt) {
			b.StartAt = *in.StartAt
			changed = append(changed, "start time")
			columns = append(columns, "start_at")
			rescheduled = true
		}
		if in.DurationMinutes != nil && *in.DurationMinutes != b.DurationMinutes {
			if *in.DurationMinutes < models.MinBookingDuration || *in.DurationMinutes > models.MaxBookingDuration {
				return ErrInvalidDuration
			}
			b.DurationMinutes = *in.DurationMinutes
			changed = append(changed, "duration")
			columns = append(columns, "duration_minutes")
			rescheduled = true
		}
		if len(changed) > 0 {
			entries = append(entries, s.entry(b.ID, models.ActionUpdated, "Updated "+strings.Join(changed, ", "), actor))
		}

		if rescheduled && !in.Force {
			available, err := checkSlot(ctx, s.bookingRepo, tx, cat, availability.Candidate{
				Start:            b.StartAt,
				DurationMinutes:  b.DurationMinutes,
				EventTypeID:      &b.EventTypeID,
				ExcludeBookingID: b.ID,
			}, s.logger)
			if err != nil {
				return err
			}
			if !available {
				return ErrSlotUnavailable
			}
		}

		updated = b
		if len(columns) == 0 {
			return nil
		}

		if err := s.bookingRepo.Update(ctx, tx, b, columns...); err != nil {
			return err
		}
		for _, e := range entries {
			if err := s.activityRepo.Create(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = classifyTxError(err)
		otelhelper.SetError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("booking.activity_entries", len(entries)))
	if len(entries) == 0 {
		return s.GetBooking(ctx, id)
	}

	s.logger.Info("booking updated", "booking_id", id, "entries", len(entries))
	published := map[string]bool{}
	for _, e := range entries {
		key := routingKey(e.Action)
		if published[key] {
			continue
		}
		published[key] = true
		s.publish(ctx, key, updated)
	}

	return s.GetBooking(ctx, id)
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *bookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	return s.bookingRepo.FindAll(ctx, filter)
}

// Board groups bookings into one column per active status, in status order.
func (s *bookingService) Board(ctx context.Context) ([]BoardColumn, error) {
	statuses, err := s.statusRepo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.FindAll(ctx, repository.BookingFilter{})
	if err != nil {
		return nil, err
	}

	byStatus := make(map[uint][]models.Booking, len(statuses))
	for _, b := range bookings {
		byStatus[b.StatusID] = append(byStatus[b.StatusID], b)
	}

	columns := make([]BoardColumn, len(statuses))
	for i, st := range statuses {
		columns[i] = BoardColumn{Status: st, Bookings: byStatus[st.ID]}
		if columns[i].Bookings == nil {
			columns[i].Bookings = []models.Booking{}
		}
	}
	return columns, nil
}

func (s *bookingService) ListActivity(ctx context.Context, bookingID uint) ([]models.ActivityLog, error) {
	if _, err := s.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.activityRepo.FindByBookingID(ctx, bookingID)
}

func (s *bookingService) entry(bookingID uint, action models.ActivityAction, details string, actor Actor) *models.ActivityLog {
	return &models.ActivityLog{
		BookingID: bookingID,
		Action:    action,
		Details:   details,
		ActorID:   actor.ID,
		ActorName: actor.displayName(),
		CreatedAt: s.now(),
	}
}

func (s *bookingService) activeUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAssigneeNotFound
	}
	return u, nil
}

func (s *bookingService) assignmentDetails(ctx context.Context, prev, next *uint) (string, error) {
	var nextName string
	if next != nil {
		u, err := s.activeUser(ctx, *next)
		if err != nil {
			return "", err
		}
		nextName = u.Name
	}

	var prevName string
	if prev != nil {
		prevName = "user #" + fmt.Sprint(*prev)
		if u, err := s.userRepo.FindByID(ctx, *prev); err == nil {
			prevName = u.Name
		}
	}

	switch {
	case prev == nil:
		return "Assigned to " + nextName, nil
	case next == nil:
		return "Unassigned (was " + prevName + ")", nil
	default:
		return fmt.Sprintf("Reassigned from %s to %s", prevName, nextName), nil
	}
}

func (s *bookingService) publish(ctx context.Context, key string, b *models.Booking) {
	if s.publisher == nil {
		return
	}
	evt := BookingEvent{
		BookingID:  b.ID,
		Reference:  b.Reference,
		Action:     key,
		StatusID:   b.StatusID,
		StartAt:    b.StartAt,
		AssigneeID: b.AssigneeID,
		OccurredAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, key, evt); err != nil {
		s.logger.Error("failed to publish booking event", "routing_key", key, "booking_id", b.ID, "error", err)
	}
}

func routingKey(action models.ActivityAction) string {
	switch action {
	case models.ActionStatusChanged:
		return "booking.status_changed"
	case models.ActionAssigned:
		return "booking.assigned"
	default:
		return "booking.updated"
	}
}

const notesPreviewLen = 120

func notesDetails(prev, next string) string {
	switch {
	case next == "":
		return "Notes removed"
	case prev == "":
		return "Notes added: " + preview(next)
	default:
		return "Notes updated: " + preview(next)
	}
}

func preview(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= notesPreviewLen {
		return string(r)
	}
	return string(r[:notesPreviewLen]) + "…"
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
