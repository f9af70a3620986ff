package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/availability"
	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/repository"
	"github.com/Eursukkul/seasonal-booking/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrCatalogIncomplete = errors.New("reference catalog is incomplete")
	ErrNoDefaultStatus   = errors.New("no default workflow status configured")
	ErrNoActiveEventType = errors.New("no active event type configured")
	ErrDefaultNotActive  = errors.New("default workflow status is not active")
)

type AvailabilityService interface {
	IsSlotAvailable(ctx context.Context, start time.Time, durationMinutes int, eventTypeID *uint) (bool, error)
	// BlockedSlots projects approved bookings for the public calendar. A nil
	// from or to leaves that side of the range open.
	BlockedSlots(ctx context.Context, from, to *time.Time) ([]availability.BlockedSlot, error)
	CheckCatalog(ctx context.Context) error
}

type availabilityService struct {
	bookingRepo repository.BookingRepository
	catalog     catalogLoader
	loc         *time.Location
	logger      *slog.Logger
}

func NewAvailabilityService(
	bookingRepo repository.BookingRepository,
	eventTypeRepo repository.EventTypeRepository,
	statusRepo repository.WorkflowStatusRepository,
	loc *time.Location,
	logger *slog.Logger,
) AvailabilityService {
	return &availabilityService{
		bookingRepo: bookingRepo,
		catalog:     catalogLoader{eventTypeRepo: eventTypeRepo, statusRepo: statusRepo},
		loc:         loc,
		logger:      logger,
	}
}

func (s *availabilityService) IsSlotAvailable(ctx context.Context, start time.Time, durationMinutes int, eventTypeID *uint) (bool, error) {
	ctx, span := otelhelper.StartSpan(ctx, tracer, "availability.check")
	defer span.End()

	cat, err := s.catalog.load(ctx, nil)
	if err != nil {
		otelhelper.SetError(span, err)
		return false, err
	}

	available, err := checkSlot(ctx, s.bookingRepo, nil, cat, availability.Candidate{
		Start:           start,
		DurationMinutes: durationMinutes,
		EventTypeID:     eventTypeID,
	}, s.logger)
	if err != nil {
		otelhelper.SetError(span, err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("availability.available", available))
	return available, nil
}

func (s *availabilityService) BlockedSlots(ctx context.Context, from, to *time.Time) ([]availability.BlockedSlot, error) {
	ctx, span := otelhelper.StartSpan(ctx, tracer, "calendar.project")
	defer span.End()

	cat, err := s.catalog.load(ctx, nil)
	if err != nil {
		otelhelper.SetError(span, err)
		return nil, err
	}

	approved, ok := cat.StatusOfKind(models.StatusApproved)
	if !ok {
		s.logger.Warn("no approved workflow status, calendar is empty")
		return []availability.BlockedSlot{}, nil
	}

	// Widen the range so bookings whose buffers reach into it are included.
	filter := repository.BookingFilter{StatusID: &approved.ID}
	widest := cat.MaxBuffers()
	if from != nil {
		f := from.Add(-availability.Minutes(models.MaxBookingDuration) - widest.After)
		filter.From = &f
	}
	if to != nil {
		t := to.Add(widest.Before)
		filter.To = &t
	}

	bookings, err := s.bookingRepo.FindAll(ctx, filter)
	if err != nil {
		err = fmt.Errorf("load approved bookings: %w", err)
		otelhelper.SetError(span, err)
		return nil, err
	}

	bookings = availability.Within(bookings, cat, from, to)
	slots := availability.Project(bookings, cat, s.loc)
	span.SetAttributes(attribute.Int("calendar.slots", len(slots)))
	return slots, nil
}

// CheckCatalog fails when bookings could not be accepted at all: there is
// no active default status or no active event type.
func (s *availabilityService) CheckCatalog(ctx context.Context) error {
	cat, err := s.catalog.load(ctx, nil)
	if err != nil {
		return err
	}

	var missing []error
	if def, ok := cat.DefaultStatus(); !ok {
		missing = append(missing, ErrNoDefaultStatus)
	} else if !def.IsActive {
		missing = append(missing, ErrDefaultNotActive)
	}

	active := 0
	for _, et := range cat.EventTypes() {
		if et.IsActive {
			active++
		}
	}
	if active == 0 {
		missing = append(missing, ErrNoActiveEventType)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %w", ErrCatalogIncomplete, errors.Join(missing...))
	}

	if _, ok := cat.StatusOfKind(models.StatusPending); !ok {
		s.logger.Warn("no pending workflow status, every active booking blocks its slot")
	}
	if _, ok := cat.StatusOfKind(models.StatusApproved); !ok {
		s.logger.Warn("no approved workflow status, the public calendar will stay empty")
	}
	return nil
}
