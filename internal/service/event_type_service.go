package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/repository"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	ErrEventTypeInUse   = errors.New("event type is referenced by bookings")
	ErrInvalidEventType = errors.New("invalid event type")
	ErrSlugTaken        = errors.New("slug is already in use")
)

type EventTypeService interface {
	ListEventTypes(ctx context.Context, activeOnly bool) ([]models.EventType, error)
	GetEventType(ctx context.Context, id uint) (*models.EventType, error)
	CreateEventType(ctx context.Context, et *models.EventType) error
	UpdateEventType(ctx context.Context, et *models.EventType) error
	DeleteEventType(ctx context.Context, id uint) error
	// SyncEventType stores an event type received from the upstream
	// catalog, keyed by its upstream ID. Local IDs are never taken from
	// upstream.
	SyncEventType(ctx context.Context, et *models.EventType) error
}

type eventTypeService struct {
	repo        repository.EventTypeRepository
	bookingRepo repository.BookingRepository
	publisher   EventPublisher
	logger      *slog.Logger
}

// EventTypeEvent is the payload published when an event type changes.
type EventTypeEvent struct {
	ID                  uint   `json:"id"`
	Slug                string `json:"slug"`
	Name                string `json:"name"`
	DurationMinutes     int    `json:"duration_minutes"`
	BufferBeforeMinutes int    `json:"buffer_before_minutes"`
	BufferAfterMinutes  int    `json:"buffer_after_minutes"`
	IsActive            bool   `json:"is_active"`
	SortOrder           int    `json:"sort_order"`
	Deleted             bool   `json:"deleted,omitempty"`
}

func NewEventTypeService(repo repository.EventTypeRepository, bookingRepo repository.BookingRepository, publisher EventPublisher, logger *slog.Logger) EventTypeService {
	return &eventTypeService{repo: repo, bookingRepo: bookingRepo, publisher: publisher, logger: logger}
}

func (s *eventTypeService) ListEventTypes(ctx context.Context, activeOnly bool) ([]models.EventType, error) {
	return s.repo.FindAll(ctx, activeOnly)
}

func (s *eventTypeService) GetEventType(ctx context.Context, id uint) (*models.EventType, error) {
	et, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventTypeNotFound
		}
		return nil, err
	}
	return et, nil
}

func (s *eventTypeService) CreateEventType(ctx context.Context, et *models.EventType) error {
	if err := normalizeEventType(et); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, et); err != nil {
		return mapSlugError(err)
	}
	s.logger.Info("event type created", "event_type_id", et.ID, "slug", et.Slug)
	s.publish(ctx, "event_type.upserted", et, false)
	return nil
}

func (s *eventTypeService) UpdateEventType(ctx context.Context, et *models.EventType) error {
	if _, err := s.GetEventType(ctx, et.ID); err != nil {
		return err
	}
	if err := normalizeEventType(et); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, et); err != nil {
		return mapSlugError(err)
	}
	s.logger.Info("event type updated", "event_type_id", et.ID, "slug", et.Slug)
	s.publish(ctx, "event_type.upserted", et, false)
	return nil
}

func (s *eventTypeService) DeleteEventType(ctx context.Context, id uint) error {
	et, err := s.GetEventType(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.bookingRepo.CountByEventType(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEventTypeInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrEventTypeNotFound
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return ErrEventTypeInUse
		}
		return err
	}
	s.logger.Info("event type deleted", "event_type_id", id)
	s.publish(ctx, "event_type.deleted", et, true)
	return nil
}

func (s *eventTypeService) SyncEventType(ctx context.Context, et *models.EventType) error {
	if et.UpstreamID == nil || *et.UpstreamID == 0 {
		return fmt.Errorf("%w: missing upstream id", ErrInvalidEventType)
	}
	if err := normalizeEventType(et); err != nil {
		return err
	}
	if err := s.linkBySlug(ctx, et); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, et); err != nil {
		return mapSlugError(err)
	}
	return nil
}

// linkBySlug adopts a local event type with the same slug the first time
// an upstream event type is seen.
func (s *eventTypeService) linkBySlug(ctx context.Context, et *models.EventType) error {
	if _, err := s.repo.FindByUpstreamID(ctx, *et.UpstreamID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	local, err := s.repo.FindBySlug(ctx, et.Slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if local.UpstreamID != nil {
		return ErrSlugTaken
	}
	if err := s.repo.LinkUpstream(ctx, local.ID, *et.UpstreamID); err != nil {
		return mapSlugError(err)
	}
	s.logger.Info("linked event type to upstream", "event_type_id", local.ID, "upstream_id", *et.UpstreamID)
	return nil
}

func (s *eventTypeService) publish(ctx context.Context, key string, et *models.EventType, deleted bool) {
	if s.publisher == nil {
		return
	}
	evt := EventTypeEvent{
		ID:                  et.ID,
		Slug:                et.Slug,
		Name:                et.Name,
		DurationMinutes:     et.DurationMinutes,
		BufferBeforeMinutes: et.BufferBeforeMinutes,
		BufferAfterMinutes:  et.BufferAfterMinutes,
		IsActive:            et.IsActive,
		SortOrder:           et.SortOrder,
		Deleted:             deleted,
	}
	if err := s.publisher.Publish(ctx, key, evt); err != nil {
		s.logger.Error("failed to publish event type change", "routing_key", key, "event_type_id", et.ID, "error", err)
	}
}

func normalizeEventType(et *models.EventType) error {
	et.Name = strings.TrimSpace(et.Name)
	if et.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEventType)
	}
	if et.Slug = Slugify(et.Slug); et.Slug == "" {
		et.Slug = Slugify(et.Name)
	}
	if et.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidEventType)
	}
	if et.DurationMinutes < models.MinEventTypeDuration || et.DurationMinutes > models.MaxEventTypeDuration {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidEventType, models.MinEventTypeDuration, models.MaxEventTypeDuration)
	}
	if !validBuffer(et.BufferBeforeMinutes) || !validBuffer(et.BufferAfterMinutes) {
		return fmt.Errorf("%w: buffers must be between 0 and %d minutes", ErrInvalidEventType, models.MaxBufferMinutes)
	}
	return nil
}

func validBuffer(minutes int) bool {
	return minutes >= 0 && minutes <= models.MaxBufferMinutes
}

func mapSlugError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

// slugLanguage picks the transliteration rules, so "Vårkonsert" becomes
// "varkonsert" and "&" becomes "och".
const slugLanguage = "sv"

// Slugify turns s into a lowercase, dash separated ASCII slug.
func Slugify(s string) string {
	return slug.MakeLang(s, slugLanguage)
}
