package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Eursukkul/seasonal-booking/internal/availability"
	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("github.com/Eursukkul/seasonal-booking/internal/service")

var ErrConcurrentWrite = errors.New("booking conflicted with a concurrent change, please retry")

// EventPublisher delivers lifecycle events after a commit. Services accept
// a nil publisher and then skip publishing.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Actor is the authenticated user behind a change. The zero value is the
// system itself.
type Actor struct {
	ID   *uint
	Name string
}

func (a Actor) displayName() string {
	if a.Name == "" {
		return models.SystemActor
	}
	return a.Name
}

type catalogLoader struct {
	eventTypeRepo repository.EventTypeRepository
	statusRepo    repository.WorkflowStatusRepository
}

// load reads both reference tables, including inactive rows, so bookings
// that point at retired event types keep their buffers. tx may be nil.
func (l catalogLoader) load(ctx context.Context, tx *gorm.DB) (*availability.Catalog, error) {
	eventTypes, err := l.eventTypeRepo.LoadAll(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("load event types: %w", err)
	}
	statuses, err := l.statusRepo.LoadAll(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("load workflow statuses: %w", err)
	}
	return availability.NewCatalog(eventTypes, statuses), nil
}

// checkSlot loads every blocking booking that can reach the candidate and
// runs the overlap check. tx may be nil outside a transaction.
func checkSlot(ctx context.Context, repo repository.BookingRepository, tx *gorm.DB, cat *availability.Catalog, cand availability.Candidate, logger *slog.Logger) (bool, error) {
	if cand.EventTypeID != nil {
		if _, ok := cat.EventType(*cand.EventTypeID); !ok {
			logger.Warn("candidate event type not in catalog, using zero buffers", "event_type_id", *cand.EventTypeID)
		}
	}

	window := availability.SearchWindow(cand, cat)
	existing, err := repo.FindStartingBetween(ctx, tx, window.Start, window.End, cat.BlockingStatusIDs())
	if err != nil {
		return false, fmt.Errorf("load bookings near %s: %w", cand.Start, err)
	}

	for _, b := range existing {
		if _, ok := cat.EventType(b.EventTypeID); !ok {
			logger.Warn("booking references unknown event type, using zero buffers",
				"booking_id", b.ID, "event_type_id", b.EventTypeID)
		}
	}

	conflict, found := availability.FirstConflict(cand, existing, cat)
	if found {
		logger.Debug("slot conflicts with booking", "booking_id", conflict.ID, "start", cand.Start)
		return false, nil
	}
	return true, nil
}

// classifyTxError turns Postgres serialization and deadlock failures into
// ErrConcurrentWrite.
func classifyTxError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", ErrConcurrentWrite, pgErr.Message)
		}
	}
	return err
}
