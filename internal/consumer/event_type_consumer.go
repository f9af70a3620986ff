package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventTypeConsumer mirrors event types published by the upstream catalog
// into the local table, keeping the upstream IDs.
type EventTypeConsumer struct {
	svc    service.EventTypeService
	logger *slog.Logger
}

func NewEventTypeConsumer(svc service.EventTypeService, logger *slog.Logger) *EventTypeConsumer {
	return &EventTypeConsumer{svc: svc, logger: logger}
}

// Start handles deliveries until msgs is closed or ctx is done. A delivery
// already being handled is finished and acked before the loop exits. The
// returned channel is closed when the loop exits.
func (ec *EventTypeConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				ec.logger.Info("context done, stopping consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					ec.logger.Info("channel closed, stopping consumer")
					return
				}
				ec.handleMessage(context.WithoutCancel(ctx), msg)
			}
		}
	}()
	return done
}

func (ec *EventTypeConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var evt service.EventTypeEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		ec.logger.Error("failed to unmarshal event type", "routing_key", msg.RoutingKey, "error", err)
		_ = msg.Nack(false, false)
		return
	}

	// Deleted upstream types are kept inactive so existing bookings keep
	// their buffers.
	et := &models.EventType{
		UpstreamID:          &evt.ID,
		Slug:                evt.Slug,
		Name:                evt.Name,
		DurationMinutes:     evt.DurationMinutes,
		BufferBeforeMinutes: evt.BufferBeforeMinutes,
		BufferAfterMinutes:  evt.BufferAfterMinutes,
		IsActive:            evt.IsActive && !evt.Deleted,
		SortOrder:           evt.SortOrder,
	}

	if err := ec.svc.SyncEventType(ctx, et); err != nil {
		if errors.Is(err, service.ErrInvalidEventType) || errors.Is(err, service.ErrSlugTaken) {
			ec.logger.Error("rejected event type", "upstream_id", evt.ID, "error", err)
			_ = msg.Nack(false, false)
			return
		}
		ec.logger.Error("failed to upsert event type", "upstream_id", evt.ID, "error", err)
		_ = msg.Nack(false, true)
		return
	}

	ec.logger.Info("synced event type", "event_type_id", et.ID, "upstream_id", evt.ID, "slug", et.Slug, "active", et.IsActive)
	_ = msg.Ack(false)
}
