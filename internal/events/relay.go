package events

import (
	"context"

	"github.com/CleanNest/service-cleaning/internal/domain/booking"
	"github.com/CleanNest/service-cleaning/internal/hub"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StatusRelayConsumer feeds booking events published by other service
// instances into the local notification hub, so subscribers reach every
// instance of a scaled deployment. Events originating from this instance are
// skipped; the lifecycle engine already published them in-process.
type StatusRelayConsumer struct {
	consumer    *Consumer
	hub         *hub.Hub
	localSource string
	logger      *zap.Logger
}

// NewStatusRelayConsumer creates a relay for booking.events.
func NewStatusRelayConsumer(
	brokers []string,
	groupID string,
	localSource string,
	h *hub.Hub,
	logger *zap.Logger,
) *StatusRelayConsumer {
	consumer := NewConsumer(brokers, groupID, TopicBookingEvents, logger)
	return &StatusRelayConsumer{
		consumer:    consumer,
		hub:         h,
		localSource: localSource,
		logger:      logger,
	}
}

// Start begins relaying events. This blocks until the context is cancelled.
func (c *StatusRelayConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *StatusRelayConsumer) Close() error {
	return c.consumer.Close()
}

func (c *StatusRelayConsumer) handleMessage(_ context.Context, msg kafkago.Message) error {
	ce, err := ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	if ce.Source == c.localSource {
		return nil
	}

	switch ce.Type {
	case BookingStatusChanged:
		var evt BookingStatusChangedEvent
		if err := ce.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse BookingStatusChangedEvent data", zap.Error(err))
			return nil
		}
		c.hub.Publish(hub.StatusUpdate{
			BookingID: evt.BookingID,
			Status:    evt.Status,
			Message:   evt.Message,
		})
	case BookingCleanerAssigned:
		var evt CleanerAssignedEvent
		if err := ce.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse CleanerAssignedEvent data", zap.Error(err))
			return nil
		}
		c.hub.Publish(hub.StatusUpdate{
			BookingID: evt.BookingID,
			Status:    string(booking.StatusConfirmed),
			Message:   "A cleaner has been assigned to your booking",
		})
	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", ce.Type),
		)
	}
	return nil
}
