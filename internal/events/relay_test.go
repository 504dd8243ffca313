package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/CleanNest/service-cleaning/internal/hub"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func relayFixture(t *testing.T, localSource string) (*StatusRelayConsumer, *hub.Hub) {
	t.Helper()
	h := hub.NewHub(zap.NewNop())
	relay := &StatusRelayConsumer{
		hub:         h,
		localSource: localSource,
		logger:      zap.NewNop(),
	}
	return relay, h
}

func messageFor(t *testing.T, source, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := NewCloudEvent(source, eventType, data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Value: raw}
}

func TestRelayPublishesPeerStatusChanges(t *testing.T) {
	relay, h := relayFixture(t, "service-cleaning/local")
	bookingID := uuid.New()

	sub := h.NewSubscriber("conn")
	h.Subscribe(bookingID, sub)

	msg := messageFor(t, "service-cleaning/peer", BookingStatusChanged, BookingStatusChangedEvent{
		BookingID:      bookingID,
		BookingNumber:  "CL-TEST01",
		PreviousStatus: "PENDING",
		Status:         "CONFIRMED",
		Message:        "Booking status updated to CONFIRMED",
		OccurredAt:     time.Now().UTC(),
	})
	require.NoError(t, relay.handleMessage(context.Background(), msg))

	select {
	case evt := <-sub.Events():
		assert.Equal(t, bookingID, evt.BookingID)
		assert.Equal(t, "CONFIRMED", evt.Status)
	default:
		t.Fatal("expected relayed event")
	}
}

func TestRelaySkipsOwnEvents(t *testing.T) {
	relay, h := relayFixture(t, "service-cleaning/local")
	bookingID := uuid.New()

	sub := h.NewSubscriber("conn")
	h.Subscribe(bookingID, sub)

	msg := messageFor(t, "service-cleaning/local", BookingStatusChanged, BookingStatusChangedEvent{
		BookingID: bookingID,
		Status:    "CONFIRMED",
	})
	require.NoError(t, relay.handleMessage(context.Background(), msg))

	select {
	case <-sub.Events():
		t.Fatal("events from the local instance must not be relayed twice")
	default:
	}
}

func TestRelayPublishesCleanerAssignment(t *testing.T) {
	relay, h := relayFixture(t, "service-cleaning/local")
	bookingID := uuid.New()

	sub := h.NewSubscriber("conn")
	h.Subscribe(bookingID, sub)

	msg := messageFor(t, "service-cleaning/peer", BookingCleanerAssigned, CleanerAssignedEvent{
		BookingID: bookingID,
		CleanerID: uuid.New(),
	})
	require.NoError(t, relay.handleMessage(context.Background(), msg))

	select {
	case evt := <-sub.Events():
		assert.Equal(t, "CONFIRMED", evt.Status)
	default:
		t.Fatal("expected relayed assignment event")
	}
}

func TestRelayIgnoresMalformedMessages(t *testing.T) {
	relay, _ := relayFixture(t, "service-cleaning/local")

	err := relay.handleMessage(context.Background(), kafkago.Message{Value: []byte("not json")})
	assert.NoError(t, err, "malformed messages are skipped, not retried")
}

func TestRelayIgnoresUnknownTypes(t *testing.T) {
	relay, h := relayFixture(t, "service-cleaning/local")
	bookingID := uuid.New()

	sub := h.NewSubscriber("conn")
	h.Subscribe(bookingID, sub)

	msg := messageFor(t, "service-cleaning/peer", "booking.created", BookingCreatedEvent{BookingID: bookingID})
	require.NoError(t, relay.handleMessage(context.Background(), msg))

	select {
	case <-sub.Events():
		t.Fatal("booking.created is not a status update")
	default:
	}
}
