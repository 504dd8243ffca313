//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	bookingDomain "github.com/CleanNest/service-cleaning/internal/domain/booking"
	userDomain "github.com/CleanNest/service-cleaning/internal/domain/user"
	"github.com/CleanNest/service-cleaning/internal/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransition_PersistsAndPublishes verifies that a status transition
// requested by the assigned cleaner commits to the database, reaches a live
// hub subscriber, and lands on booking.events as a CloudEvent.
func TestTransition_PersistsAndPublishes(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupCleaningStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	// Seed: customer, available cleaner, catalog service, CONFIRMED booking.
	customerID := uuid.New()
	cleanerID := uuid.New()
	serviceID := uuid.New()
	bookingID := uuid.New()
	seedUser(t, infra.DB, customerID, "CUSTOMER", false)
	seedUser(t, infra.DB, cleanerID, "CLEANER", true)
	seedService(t, infra.DB, serviceID, 9900)
	seedConfirmedBooking(t, infra.DB, bookingID, customerID, cleanerID, serviceID)

	// A live subscriber watching the booking.
	sub := stack.Hub.NewSubscriber("integration-conn")
	stack.Hub.Subscribe(bookingID, sub)

	// The assigned cleaner starts the job.
	actor := bookingDomain.Actor{ID: cleanerID, Role: userDomain.RoleCleaner}
	dto, err := stack.Service.RequestTransition(
		context.Background(), bookingID, bookingDomain.StatusInProgress, actor,
	)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", dto.Status)

	// Assert: committed to the database with the version bumped.
	model := waitForBookingStatus(t, infra.DB, bookingID, "IN_PROGRESS", 10*time.Second)
	assert.Equal(t, int64(3), model.Version)
	assert.NotNil(t, model.StartedAt)

	// Assert: the hub subscriber saw the update.
	select {
	case evt := <-sub.Events():
		assert.Equal(t, bookingID, evt.BookingID)
		assert.Equal(t, "IN_PROGRESS", evt.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("hub subscriber did not receive the status update")
	}

	// Assert: booking.status_changed on booking.events.
	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingStatusChanged, 15*time.Second)

	var changed events.BookingStatusChangedEvent
	require.NoError(t, ce.ParseData(&changed))
	assert.Equal(t, bookingID, changed.BookingID)
	assert.Equal(t, "CONFIRMED", changed.PreviousStatus)
	assert.Equal(t, "IN_PROGRESS", changed.Status)
	assert.Equal(t, stack.Source, ce.Source)
}

// TestRelay_FansOutPeerEvents verifies that a status event published by a
// peer instance is relayed into the local hub, while events from the local
// instance are not delivered twice.
func TestRelay_FansOutPeerEvents(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupCleaningStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Relay.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Relay.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	bookingID := uuid.New()
	sub := stack.Hub.NewSubscriber("integration-conn")
	stack.Hub.Subscribe(bookingID, sub)

	// An event from a peer instance must reach the local subscriber.
	evt := events.BookingStatusChangedEvent{
		BookingID:      bookingID,
		BookingNumber:  "CL-PEER01",
		PreviousStatus: "CONFIRMED",
		Status:         "IN_PROGRESS",
		Message:        "Booking status updated to IN_PROGRESS",
		ActorID:        uuid.New(),
		OccurredAt:     time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		"service-cleaning/peer", events.BookingStatusChanged, bookingID.String(), evt)

	select {
	case update := <-sub.Events():
		assert.Equal(t, bookingID, update.BookingID)
		assert.Equal(t, "IN_PROGRESS", update.Status)
	case <-time.After(15 * time.Second):
		t.Fatal("relayed event did not reach the local subscriber")
	}

	// An event carrying the local source must be skipped by the relay.
	local := events.BookingStatusChangedEvent{
		BookingID: bookingID,
		Status:    "COMPLETED",
	}
	publishTestEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		stack.Source, events.BookingStatusChanged, bookingID.String(), local)

	select {
	case update := <-sub.Events():
		t.Fatalf("local event was relayed back: %+v", update)
	case <-time.After(5 * time.Second):
	}
}
