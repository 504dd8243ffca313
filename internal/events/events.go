package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics carrying this service's integration events.
const (
	TopicBookingEvents = "booking.events"
)

// Event types published to booking.events.
const (
	BookingCreated         = "booking.created"
	BookingStatusChanged   = "booking.status_changed"
	BookingCleanerAssigned = "booking.cleaner_assigned"
)

// BookingCreatedEvent is emitted when a customer creates a booking.
type BookingCreatedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
	ServiceID     uuid.UUID `json:"service_id"`
	City          string    `json:"city"`
	TotalPrice    int64     `json:"total_price_cents"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is emitted after every committed status transition.
type BookingStatusChangedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	BookingNumber  string    `json:"booking_number"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	ActorID        uuid.UUID `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// CleanerAssignedEvent is emitted when a cleaner is assigned and the booking
// confirmed as one commit.
type CleanerAssignedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CleanerID     uuid.UUID `json:"cleaner_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
