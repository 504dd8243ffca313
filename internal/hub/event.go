package hub

import "github.com/google/uuid"

// StatusUpdate is the event pushed to every subscriber of a booking when its
// status changes.
type StatusUpdate struct {
	BookingID uuid.UUID `json:"booking_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
}
