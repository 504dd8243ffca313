package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/CleanNest/service-cleaning/internal/domain"
	"github.com/google/uuid"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the cleaning-booking domain. It has exactly
// one status at any instant and is mutated only through its behavior methods.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	customerID    uuid.UUID
	cleanerID     *uuid.UUID
	serviceID     uuid.UUID
	status        BookingStatus

	date     time.Time
	timeSlot string
	address  string
	city     string
	notes    string

	totalPriceCents int64

	startedAt   *time.Time
	completedAt *time.Time
	cancelledAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "CL-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "CL-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=PENDING and no cleaner
// assigned. The total price is fixed here and never changes afterwards.
func NewBooking(
	customerID uuid.UUID,
	serviceID uuid.UUID,
	date time.Time,
	timeSlot string,
	address string,
	city string,
	notes string,
	totalPriceCents int64,
) (*Booking, error) {
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer ID is required")
	}
	if serviceID == uuid.Nil {
		return nil, domain.NewValidationError("service ID is required")
	}
	if date.IsZero() {
		return nil, domain.NewValidationError("booking date is required")
	}
	if timeSlot == "" {
		return nil, domain.NewValidationError("time slot is required")
	}
	if address == "" {
		return nil, domain.NewValidationError("address is required")
	}
	if city == "" {
		return nil, domain.NewValidationError("city is required")
	}
	if totalPriceCents < 0 {
		return nil, domain.NewValidationError("total price cannot be negative")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		bookingNumber:   bookingNumber,
		customerID:      customerID,
		serviceID:       serviceID,
		status:          StatusPending,
		date:            date,
		timeSlot:        timeSlot,
		address:         address,
		city:            city,
		notes:           notes,
		totalPriceCents: totalPriceCents,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	customerID uuid.UUID,
	cleanerID *uuid.UUID,
	serviceID uuid.UUID,
	status BookingStatus,
	date time.Time,
	timeSlot string,
	address string,
	city string,
	notes string,
	totalPriceCents int64,
	startedAt *time.Time,
	completedAt *time.Time,
	cancelledAt *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		bookingNumber:   bookingNumber,
		customerID:      customerID,
		cleanerID:       cleanerID,
		serviceID:       serviceID,
		status:          status,
		date:            date,
		timeSlot:        timeSlot,
		address:         address,
		city:            city,
		notes:           notes,
		totalPriceCents: totalPriceCents,
		startedAt:       startedAt,
		completedAt:     completedAt,
		cancelledAt:     cancelledAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// CustomerID returns the booking customer's user ID.
func (b *Booking) CustomerID() uuid.UUID { return b.customerID }

// CleanerID returns the assigned cleaner's user ID, or nil if unassigned.
func (b *Booking) CleanerID() *uuid.UUID { return b.cleanerID }

// ServiceID returns the catalog service this booking was made against.
func (b *Booking) ServiceID() uuid.UUID { return b.serviceID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Date returns the scheduled service date.
func (b *Booking) Date() time.Time { return b.date }

// TimeSlot returns the scheduled time slot.
func (b *Booking) TimeSlot() string { return b.timeSlot }

// Address returns the service address.
func (b *Booking) Address() string { return b.address }

// City returns the service city.
func (b *Booking) City() string { return b.city }

// Notes returns any additional notes for the booking.
func (b *Booking) Notes() string { return b.notes }

// TotalPriceCents returns the price fixed at creation, in cents.
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }

// StartedAt returns the time the job went in progress, or nil.
func (b *Booking) StartedAt() *time.Time { return b.startedAt }

// CompletedAt returns the time the job completed, or nil.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// CancelledAt returns the time the booking was cancelled, or nil.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// TransitionTo moves the booking to the target status if the transition table
// allows it. Phase timestamps are recorded as a side effect of the target.
func (b *Booking) TransitionTo(target BookingStatus) error {
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidTransitionError(string(b.status), string(target))
	}
	now := time.Now().UTC()
	switch target {
	case StatusInProgress:
		b.startedAt = &now
	case StatusCompleted:
		b.completedAt = &now
	case StatusCancelled:
		b.cancelledAt = &now
	}
	b.status = target
	b.updatedAt = now
	return nil
}

// AssignCleaner sets the cleaner and confirms the booking as a single state
// change. Only a PENDING booking can be assigned.
func (b *Booking) AssignCleaner(cleanerID uuid.UUID) error {
	if cleanerID == uuid.Nil {
		return domain.NewValidationError("cleaner ID is required")
	}
	if b.status != StatusPending || !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusConfirmed))
	}
	b.cleanerID = &cleanerID
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
