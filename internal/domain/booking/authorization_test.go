package booking

import (
	"testing"
	"time"

	"github.com/CleanNest/service-cleaning/internal/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reconstruct builds a booking in an arbitrary status, assigned or not.
func reconstruct(t *testing.T, customerID uuid.UUID, cleanerID *uuid.UUID, status BookingStatus) *Booking {
	t.Helper()
	now := time.Now().UTC()
	return ReconstructBooking(
		uuid.New(), "CL-TEST01", customerID, cleanerID, uuid.New(), status,
		now.Add(48*time.Hour), "09:00-12:00", "12 Elm Street", "Rotterdam", "",
		7500, nil, nil, nil, 1, now, now,
	)
}

func TestMayTransitionAdmin(t *testing.T) {
	admin := Actor{ID: uuid.New(), Role: user.RoleAdmin}

	// Admins pass the guard for every transition; table validity is checked
	// elsewhere.
	bk := reconstruct(t, uuid.New(), nil, StatusPending)
	assert.True(t, MayTransition(admin, bk, StatusConfirmed))
	assert.True(t, MayTransition(admin, bk, StatusCancelled))

	bk = reconstruct(t, uuid.New(), nil, StatusInProgress)
	assert.True(t, MayTransition(admin, bk, StatusNoShow))
}

func TestMayTransitionAssignedCleaner(t *testing.T) {
	cleanerID := uuid.New()
	cleaner := Actor{ID: cleanerID, Role: user.RoleCleaner}

	bk := reconstruct(t, uuid.New(), &cleanerID, StatusConfirmed)
	assert.True(t, MayTransition(cleaner, bk, StatusInProgress))
	assert.True(t, MayTransition(cleaner, bk, StatusCancelled))

	bk = reconstruct(t, uuid.New(), &cleanerID, StatusInProgress)
	assert.True(t, MayTransition(cleaner, bk, StatusCompleted))
	assert.True(t, MayTransition(cleaner, bk, StatusNoShow))

	// Not assigned yet: a cleaner cannot touch a PENDING booking.
	bk = reconstruct(t, uuid.New(), nil, StatusPending)
	assert.False(t, MayTransition(cleaner, bk, StatusConfirmed))
}

func TestMayTransitionOtherCleanerDenied(t *testing.T) {
	assignedID := uuid.New()
	other := Actor{ID: uuid.New(), Role: user.RoleCleaner}

	bk := reconstruct(t, uuid.New(), &assignedID, StatusConfirmed)
	assert.False(t, MayTransition(other, bk, StatusInProgress))
}

func TestMayTransitionCustomer(t *testing.T) {
	customerID := uuid.New()
	customer := Actor{ID: customerID, Role: user.RoleCustomer}

	bk := reconstruct(t, customerID, nil, StatusPending)
	assert.True(t, MayTransition(customer, bk, StatusCancelled))
	assert.False(t, MayTransition(customer, bk, StatusConfirmed))

	cleanerID := uuid.New()
	bk = reconstruct(t, customerID, &cleanerID, StatusConfirmed)
	assert.True(t, MayTransition(customer, bk, StatusCancelled))

	// Once the job is running the customer can no longer cancel.
	bk = reconstruct(t, customerID, &cleanerID, StatusInProgress)
	assert.False(t, MayTransition(customer, bk, StatusCancelled))
}

func TestMayTransitionOtherCustomerDenied(t *testing.T) {
	customer := Actor{ID: uuid.New(), Role: user.RoleCustomer}

	bk := reconstruct(t, uuid.New(), nil, StatusPending)
	assert.False(t, MayTransition(customer, bk, StatusCancelled))
}

func TestMayTransitionGuardIsIndependentOfTable(t *testing.T) {
	// The guard answers only "who"; an admin is allowed even for a move the
	// transition table would reject.
	admin := Actor{ID: uuid.New(), Role: user.RoleAdmin}
	bk := reconstruct(t, uuid.New(), nil, StatusCompleted)

	require.True(t, MayTransition(admin, bk, StatusPending))
	assert.False(t, bk.Status().CanTransitionTo(StatusPending))
}
