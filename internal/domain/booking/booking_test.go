package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/CleanNest/service-cleaning/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	bk, err := NewBooking(
		uuid.New(),
		uuid.New(),
		time.Now().Add(48*time.Hour),
		"09:00-12:00",
		"12 Elm Street",
		"Rotterdam",
		"",
		7500,
	)
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	bk := newTestBooking(t)

	assert.Equal(t, StatusPending, bk.Status())
	assert.Nil(t, bk.CleanerID())
	assert.Equal(t, int64(1), bk.Version())
	assert.Equal(t, int64(7500), bk.TotalPriceCents())
	assert.True(t, strings.HasPrefix(bk.BookingNumber(), "CL-"))
	assert.Len(t, bk.BookingNumber(), 9)
}

func TestNewBookingValidation(t *testing.T) {
	date := time.Now().Add(48 * time.Hour)

	_, err := NewBooking(uuid.Nil, uuid.New(), date, "09:00", "addr", "city", "", 100)
	assert.Error(t, err)

	_, err = NewBooking(uuid.New(), uuid.New(), time.Time{}, "09:00", "addr", "city", "", 100)
	assert.Error(t, err)

	_, err = NewBooking(uuid.New(), uuid.New(), date, "", "addr", "city", "", 100)
	assert.Error(t, err)

	_, err = NewBooking(uuid.New(), uuid.New(), date, "09:00", "", "city", "", 100)
	assert.Error(t, err)

	_, err = NewBooking(uuid.New(), uuid.New(), date, "09:00", "addr", "city", "", -1)
	assert.Error(t, err)
}

func TestTransitionToRecordsTimestamps(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.TransitionTo(StatusConfirmed))
	assert.Nil(t, bk.StartedAt())

	require.NoError(t, bk.TransitionTo(StatusInProgress))
	assert.NotNil(t, bk.StartedAt())
	assert.Nil(t, bk.CompletedAt())

	require.NoError(t, bk.TransitionTo(StatusCompleted))
	assert.NotNil(t, bk.CompletedAt())
}

func TestTransitionToRejectsInvalid(t *testing.T) {
	bk := newTestBooking(t)

	err := bk.TransitionTo(StatusCompleted)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidTransition, domainErr.Code)
	assert.Equal(t, StatusPending, bk.Status())
}

func TestTransitionToCancelRecordsCancelledAt(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.TransitionTo(StatusCancelled))
	assert.NotNil(t, bk.CancelledAt())
	assert.True(t, bk.Status().IsTerminal())
}

func TestAssignCleaner(t *testing.T) {
	bk := newTestBooking(t)
	cleanerID := uuid.New()

	require.NoError(t, bk.AssignCleaner(cleanerID))
	assert.Equal(t, StatusConfirmed, bk.Status())
	require.NotNil(t, bk.CleanerID())
	assert.Equal(t, cleanerID, *bk.CleanerID())
}

func TestAssignCleanerRequiresPending(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.TransitionTo(StatusConfirmed))

	err := bk.AssignCleaner(uuid.New())
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidTransition, domainErr.Code)
}

func TestAssignCleanerRejectsNilID(t *testing.T) {
	bk := newTestBooking(t)
	assert.Error(t, bk.AssignCleaner(uuid.Nil))
}

func TestIncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}
