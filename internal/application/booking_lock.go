package application

import (
	"sync"

	"github.com/google/uuid"
)

// bookingLocker serializes transition requests per booking id. Requests
// against different bookings proceed fully in parallel; there is no global
// lock. Entries are refcounted so the map does not grow with booking history.
type bookingLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*bookingLock
}

type bookingLock struct {
	mu   sync.Mutex
	refs int
}

func newBookingLocker() *bookingLocker {
	return &bookingLocker{locks: make(map[uuid.UUID]*bookingLock)}
}

// Lock acquires the lock for the booking id and returns the matching unlock.
func (l *bookingLocker) Lock(id uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &bookingLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
