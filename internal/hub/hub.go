package hub

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sendBuffer bounds each subscriber's outbound queue. A subscriber that falls
// this far behind is dropped rather than stalling the publisher.
const sendBuffer = 16

// Subscriber is one live connection's outbound event queue. It is ephemeral
// and process-local; it is never persisted.
type Subscriber struct {
	id   string
	send chan StatusUpdate
}

// ID returns the connection identifier this subscriber was registered with.
func (s *Subscriber) ID() string { return s.id }

// Events returns the channel the subscriber's transport drains.
func (s *Subscriber) Events() <-chan StatusUpdate { return s.send }

// Hub fans booking status updates out to all connections currently watching a
// booking. One Hub instance is created at service start and passed by
// reference to every component that publishes or subscribes.
type Hub struct {
	mu sync.Mutex
	// rooms maps a booking id to its current subscriber set.
	rooms map[uuid.UUID]map[*Subscriber]struct{}
	// memberships is the reverse index used to tear a connection down.
	memberships map[*Subscriber]map[uuid.UUID]struct{}
	logger      *zap.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:       make(map[uuid.UUID]map[*Subscriber]struct{}),
		memberships: make(map[*Subscriber]map[uuid.UUID]struct{}),
		logger:      logger,
	}
}

// NewSubscriber registers a new connection with the hub and returns its
// subscriber handle. The connection is not in any room yet.
func (h *Hub) NewSubscriber(connectionID string) *Subscriber {
	sub := &Subscriber{
		id:   connectionID,
		send: make(chan StatusUpdate, sendBuffer),
	}
	h.mu.Lock()
	h.memberships[sub] = make(map[uuid.UUID]struct{})
	h.mu.Unlock()
	return sub
}

// Subscribe adds the subscriber to the booking's room. Idempotent.
func (h *Hub) Subscribe(bookingID uuid.UUID, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, registered := h.memberships[sub]; !registered {
		return
	}
	room, ok := h.rooms[bookingID]
	if !ok {
		room = make(map[*Subscriber]struct{})
		h.rooms[bookingID] = room
	}
	room[sub] = struct{}{}
	h.memberships[sub][bookingID] = struct{}{}
}

// Unsubscribe removes the subscriber from the booking's room. No-op if absent.
func (h *Hub) Unsubscribe(bookingID uuid.UUID, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(bookingID, sub)
}

// Disconnect removes the subscriber from every room it joined and closes its
// outbound queue. Called when the underlying connection goes away.
func (h *Hub) Disconnect(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(sub)
}

// Publish delivers the event to every subscriber currently in the booking's
// room. Delivery is at-most-once and best-effort: there is no replay buffer,
// and a subscriber whose queue is full is dropped instead of blocking the
// publisher.
func (h *Hub) Publish(evt StatusUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[evt.BookingID]
	if !ok {
		return
	}
	for sub := range room {
		select {
		case sub.send <- evt:
		default:
			h.logger.Warn("dropping slow subscriber",
				zap.String("connection_id", sub.id),
				zap.String("booking_id", evt.BookingID.String()),
			)
			h.dropLocked(sub)
		}
	}
}

// RoomSize returns the number of subscribers currently watching a booking.
func (h *Hub) RoomSize(bookingID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[bookingID])
}

// Shutdown disconnects every subscriber. Part of process teardown.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.memberships {
		h.dropLocked(sub)
	}
}

// removeFromRoom detaches sub from one room. Caller holds h.mu.
func (h *Hub) removeFromRoom(bookingID uuid.UUID, sub *Subscriber) {
	room, ok := h.rooms[bookingID]
	if !ok {
		return
	}
	delete(room, sub)
	if len(room) == 0 {
		delete(h.rooms, bookingID)
	}
	if joined, ok := h.memberships[sub]; ok {
		delete(joined, bookingID)
	}
}

// dropLocked detaches sub from all rooms and closes its queue exactly once.
// Caller holds h.mu.
func (h *Hub) dropLocked(sub *Subscriber) {
	joined, ok := h.memberships[sub]
	if !ok {
		return
	}
	for bookingID := range joined {
		if room, ok := h.rooms[bookingID]; ok {
			delete(room, sub)
			if len(room) == 0 {
				delete(h.rooms, bookingID)
			}
		}
	}
	delete(h.memberships, sub)
	close(sub.send)
}
