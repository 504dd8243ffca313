package booking

import (
	"github.com/CleanNest/service-cleaning/internal/domain/user"
	"github.com/google/uuid"
)

// Actor identifies who is requesting a transition, as resolved by the
// identity layer.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// Relation describes how an actor relates to a booking.
type Relation string

const (
	// RelationAny matches regardless of the actor's relation to the booking.
	RelationAny Relation = "any"
	// RelationCustomer matches the booking's customer.
	RelationCustomer Relation = "customer"
	// RelationAssignedCleaner matches the booking's assigned cleaner.
	RelationAssignedCleaner Relation = "assigned_cleaner"
)

// authzRule is one row of the permission matrix. A nil From/To slice matches
// any status. Rules are evaluated in order; the first match allows.
type authzRule struct {
	Role     user.Role
	Relation Relation
	From     []BookingStatus
	To       []BookingStatus
}

// transitionRules is the full permission matrix for status transitions,
// reviewable in one place:
//
//   - admins may perform any valid transition;
//   - the assigned cleaner drives the job forward from CONFIRMED or
//     IN_PROGRESS (start, complete, mark no-show, or cancel);
//   - the customer may cancel their own booking while it is still
//     PENDING or CONFIRMED.
var transitionRules = []authzRule{
	{Role: user.RoleAdmin, Relation: RelationAny},
	{Role: user.RoleCleaner, Relation: RelationAssignedCleaner, From: []BookingStatus{StatusConfirmed, StatusInProgress}},
	{Role: user.RoleCustomer, Relation: RelationCustomer, From: []BookingStatus{StatusPending, StatusConfirmed}, To: []BookingStatus{StatusCancelled}},
}

// MayTransition reports whether the actor is authorized to move the booking to
// the target status. It assumes nothing about transition-table validity; both
// checks are independent.
func MayTransition(actor Actor, b *Booking, target BookingStatus) bool {
	for _, rule := range transitionRules {
		if rule.Role != actor.Role {
			continue
		}
		if !relationMatches(rule.Relation, actor, b) {
			continue
		}
		if !statusMatches(rule.From, b.Status()) {
			continue
		}
		if !statusMatches(rule.To, target) {
			continue
		}
		return true
	}
	return false
}

func relationMatches(rel Relation, actor Actor, b *Booking) bool {
	switch rel {
	case RelationAny:
		return true
	case RelationCustomer:
		return b.CustomerID() == actor.ID
	case RelationAssignedCleaner:
		return b.CleanerID() != nil && *b.CleanerID() == actor.ID
	}
	return false
}

func statusMatches(set []BookingStatus, s BookingStatus) bool {
	if set == nil {
		return true
	}
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}
