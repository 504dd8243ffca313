package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CleanNest/service-cleaning/internal/domain"
	bookingDomain "github.com/CleanNest/service-cleaning/internal/domain/booking"
	serviceDomain "github.com/CleanNest/service-cleaning/internal/domain/service"
	userDomain "github.com/CleanNest/service-cleaning/internal/domain/user"
	"github.com/CleanNest/service-cleaning/internal/events"
	"github.com/CleanNest/service-cleaning/internal/hub"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusNotifier receives transition events for live subscribers. Satisfied
// by *hub.Hub.
type StatusNotifier interface {
	Publish(evt hub.StatusUpdate)
}

// EventPublisher emits integration events to the message broker. Satisfied by
// *events.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, ce events.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	TimeSlot  string    `json:"time_slot" binding:"required"`
	Address   string    `json:"address" binding:"required"`
	City      string    `json:"city" binding:"required"`
	Notes     string    `json:"notes"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID  `json:"id"`
	BookingNumber   string     `json:"booking_number"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	CleanerID       *uuid.UUID `json:"cleaner_id,omitempty"`
	ServiceID       uuid.UUID  `json:"service_id"`
	Status          string     `json:"status"`
	Date            time.Time  `json:"date"`
	TimeSlot        string     `json:"time_slot"`
	Address         string     `json:"address"`
	City            string     `json:"city"`
	Notes           string     `json:"notes,omitempty"`
	TotalPriceCents int64      `json:"total_price_cents"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	AllowedNext     []string   `json:"allowed_next"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BookingService is the lifecycle engine orchestrating booking use cases.
// Transition requests against the same booking are serialized; different
// bookings proceed in parallel.
type BookingService struct {
	repo        bookingDomain.BookingRepository
	userRepo    userDomain.UserRepository
	serviceRepo serviceDomain.ServiceRepository
	notifier    StatusNotifier
	producer    EventPublisher
	source      string
	locks       *bookingLocker
	logger      *zap.Logger
}

// NewBookingService creates a new BookingService. The source string
// identifies this service instance on emitted integration events.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	userRepo userDomain.UserRepository,
	serviceRepo serviceDomain.ServiceRepository,
	notifier StatusNotifier,
	producer EventPublisher,
	source string,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:        repo,
		userRepo:    userRepo,
		serviceRepo: serviceRepo,
		notifier:    notifier,
		producer:    producer,
		source:      source,
		locks:       newBookingLocker(),
		logger:      logger,
	}
}

// CreateBooking creates a new PENDING booking for the customer. The price is
// copied from the catalog service and fixed for the booking's lifetime.
func (s *BookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	svc, err := s.serviceRepo.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, domain.NewValidationError("service is no longer offered")
	}

	bk, err := bookingDomain.NewBooking(
		customerID,
		svc.ID,
		req.Date,
		req.TimeSlot,
		req.Address,
		req.City,
		req.Notes,
		svc.PriceCents,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, domain.NewPersistenceError(err)
	}

	evt := events.BookingCreatedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		CustomerID:    bk.CustomerID(),
		ServiceID:     bk.ServiceID(),
		City:          bk.City(),
		TotalPrice:    bk.TotalPriceCents(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingCreated, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// RequestTransition moves a booking to the requested status on behalf of the
// actor. Transition-table membership and authorization are both checked
// before any mutation; the persistence write commits the change, and a
// best-effort broadcast follows. A persistence failure aborts with no partial
// state and no broadcast.
func (s *BookingService) RequestTransition(ctx context.Context, bookingID uuid.UUID, target bookingDomain.BookingStatus, actor bookingDomain.Actor) (*BookingDTO, error) {
	unlock := s.locks.Lock(bookingID)
	defer unlock()

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	previous := bk.Status()
	if !previous.CanTransitionTo(target) {
		return nil, domain.NewInvalidTransitionError(string(previous), string(target))
	}
	if !bookingDomain.MayTransition(actor, bk, target) {
		return nil, domain.NewForbiddenError("not allowed to update this booking")
	}

	if err := bk.TransitionTo(target); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewPersistenceError(err)
	}

	s.notifyStatusChange(ctx, bk, previous, actor.ID)

	result := toBookingDTO(bk)
	return &result, nil
}

// AssignCleaner sets the cleaner on a PENDING booking and confirms it as one
// commit. Only admins may assign, and the cleaner must be available.
func (s *BookingService) AssignCleaner(ctx context.Context, bookingID, cleanerID uuid.UUID, actor bookingDomain.Actor) (*BookingDTO, error) {
	if actor.Role != userDomain.RoleAdmin {
		return nil, domain.NewForbiddenError("only admins can assign cleaners")
	}

	unlock := s.locks.Lock(bookingID)
	defer unlock()

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	cleaner, err := s.userRepo.FindByID(ctx, cleanerID)
	if err != nil {
		return nil, err
	}
	if cleaner.Role() != userDomain.RoleCleaner {
		return nil, domain.NewNotFoundError("Cleaner", cleanerID.String())
	}
	if !cleaner.IsAvailableCleaner() {
		return nil, domain.NewCleanerUnavailableError(cleanerID.String())
	}

	previous := bk.Status()
	if err := bk.AssignCleaner(cleanerID); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewPersistenceError(err)
	}

	s.notifier.Publish(hub.StatusUpdate{
		BookingID: bk.ID(),
		Status:    string(bk.Status()),
		Message:   "A cleaner has been assigned to your booking",
	})

	evt := events.CleanerAssignedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		CleanerID:     cleanerID,
		CustomerID:    bk.CustomerID(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingCleanerAssigned, bk.ID().String(), evt)

	s.logger.Info("cleaner assigned",
		zap.String("booking_id", bk.ID().String()),
		zap.String("cleaner_id", cleanerID.String()),
		zap.String("previous_status", string(previous)),
	)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking, visible to its customer, its
// assigned cleaner, and admins.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID, actor bookingDomain.Actor) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	allowed := actor.Role == userDomain.RoleAdmin ||
		bk.CustomerID() == actor.ID ||
		(bk.CleanerID() != nil && *bk.CleanerID() == actor.ID)
	if !allowed {
		return nil, domain.NewForbiddenError("not allowed to access this booking")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetCustomerBookings retrieves paginated bookings for a specific customer.
func (s *BookingService) GetCustomerBookings(ctx context.Context, customerID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByCustomerID(ctx, customerID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetCleanerBookings retrieves paginated bookings assigned to a cleaner.
func (s *BookingService) GetCleanerBookings(ctx context.Context, cleanerID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByCleanerID(ctx, cleanerID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// --- Admin stats ---

// AdminStatsDTO holds dashboard statistics.
type AdminStatsDTO struct {
	TotalUsers        int64            `json:"total_users"`
	TotalCleaners     int64            `json:"total_cleaners"`
	TotalBookings     int64            `json:"total_bookings"`
	PendingBookings   int64            `json:"pending_bookings"`
	CompletedBookings int64            `json:"completed_bookings"`
	TotalRevenueCents int64            `json:"total_revenue_cents"`
	ByStatus          map[string]int64 `json:"by_status"`
}

// GetStats returns aggregate statistics for the admin dashboard.
func (s *BookingService) GetStats(ctx context.Context) (*AdminStatsDTO, error) {
	statusCounts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	roleCounts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	revenue, err := s.repo.SumCompletedRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue stats: %w", err)
	}

	var totalBookings, totalUsers int64
	for _, c := range statusCounts {
		totalBookings += c
	}
	for _, c := range roleCounts {
		totalUsers += c
	}

	return &AdminStatsDTO{
		TotalUsers:        totalUsers,
		TotalCleaners:     roleCounts[string(userDomain.RoleCleaner)],
		TotalBookings:     totalBookings,
		PendingBookings:   statusCounts[string(bookingDomain.StatusPending)],
		CompletedBookings: statusCounts[string(bookingDomain.StatusCompleted)],
		TotalRevenueCents: revenue,
		ByStatus:          statusCounts,
	}, nil
}

// --- Helpers ---

// notifyStatusChange pushes the transition to live subscribers and emits the
// integration event. Both are best-effort: the transition has already
// committed, so failures are logged and swallowed.
func (s *BookingService) notifyStatusChange(ctx context.Context, bk *bookingDomain.Booking, previous bookingDomain.BookingStatus, actorID uuid.UUID) {
	s.notifier.Publish(hub.StatusUpdate{
		BookingID: bk.ID(),
		Status:    string(bk.Status()),
		Message:   fmt.Sprintf("Booking status updated to %s", bk.Status()),
	})

	evt := events.BookingStatusChangedEvent{
		BookingID:      bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		PreviousStatus: string(previous),
		Status:         string(bk.Status()),
		Message:        fmt.Sprintf("Booking status updated to %s", bk.Status()),
		ActorID:        actorID,
		OccurredAt:     time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingStatusChanged, bk.ID().String(), evt)
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	ce, err := events.NewCloudEvent(s.source, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, key, ce); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	next := bk.Status().AllowedNext()
	allowedNext := make([]string, len(next))
	for i, s := range next {
		allowedNext[i] = string(s)
	}

	return BookingDTO{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		CustomerID:      bk.CustomerID(),
		CleanerID:       bk.CleanerID(),
		ServiceID:       bk.ServiceID(),
		Status:          string(bk.Status()),
		Date:            bk.Date(),
		TimeSlot:        bk.TimeSlot(),
		Address:         bk.Address(),
		City:            bk.City(),
		Notes:           bk.Notes(),
		TotalPriceCents: bk.TotalPriceCents(),
		StartedAt:       bk.StartedAt(),
		CompletedAt:     bk.CompletedAt(),
		CancelledAt:     bk.CancelledAt(),
		AllowedNext:     allowedNext,
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
