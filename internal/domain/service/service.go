package service

import (
	"context"

	"github.com/google/uuid"
)

// Service is a read-only reference to a catalog offering. Bookings copy its
// price at creation time; catalog management lives elsewhere.
type Service struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	DurationMin int       `json:"duration_min"`
	Active      bool      `json:"active"`
}

// ServiceRepository defines the read contract for catalog services.
type ServiceRepository interface {
	// FindByID retrieves a service by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Service, error)
}
