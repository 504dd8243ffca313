package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/CleanNest/service-cleaning/internal/domain"
	serviceDomain "github.com/CleanNest/service-cleaning/internal/domain/service"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceModel is the GORM model for the services catalog table. This service
// only reads it; catalog management is owned elsewhere.
type ServiceModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null;size:255"`
	Category    string    `gorm:"not null;size:100"`
	PriceCents  int64     `gorm:"not null"`
	DurationMin int       `gorm:"not null"`
	Active      bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for the GORM model.
func (ServiceModel) TableName() string {
	return "services"
}

// GormServiceRepository is the GORM-based implementation of ServiceRepository.
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository.
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// FindByID retrieves a service by its unique identifier.
func (r *GormServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*serviceDomain.Service, error) {
	var model ServiceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Service", id.String())
		}
		return nil, fmt.Errorf("failed to find service by ID: %w", err)
	}

	return &serviceDomain.Service{
		ID:          model.ID,
		Name:        model.Name,
		Category:    model.Category,
		PriceCents:  model.PriceCents,
		DurationMin: model.DurationMin,
		Active:      model.Active,
	}, nil
}
