package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/CleanNest/service-cleaning/internal/domain"
	userDomain "github.com/CleanNest/service-cleaning/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is the GORM model for the users table. The cleaner profile is
// stored as jsonb and is null for non-cleaner accounts.
type UserModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email          string          `gorm:"uniqueIndex;not null;size:255"`
	Name           string          `gorm:"not null;size:255"`
	Phone          string          `gorm:"size:50"`
	PasswordHash   string          `gorm:"not null;size:255"`
	Role           string          `gorm:"not null;size:20;index"`
	CleanerProfile json.RawMessage `gorm:"type:jsonb"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID retrieves a user by its unique identifier.
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id.String())
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return toDomainUser(&model)
}

// FindByEmail retrieves a user by email address.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return toDomainUser(&model)
}

// ListAll retrieves all users with pagination (admin).
func (r *GormUserRepository) ListAll(ctx context.Context, page, limit int) ([]*userDomain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var models []UserModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*userDomain.User, len(models))
	for i, m := range models {
		u, err := toDomainUser(&m)
		if err != nil {
			return nil, 0, err
		}
		users[i] = u
	}
	return users, total, nil
}

// CountByRole returns user counts grouped by role (admin).
func (r *GormUserRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	type roleCount struct {
		Role  string
		Count int64
	}
	var results []roleCount
	if err := r.db.WithContext(ctx).Model(&UserModel{}).
		Select("role, count(*) as count").
		Group("role").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by role: %w", err)
	}

	counts := make(map[string]int64)
	for _, rc := range results {
		counts[rc.Role] = rc.Count
	}
	return counts, nil
}

// Save persists a new user.
func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	model, err := toUserModel(u)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Update persists changes to an existing user.
func (r *GormUserRepository) Update(ctx context.Context, u *userDomain.User) error {
	model, err := toUserModel(u)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":            model.Name,
			"phone":           model.Phone,
			"cleaner_profile": model.CleanerProfile,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("User", model.ID.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toUserModel(u *userDomain.User) (*UserModel, error) {
	var profileJSON json.RawMessage
	if u.Profile() != nil {
		data, err := json.Marshal(u.Profile())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cleaner profile: %w", err)
		}
		profileJSON = data
	}

	return &UserModel{
		ID:             u.ID(),
		Email:          u.Email(),
		Name:           u.Name(),
		Phone:          u.Phone(),
		PasswordHash:   u.PasswordHash(),
		Role:           string(u.Role()),
		CleanerProfile: profileJSON,
		CreatedAt:      u.CreatedAt(),
		UpdatedAt:      u.UpdatedAt(),
	}, nil
}

func toDomainUser(m *UserModel) (*userDomain.User, error) {
	role, err := userDomain.ParseRole(m.Role)
	if err != nil {
		return nil, err
	}

	var profile *userDomain.CleanerProfile
	if len(m.CleanerProfile) > 0 {
		var p userDomain.CleanerProfile
		if err := json.Unmarshal(m.CleanerProfile, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cleaner profile: %w", err)
		}
		profile = &p
	}

	return userDomain.ReconstructUser(
		m.ID,
		m.Email,
		m.Name,
		m.Phone,
		m.PasswordHash,
		role,
		profile,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
