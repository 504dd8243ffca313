package application

import (
	"context"
	"errors"
	"time"

	"github.com/CleanNest/service-cleaning/internal/auth"
	"github.com/CleanNest/service-cleaning/internal/domain"
	userDomain "github.com/CleanNest/service-cleaning/internal/domain/user"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// RegisterRequest holds the data needed to create an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID        uuid.UUID                  `json:"id"`
	Email     string                     `json:"email"`
	Name      string                     `json:"name"`
	Phone     string                     `json:"phone,omitempty"`
	Role      string                     `json:"role"`
	Profile   *userDomain.CleanerProfile `json:"cleaner_profile,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
}

// UserService handles accounts: registration, login, and cleaner profiles.
type UserService struct {
	repo       userDomain.UserRepository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo userDomain.UserRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, jwtManager: jwtManager, logger: logger}
}

// Register creates a new account. Cleaner registrations start with an
// available profile; admin accounts cannot be self-registered.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	role := userDomain.RoleCustomer
	if req.Role != "" {
		parsed, err := userDomain.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		if parsed == userDomain.RoleAdmin {
			return nil, domain.NewForbiddenError("cannot register an admin account")
		}
		role = parsed
	}

	if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, domain.NewValidationError("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, domain.NewValidationError("invalid password")
	}

	u, err := userDomain.NewUser(req.Email, req.Name, req.Phone, string(hash), role)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, domain.NewPersistenceError(err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID().String()),
		zap.String("role", string(u.Role())),
	)

	result := toUserDTO(u)
	return &result, nil
}

// Login verifies credentials and issues a token pair.
func (s *UserService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.CodeNotFound {
			return nil, domain.NewForbiddenError("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)); err != nil {
		return nil, domain.NewForbiddenError("invalid email or password")
	}

	return s.jwtManager.GenerateTokenPair(u.ID(), u.Role())
}

// GetCleanerProfile returns the cleaner's own profile.
func (s *UserService) GetCleanerProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role() != userDomain.RoleCleaner || u.Profile() == nil {
		return nil, domain.NewNotFoundError("CleanerProfile", userID.String())
	}
	result := toUserDTO(u)
	return &result, nil
}

// UpdateCleanerProfileRequest holds the mutable cleaner profile fields.
type UpdateCleanerProfileRequest struct {
	Bio             string `json:"bio"`
	ExperienceYears int    `json:"experience_years"`
	IsAvailable     bool   `json:"is_available"`
}

// UpdateCleanerProfile updates the cleaner's own profile, including the
// availability flag consulted during assignment.
func (s *UserService) UpdateCleanerProfile(ctx context.Context, userID uuid.UUID, req UpdateCleanerProfileRequest) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := u.UpdateProfile(req.Bio, req.ExperienceYears, req.IsAvailable); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, domain.NewPersistenceError(err)
	}

	result := toUserDTO(u)
	return &result, nil
}

// ListUsers returns a paginated list of all users (admin).
func (s *UserService) ListUsers(ctx context.Context, page, limit int) ([]UserDTO, int64, error) {
	users, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, total, nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
		Phone:     u.Phone(),
		Role:      string(u.Role()),
		Profile:   u.Profile(),
		CreatedAt: u.CreatedAt(),
	}
}
