package user

import (
	"time"

	"github.com/CleanNest/service-cleaning/internal/domain"
	"github.com/google/uuid"
)

// Role identifies what a user is allowed to do in the system.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleCleaner  Role = "CLEANER"
	RoleAdmin    Role = "ADMIN"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleCleaner, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a string to a Role, returning an error if invalid.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", domain.NewValidationError("invalid role: " + s)
	}
	return role, nil
}

// CleanerProfile holds cleaner-specific attributes. IsAvailable is the
// precondition for cleaner assignment.
type CleanerProfile struct {
	Bio             string  `json:"bio"`
	ExperienceYears int     `json:"experience_years"`
	Rating          float64 `json:"rating"`
	IsAvailable     bool    `json:"is_available"`
}

// User is the aggregate root for accounts. Cleaner accounts carry a profile.
type User struct {
	id           uuid.UUID
	email        string
	name         string
	phone        string
	passwordHash string
	role         Role
	profile      *CleanerProfile
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new User. Cleaner accounts start with an available profile.
func NewUser(email, name, phone, passwordHash string, role Role) (*User, error) {
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password hash is required")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("invalid role: " + string(role))
	}

	var profile *CleanerProfile
	if role == RoleCleaner {
		profile = &CleanerProfile{IsAvailable: true}
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		email:        email,
		name:         name,
		phone:        phone,
		passwordHash: passwordHash,
		role:         role,
		profile:      profile,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructUser rebuilds a User from persistence data (no validation).
func ReconstructUser(
	id uuid.UUID,
	email, name, phone, passwordHash string,
	role Role,
	profile *CleanerProfile,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		name:         name,
		phone:        phone,
		passwordHash: passwordHash,
		role:         role,
		profile:      profile,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the user's unique identifier.
func (u *User) ID() uuid.UUID { return u.id }

// Email returns the user's email address.
func (u *User) Email() string { return u.email }

// Name returns the user's display name.
func (u *User) Name() string { return u.name }

// Phone returns the user's phone number.
func (u *User) Phone() string { return u.phone }

// PasswordHash returns the bcrypt hash of the user's password.
func (u *User) PasswordHash() string { return u.passwordHash }

// Role returns the user's role.
func (u *User) Role() Role { return u.role }

// Profile returns the cleaner profile, or nil for non-cleaner accounts.
func (u *User) Profile() *CleanerProfile { return u.profile }

// CreatedAt returns the creation timestamp.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// IsAvailableCleaner returns true if this user is a cleaner able to take jobs.
func (u *User) IsAvailableCleaner() bool {
	return u.role == RoleCleaner && u.profile != nil && u.profile.IsAvailable
}

// UpdateProfile replaces the cleaner profile attributes.
func (u *User) UpdateProfile(bio string, experienceYears int, isAvailable bool) error {
	if u.role != RoleCleaner || u.profile == nil {
		return domain.NewValidationError("user has no cleaner profile")
	}
	u.profile.Bio = bio
	u.profile.ExperienceYears = experienceYears
	u.profile.IsAvailable = isAvailable
	u.updatedAt = time.Now().UTC()
	return nil
}
