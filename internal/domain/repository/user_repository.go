// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"erpcore/internal/domain/authz"
	"erpcore/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByPhone retrieves a single user by their normalized phone number.
	FindByPhone(ctx context.Context, phoneNumber string) (*entity.User, error)

	// ExistsByPhone reports whether a user with the normalized phone number exists.
	ExistsByPhone(ctx context.Context, phoneNumber string) (bool, error)

	// Count returns the total number of users in the system.
	Count(ctx context.Context) (int64, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// UpdateLastLogin stamps the user's last successful login time.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// UpdatePassword replaces the user's stored password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// Delete removes a user by ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a page of users ordered by creation time, narrowed to
	// whatever the caller's company context makes visible.
	List(ctx context.Context, scope *authz.CompanyContext, offset, limit int) ([]*entity.User, int64, error)

	// CountByCompany returns the number of users belonging to the company.
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
}
