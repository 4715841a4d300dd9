package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"erpcore/internal/domain/entity"
)

// ErrCompanyNotFound is a domain-specific error returned when a company is not found.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepository defines the standard operations for company persistence.
type CompanyRepository interface {
	// FindByID retrieves a single company by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Company, error)

	// FindByName retrieves a single company by its exact name.
	FindByName(ctx context.Context, name string) (*entity.Company, error)

	// Create persists a new company entity to the storage.
	Create(ctx context.Context, company *entity.Company) error

	// Update modifies an existing company entity in the storage.
	Update(ctx context.Context, company *entity.Company) error

	// Delete removes a company by ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a page of companies ordered by creation time.
	List(ctx context.Context, offset, limit int) ([]*entity.Company, int64, error)
}
