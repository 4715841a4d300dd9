package usecase

import (
	"context"

	"github.com/google/uuid"

	"erpcore/internal/domain/entity"
)

// --- Input DTOs ---

// CreateCompanyInput defines the data required to create a company.
type CreateCompanyInput struct {
	Name string
}

// UpdateCompanyInput defines the mutable fields of a company. Nil pointers
// leave the current value untouched.
type UpdateCompanyInput struct {
	Name     *string
	IsActive *bool
}

// ListCompaniesInput defines paging for company listings.
type ListCompaniesInput struct {
	Offset int
	Limit  int
}

// --- Output DTOs ---

// CompanyListOutput returns one page of companies with the total count.
type CompanyListOutput struct {
	Companies []*entity.Company
	Total     int64
}

// CompanyUsecase defines the interface for company (tenant) management.
// Creating, updating and deleting companies is system admin territory;
// regular users may only read their own company.
type CompanyUsecase interface {
	// CreateCompany registers a new tenant. System admin only.
	CreateCompany(ctx context.Context, actor *AuthContext, input CreateCompanyInput) (*entity.Company, error)

	// GetCompany loads one company, enforcing tenant visibility.
	GetCompany(ctx context.Context, actor *AuthContext, id uuid.UUID) (*entity.Company, error)

	// ListCompanies returns a page of companies. System admin only.
	ListCompanies(ctx context.Context, actor *AuthContext, input ListCompaniesInput) (*CompanyListOutput, error)

	// UpdateCompany renames or (de)activates a company. Deactivation
	// suspends every member's access. System admin only.
	UpdateCompany(ctx context.Context, actor *AuthContext, id uuid.UUID, input UpdateCompanyInput) (*entity.Company, error)

	// DeleteCompany removes a company. System admin only.
	DeleteCompany(ctx context.Context, actor *AuthContext, id uuid.UUID) error
}
