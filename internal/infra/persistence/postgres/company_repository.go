package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/domain/repository"
	"erpcore/internal/infra/persistence/model"
)

// companyRepository implements the domain.CompanyRepository interface using GORM.
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository is the constructor for companyRepository.
func NewCompanyRepository(db *gorm.DB) repository.CompanyRepository {
	return &companyRepository{db: db}
}

// FindByID retrieves a single company by its unique ID.
func (repo *companyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	var companyM model.CompanyModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&companyM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCompanyNotFound
		}

		return nil, errors.Wrap(err, "failed to find company by id")
	}

	return toCompanyDomain(&companyM), nil
}

// FindByName retrieves a single company by its exact name.
func (repo *companyRepository) FindByName(ctx context.Context, name string) (*entity.Company, error) {
	var companyM model.CompanyModel
	if err := repo.db.WithContext(ctx).Where("name = ?", name).First(&companyM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCompanyNotFound
		}

		return nil, errors.Wrap(err, "failed to find company by name")
	}

	return toCompanyDomain(&companyM), nil
}

// Create persists a new company entity to the database.
func (repo *companyRepository) Create(ctx context.Context, company *entity.Company) error {
	companyM := fromCompanyDomain(company)

	if err := repo.db.WithContext(ctx).Create(companyM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCompanyAlreadyExists.WrapMessage("company name already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create company")
	}

	company.ID = companyM.ID
	company.CreatedAt = companyM.CreatedAt
	company.UpdatedAt = companyM.UpdatedAt

	return nil
}

// Update modifies an existing company entity in the database.
func (repo *companyRepository) Update(ctx context.Context, company *entity.Company) error {
	companyM := fromCompanyDomain(company)

	if err := repo.db.WithContext(ctx).Save(companyM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCompanyAlreadyExists.WrapMessage("company name already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update company")
	}

	company.UpdatedAt = companyM.UpdatedAt

	return nil
}

// Delete removes a company by ID.
func (repo *companyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CompanyModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete company")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCompanyNotFound
	}

	return nil
}

// List returns a page of companies ordered by creation time.
func (repo *companyRepository) List(ctx context.Context, offset, limit int) ([]*entity.Company, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&model.CompanyModel{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count companies")
	}

	var models []model.CompanyModel
	if err := repo.db.WithContext(ctx).Model(&model.CompanyModel{}).
		Order("created_at").Offset(offset).Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list companies")
	}

	companies := make([]*entity.Company, 0, len(models))
	for i := range models {
		companies = append(companies, toCompanyDomain(&models[i]))
	}

	return companies, total, nil
}

// --- Mapper Functions ---

// toCompanyDomain converts a GORM CompanyModel to a domain Company entity.
func toCompanyDomain(data *model.CompanyModel) *entity.Company {
	if data == nil {
		return nil
	}

	return &entity.Company{
		ID:        data.ID,
		Name:      data.Name,
		IsActive:  data.IsActive,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromCompanyDomain converts a domain Company entity to a GORM CompanyModel.
func fromCompanyDomain(data *entity.Company) *model.CompanyModel {
	if data == nil {
		return nil
	}

	return &model.CompanyModel{
		ID:        data.ID,
		Name:      data.Name,
		IsActive:  data.IsActive,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
