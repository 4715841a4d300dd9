package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	deliverycontext "erpcore/internal/delivery/context"
	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/domain/repository"
	"erpcore/internal/usecase"
)

// companyService implements the CompanyUsecase interface.
type companyService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewCompanyService is the constructor for companyService.
func NewCompanyService(txManager repository.TransactionManager, logger *slog.Logger) usecase.CompanyUsecase {
	return &companyService{
		txManager: txManager,
		logger:    logger,
	}
}

func (srv *companyService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateCompany registers a new tenant. System admin only.
func (srv *companyService) CreateCompany(ctx context.Context, actor *usecase.AuthContext, input usecase.CreateCompanyInput) (*entity.Company, error) {
	if !actor.Authorizer.HasPermission(entity.PermCreateCompanies) {
		return nil, domainerrors.ErrForbidden
	}
	if input.Name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("company name is required")
	}

	var created *entity.Company

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		companyRepo := repoFactory.NewCompanyRepository()

		if _, err := companyRepo.FindByName(ctx, input.Name); err == nil {
			return domainerrors.ErrCompanyAlreadyExists
		} else if !errors.Is(err, repository.ErrCompanyNotFound) {
			return errors.Wrap(err, "failed to check company name")
		}

		newCompany := &entity.Company{
			Name:     input.Name,
			IsActive: true,
		}
		if err := companyRepo.Create(ctx, newCompany); err != nil {
			return errors.WithStack(err)
		}
		created = newCompany

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create company", slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Company created", slog.Any("companyID", created.ID), slog.String("name", created.Name))

	return created, nil
}

// GetCompany loads one company. Regular users may only read their own.
func (srv *companyService) GetCompany(ctx context.Context, actor *usecase.AuthContext, id uuid.UUID) (*entity.Company, error) {
	if !actor.CompanyContext.IsSystemAdmin() {
		if err := actor.CompanyContext.EnsureAccess(&id); err != nil {
			srv.log(ctx).Warn("Cross-tenant company access denied",
				slog.Any("actorID", actor.User.ID),
				slog.Any("companyID", id))

			return nil, err
		}
	}

	var found *entity.Company

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		company, err := repoFactory.NewCompanyRepository().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrCompanyNotFound) {
				return domainerrors.ErrCompanyNotFound
			}

			return errors.Wrap(err, "failed to find company")
		}
		found = company

		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// ListCompanies returns a page of companies. System admin only.
func (srv *companyService) ListCompanies(ctx context.Context, actor *usecase.AuthContext, input usecase.ListCompaniesInput) (*usecase.CompanyListOutput, error) {
	if !actor.Authorizer.HasPermission(entity.PermViewCompanies) {
		return nil, domainerrors.ErrForbidden
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var output *usecase.CompanyListOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		companies, total, err := repoFactory.NewCompanyRepository().List(ctx, input.Offset, limit)
		if err != nil {
			return errors.Wrap(err, "failed to list companies")
		}
		output = &usecase.CompanyListOutput{Companies: companies, Total: total}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// UpdateCompany renames or (de)activates a company. System admin only.
func (srv *companyService) UpdateCompany(ctx context.Context, actor *usecase.AuthContext, id uuid.UUID, input usecase.UpdateCompanyInput) (*entity.Company, error) {
	if !actor.Authorizer.HasPermission(entity.PermEditCompanies) {
		return nil, domainerrors.ErrForbidden
	}

	var updated *entity.Company

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		companyRepo := repoFactory.NewCompanyRepository()

		company, err := companyRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrCompanyNotFound) {
				return domainerrors.ErrCompanyNotFound
			}

			return errors.Wrap(err, "failed to find company")
		}

		if input.Name != nil && *input.Name != company.Name {
			if _, err := companyRepo.FindByName(ctx, *input.Name); err == nil {
				return domainerrors.ErrCompanyAlreadyExists
			} else if !errors.Is(err, repository.ErrCompanyNotFound) {
				return errors.Wrap(err, "failed to check company name")
			}
			company.Name = *input.Name
		}
		if input.IsActive != nil {
			company.IsActive = *input.IsActive
		}

		if err := companyRepo.Update(ctx, company); err != nil {
			return errors.WithStack(err)
		}
		updated = company

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update company", slog.Any("error", err), slog.Any("companyID", id))

		return nil, err
	}
	srv.log(ctx).Info("Company updated", slog.Any("companyID", updated.ID))

	return updated, nil
}

// DeleteCompany removes a company. System admin only. Companies that still
// have members cannot be deleted.
func (srv *companyService) DeleteCompany(ctx context.Context, actor *usecase.AuthContext, id uuid.UUID) error {
	if !actor.Authorizer.HasPermission(entity.PermDeleteCompanies) {
		return domainerrors.ErrForbidden
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		companyRepo := repoFactory.NewCompanyRepository()

		if _, err := companyRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrCompanyNotFound) {
				return domainerrors.ErrCompanyNotFound
			}

			return errors.Wrap(err, "failed to find company")
		}

		members, err := repoFactory.NewUserRepository().CountByCompany(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to count company members")
		}
		if members > 0 {
			return domainerrors.ErrValidationFailed.WithDetails("company still has members")
		}

		return errors.WithStack(companyRepo.Delete(ctx, id))
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete company", slog.Any("error", err), slog.Any("companyID", id))

		return err
	}
	srv.log(ctx).Info("Company deleted", slog.Any("companyID", id))

	return nil
}
