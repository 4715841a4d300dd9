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
	"erpcore/internal/domain/service"
	"erpcore/internal/usecase"
	"erpcore/internal/util"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(
	txManager repository.TransactionManager,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		txManager: txManager,
		hasher:    hasher,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateUser creates an account inside a company. Only the system admin may
// create users, and every non-admin role must land in an existing company.
func (srv *userService) CreateUser(ctx context.Context, actor *usecase.AuthContext, input usecase.CreateUserInput) (*entity.User, error) {
	if !actor.Authorizer.HasPermission(entity.PermCreateUsers) {
		return nil, domainerrors.ErrForbidden
	}

	if !input.Role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown role: " + string(input.Role))
	}
	// The role/company invariant holds in both directions: non-admins always
	// live in a company, system admins never do.
	if input.Role.RequiresCompany() && input.CompanyID == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("role " + input.Role.String() + " requires a company")
	}
	if !input.Role.RequiresCompany() && input.CompanyID != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("system admin cannot belong to a company")
	}

	if err := srv.hasher.ValidateStrength(input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	normalizedPhone := util.NormalizePhoneNumber(input.PhoneNumber)

	var created *entity.User

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		exists, err := userRepo.ExistsByPhone(ctx, normalizedPhone)
		if err != nil {
			return errors.Wrap(err, "failed to check phone existence")
		}
		if exists {
			return domainerrors.ErrPhoneAlreadyExists
		}

		if input.CompanyID != nil {
			if _, err := repoFactory.NewCompanyRepository().FindByID(ctx, *input.CompanyID); err != nil {
				if errors.Is(err, repository.ErrCompanyNotFound) {
					return domainerrors.ErrCompanyNotFound
				}

				return errors.Wrap(err, "failed to load company")
			}
		}

		newUser := &entity.User{
			PhoneNumber:  normalizedPhone,
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: hashedPassword,
			CompanyID:    input.CompanyID,
			Role:         input.Role,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.WithStack(err)
		}
		created = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create user", slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("User created", slog.Any("userID", created.ID), slog.String("role", created.Role.String()))

	return created, nil
}

// GetUser loads one user. Regular users may look at members of their own
// company and nobody else.
func (srv *userService) GetUser(ctx context.Context, actor *usecase.AuthContext, id uuid.UUID) (*entity.User, error) {
	if !actor.Authorizer.HasPermission(entity.PermViewUsers) && actor.User.ID != id {
		return nil, domainerrors.ErrForbidden
	}

	var found *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.NewUserRepository().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		// Looking at yourself is always allowed; anyone else must share
		// your company.
		if actor.User.ID != id {
			if err := actor.CompanyContext.EnsureAccess(user.CompanyID); err != nil {
				srv.log(ctx).Warn("Cross-tenant user access denied",
					slog.Any("actorID", actor.User.ID),
					slog.Any("targetUserID", id))

				return err
			}
		}
		found = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// ListUsers returns a page of users visible to the actor. System admins see
// all users; everyone else sees their own company.
func (srv *userService) ListUsers(ctx context.Context, actor *usecase.AuthContext, input usecase.ListUsersInput) (*usecase.UserListOutput, error) {
	if !actor.Authorizer.HasPermission(entity.PermViewUsers) {
		return nil, domainerrors.ErrForbidden
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var output *usecase.UserListOutput

	// Tenant isolation happens at the query: the scope comes from the
	// actor's context, never from the request.
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		users, total, err := repoFactory.NewUserRepository().List(ctx, actor.CompanyContext, input.Offset, limit)
		if err != nil {
			return errors.Wrap(err, "failed to list users")
		}
		output = &usecase.UserListOutput{Users: users, Total: total}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// UpdateUser modifies a user's profile, role or active flag.
func (srv *userService) UpdateUser(ctx context.Context, actor *usecase.AuthContext, id uuid.UUID, input usecase.UpdateUserInput) (*entity.User, error) {
	if !actor.Authorizer.HasPermission(entity.PermEditUsers) {
		return nil, domainerrors.ErrForbidden
	}
	if input.Role != nil && !input.Role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown role: " + string(*input.Role))
	}
	// Role changes reshape authority, so they stay with the system admin.
	if input.Role != nil && !actor.Authorizer.IsSystemAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	var updated *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if err := actor.CompanyContext.EnsureAccess(user.CompanyID); err != nil {
			srv.log(ctx).Warn("Cross-tenant user update denied",
				slog.Any("actorID", actor.User.ID),
				slog.Any("targetUserID", id))

			return err
		}

		// A company member can never become system admin: the admin role
		// carries no company, and the user still has one.
		if input.Role != nil && !input.Role.RequiresCompany() && user.CompanyID != nil {
			return domainerrors.ErrValidationFailed.WithDetails(
				"cannot change role to system admin while the user belongs to a company")
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Email != nil {
			user.Email = *input.Email
		}
		if input.Role != nil {
			user.Role = *input.Role
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.WithStack(err)
		}

		// Deactivation ends the user's sessions immediately.
		if input.IsActive != nil && !*input.IsActive {
			if err := repoFactory.NewRefreshTokenRepository().RevokeAllForUser(ctx, user.ID); err != nil {
				return errors.Wrap(err, "failed to revoke sessions of deactivated user")
			}
		}
		updated = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update user", slog.Any("error", err), slog.Any("userID", id))

		return nil, err
	}
	srv.log(ctx).Info("User updated", slog.Any("userID", updated.ID))

	return updated, nil
}

// DeleteUser removes a user and their sessions. System admin only.
func (srv *userService) DeleteUser(ctx context.Context, actor *usecase.AuthContext, id uuid.UUID) error {
	if !actor.Authorizer.HasPermission(entity.PermDeleteUsers) {
		return domainerrors.ErrForbidden
	}
	if actor.User.ID == id {
		return domainerrors.ErrValidationFailed.WithDetails("cannot delete your own account")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		if _, err := userRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if err := repoFactory.NewRefreshTokenRepository().DeleteAllForUser(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete user sessions")
		}

		return errors.WithStack(userRepo.Delete(ctx, id))
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete user", slog.Any("error", err), slog.Any("userID", id))

		return err
	}
	srv.log(ctx).Info("User deleted", slog.Any("userID", id))

	return nil
}

// ChangePassword rotates the actor's own password and ends all their
// sessions, forcing a fresh login everywhere.
func (srv *userService) ChangePassword(ctx context.Context, actor *usecase.AuthContext, input usecase.ChangePasswordInput) error {
	if !srv.hasher.Check(input.CurrentPassword, actor.User.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}

	if err := srv.hasher.ValidateStrength(input.NewPassword); err != nil {
		return err
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewUserRepository().UpdatePassword(ctx, actor.User.ID, hashedPassword); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		return errors.Wrap(
			repoFactory.NewRefreshTokenRepository().RevokeAllForUser(ctx, actor.User.ID),
			"failed to revoke sessions after password change",
		)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to change password", slog.Any("error", err), slog.Any("userID", actor.User.ID))

		return err
	}
	srv.log(ctx).Info("Password changed", slog.Any("userID", actor.User.ID))

	return nil
}
