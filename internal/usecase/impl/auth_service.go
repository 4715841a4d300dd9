// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	deliverycontext "erpcore/internal/delivery/context"
	"erpcore/internal/domain/authz"
	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/domain/repository"
	"erpcore/internal/domain/service"
	"erpcore/internal/usecase"
	"erpcore/internal/util"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	hasher       service.PasswordHasher
	tokenService service.TokenService
	rateLimiter  service.LoginRateLimiter
	logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(
	txManager repository.TransactionManager,
	hasher service.PasswordHasher,
	tokenService service.TokenService,
	rateLimiter service.LoginRateLimiter,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		txManager:    txManager,
		hasher:       hasher,
		tokenService: tokenService,
		rateLimiter:  rateLimiter,
		logger:       logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup registers the very first user as system admin. After that, public
// signup is closed and accounts come from admin endpoints.
func (srv *authService) Signup(ctx context.Context, input usecase.SignupInput) (*usecase.LoginOutput, error) {
	normalizedPhone := util.NormalizePhoneNumber(input.PhoneNumber)
	srv.log(ctx).Info("Starting signup", slog.String("phone", util.MaskPhoneNumber(normalizedPhone)))

	if err := srv.hasher.ValidateStrength(input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	var output *usecase.LoginOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		// 1. The phone number must be unused.
		exists, err := userRepo.ExistsByPhone(ctx, normalizedPhone)
		if err != nil {
			return errors.Wrap(err, "failed to check phone existence")
		}
		if exists {
			return domainerrors.ErrPhoneAlreadyExists
		}

		// 2. Only the first account may self-register.
		count, err := userRepo.Count(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to count users")
		}
		if count > 0 {
			return domainerrors.ErrValidationFailed.WithDetails(
				"public signup is disabled, contact the system administrator")
		}

		// 3. The bootstrap user is the system admin and carries no company.
		newUser := &entity.User{
			PhoneNumber:  normalizedPhone,
			Name:         input.Name,
			PasswordHash: hashedPassword,
			Role:         entity.RoleSystemAdmin,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.WithStack(err)
		}

		tokens, err := srv.issueTokenPair(ctx, repoFactory, newUser)
		if err != nil {
			return err
		}

		output = &usecase.LoginOutput{User: newUser, Tokens: tokens}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Signup failed", slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Bootstrap system admin created", slog.Any("userID", output.User.ID))

	return output, nil
}

// Login authenticates by phone and password. The failure modes before the
// active check are indistinguishable on purpose: an unknown phone and a
// wrong password both come back as invalid credentials.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	normalizedPhone := util.NormalizePhoneNumber(input.PhoneNumber)
	srv.log(ctx).Debug("Login attempt", slog.String("phone", util.MaskPhoneNumber(normalizedPhone)))

	// Throttle before touching the database.
	if err := srv.rateLimiter.Check(normalizedPhone); err != nil {
		return nil, err
	}

	var output *usecase.LoginOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		tokenRepo := repoFactory.NewRefreshTokenRepository()

		user, err := userRepo.FindByPhone(ctx, normalizedPhone)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidCredentials
			}

			return errors.Wrap(err, "failed to find user by phone")
		}

		if !srv.hasher.Check(input.Password, user.PasswordHash) {
			return domainerrors.ErrInvalidCredentials
		}

		if !user.IsActive {
			return domainerrors.ErrAccountDeactivated
		}

		// Credentials verified: the handle starts with a clean slate.
		srv.rateLimiter.Reset(normalizedPhone)

		// Single active session policy: older sessions die on login.
		if err := tokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
			return errors.Wrap(err, "failed to revoke existing sessions")
		}

		tokens, err := srv.issueTokenPair(ctx, repoFactory, user)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
			return errors.Wrap(err, "failed to update last login")
		}
		user.LastLoginAt = &now

		output = &usecase.LoginOutput{User: user, Tokens: tokens}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("phone", util.MaskPhoneNumber(normalizedPhone)), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Login successful", slog.Any("userID", output.User.ID))

	return output, nil
}

// Refresh rotates a refresh token. The stored row is revoked before the new
// pair is issued, so each token works exactly once even under concurrent use.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPairOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	var tokens *usecase.TokenPairOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		tokenRepo := repoFactory.NewRefreshTokenRepository()

		stored, err := tokenRepo.FindActiveByTokenID(ctx, claims.TokenID)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return domainerrors.NewInvalidTokenError("token not found or revoked")
			}

			return errors.Wrap(err, "failed to find refresh token")
		}

		// The lookup already filters on expiry; this guards clock skew
		// between the query and now.
		if stored.IsExpired(time.Now()) {
			return domainerrors.NewInvalidTokenError("token expired")
		}

		user, err := userRepo.FindByID(ctx, stored.UserID)
		if err != nil || !user.IsActive {
			return domainerrors.ErrUserNotFound
		}

		// One-time use: the conditional revoke decides the winner among
		// concurrent refresh attempts.
		if err := tokenRepo.Revoke(ctx, claims.TokenID); err != nil {
			if errors.Is(err, repository.ErrRefreshTokenAlreadyRevoked) {
				return domainerrors.NewInvalidTokenError("token already used")
			}

			return errors.Wrap(err, "failed to revoke refresh token")
		}

		tokens, err = srv.issueTokenPair(ctx, repoFactory, user)

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Token refresh failed", slog.Any("error", err))

		return nil, err
	}

	return tokens, nil
}

// Logout revokes the session behind the refresh token. Every failure is
// swallowed: an invalid, expired or already revoked token leaves the caller
// logged out either way.
func (srv *authService) Logout(ctx context.Context, refreshToken string) {
	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		srv.log(ctx).Debug("Logout with invalid token", slog.Any("error", err))

		return
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.NewRefreshTokenRepository().Revoke(ctx, claims.TokenID)
	})
	if err != nil {
		srv.log(ctx).Debug("Logout revoke skipped", slog.Any("error", err))
	}
}

// ResolveAccessToken validates a bearer token and loads the live user with
// their permissions and tenant visibility. Claims are only a hint; the user
// and company state come fresh from the database.
func (srv *authService) ResolveAccessToken(ctx context.Context, accessToken string) (*usecase.AuthContext, error) {
	claims, err := srv.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	var authCtx *usecase.AuthContext

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.NewUserRepository().FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load user")
		}

		if !user.IsActive {
			return domainerrors.ErrAccountDeactivated
		}

		var company *entity.Company
		if user.CompanyID != nil {
			company, err = repoFactory.NewCompanyRepository().FindByID(ctx, *user.CompanyID)
			if err != nil {
				if errors.Is(err, repository.ErrCompanyNotFound) {
					return domainerrors.ErrTenantConfiguration.WithDetails(
						"user references a company that does not exist")
				}

				return errors.Wrap(err, "failed to load company")
			}
		}

		companyCtx, err := authz.NewCompanyContext(user)
		if err != nil {
			return err
		}

		authCtx = &usecase.AuthContext{
			User:           user,
			Company:        company,
			Authorizer:     authz.NewAuthorizer(user, company),
			CompanyContext: companyCtx,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return authCtx, nil
}

// issueTokenPair generates an access and refresh token for the user and
// stores the refresh token's digest within the current transaction.
func (srv *authService) issueTokenPair(ctx context.Context, repoFactory repository.RepositoryFactory, user *entity.User) (*usecase.TokenPairOutput, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	refreshToken, tokenID, err := srv.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	record := &entity.RefreshToken{
		UserID:    user.ID,
		TokenID:   tokenID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := repoFactory.NewRefreshTokenRepository().Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	return &usecase.TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(srv.tokenService.GetAccessTokenDuration().Seconds()),
	}, nil
}
