package impl

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	deliverycontext "erpcore/internal/delivery/context"
	"erpcore/internal/domain/repository"
	"erpcore/internal/usecase"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(txManager repository.TransactionManager, logger *slog.Logger) usecase.SessionUsecase {
	return &sessionService{
		txManager: txManager,
		logger:    logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CleanupExpiredTokens deletes refresh token rows past their expiry.
func (srv *sessionService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	var deleted int64

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		count, err := repoFactory.NewRefreshTokenRepository().DeleteExpired(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to delete expired refresh tokens")
		}
		deleted = count

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to clean up expired tokens", slog.Any("error", err))

		return 0, err
	}
	if deleted > 0 {
		srv.log(ctx).Info("Expired refresh tokens removed", slog.Int64("count", deleted))
	}

	return deleted, nil
}
