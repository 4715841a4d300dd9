package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/domain/repository"
	"erpcore/internal/infra/persistence/model"
)

// refreshTokenRepository implements the domain.RefreshTokenRepository interface using GORM.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Create persists a new refresh token record.
func (repo *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	tokenM := fromRefreshTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create refresh token")
	}

	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindActiveByTokenID retrieves the non-revoked, non-expired token record for
// the given correlation token ID.
func (repo *refreshTokenRepository) FindActiveByTokenID(ctx context.Context, tokenID string) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	err := repo.db.WithContext(ctx).
		Where("token_id = ? AND revoked_at IS NULL AND expires_at > ?", tokenID, time.Now()).
		First(&tokenM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find refresh token")
	}

	return toRefreshTokenDomain(&tokenM), nil
}

// Revoke marks the token revoked if and only if it is still active. The
// conditional UPDATE makes concurrent refresh attempts race safely: the row
// flips at most once, so exactly one caller sees RowsAffected == 1.
func (repo *refreshTokenRepository) Revoke(ctx context.Context, tokenID string) error {
	result := repo.db.WithContext(ctx).Model(&model.RefreshTokenModel{}).
		Where("token_id = ? AND revoked_at IS NULL", tokenID).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to revoke refresh token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRefreshTokenAlreadyRevoked
	}

	return nil
}

// RevokeAllForUser revokes every active token the user holds.
func (repo *refreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).Model(&model.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
	if err != nil {
		return errors.Wrap(err, "failed to revoke user refresh tokens")
	}

	return nil
}

// DeleteAllForUser hard-deletes all token records for a user.
func (repo *refreshTokenRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.RefreshTokenModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete user refresh tokens")
	}

	return nil
}

// DeleteExpired removes token records past their expiry.
func (repo *refreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.RefreshTokenModel{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete expired refresh tokens")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toRefreshTokenDomain converts a GORM RefreshTokenModel to a domain RefreshToken entity.
func toRefreshTokenDomain(data *model.RefreshTokenModel) *entity.RefreshToken {
	if data == nil {
		return nil
	}

	return &entity.RefreshToken{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenID:   data.TokenID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		RevokedAt: data.RevokedAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromRefreshTokenDomain converts a domain RefreshToken entity to a GORM RefreshTokenModel.
func fromRefreshTokenDomain(data *entity.RefreshToken) *model.RefreshTokenModel {
	if data == nil {
		return nil
	}

	return &model.RefreshTokenModel{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenID:   data.TokenID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		RevokedAt: data.RevokedAt,
		CreatedAt: data.CreatedAt,
	}
}
