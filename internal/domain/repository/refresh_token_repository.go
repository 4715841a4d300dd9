package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"erpcore/internal/domain/entity"
)

// Domain-specific errors for refresh token persistence.
var (
	// ErrRefreshTokenNotFound is returned when no active refresh token matches.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenAlreadyRevoked is returned when a conditional revoke
	// finds the token already spent. The caller lost the rotation race.
	ErrRefreshTokenAlreadyRevoked = errors.New("refresh token already revoked")
)

// RefreshTokenRepository defines the interface for refresh token session management.
// Tokens are stored by digest only; the raw JWT never reaches the database.
type RefreshTokenRepository interface {
	// Create persists a new refresh token record, representing a session.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindActiveByTokenID retrieves the non-revoked, non-expired token record
	// for the given correlation token ID.
	FindActiveByTokenID(ctx context.Context, tokenID string) (*entity.RefreshToken, error)

	// Revoke marks the token revoked if and only if it is still active.
	// Exactly one concurrent caller wins; the rest get
	// ErrRefreshTokenAlreadyRevoked. This is what makes refresh tokens
	// one-time-use.
	Revoke(ctx context.Context, tokenID string) error

	// RevokeAllForUser revokes every active token the user holds, ending all
	// of their sessions.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error

	// DeleteAllForUser hard-deletes all token records for a user. Used when
	// the user account itself is removed.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes token records past their expiry, returning the
	// number of rows removed. Called periodically for cleanup.
	DeleteExpired(ctx context.Context) (int64, error)
}
