package usecase

import "context"

// SessionUsecase defines maintenance operations on stored sessions.
type SessionUsecase interface {
	// CleanupExpiredTokens removes refresh token records past their expiry
	// and reports how many were deleted. Intended for periodic invocation.
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}
