// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents one issued refresh token as a durable, revocable
// server-side session record. Only a one-way digest of the raw token and its
// public correlation id are ever stored; the raw token never touches the database.
type RefreshToken struct {
	ID        uuid.UUID  // The unique ID for this specific refresh token record.
	UserID    uuid.UUID  // Links this session to the User it belongs to.
	TokenID   string     // Public random correlation id embedded in the refresh token claims.
	TokenHash string     // HMAC-SHA256 digest of the raw refresh token for secure comparison.
	ExpiresAt time.Time  // The exact time when this refresh token becomes invalid.
	RevokedAt *time.Time // Set when the token is revoked; revoked tokens can never be redeemed.
	CreatedAt time.Time  // Timestamp of when this session was created.
}

// IsRevoked reports whether the record has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired reports whether the record has expired at the given instant.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
