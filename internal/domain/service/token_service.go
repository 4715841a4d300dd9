package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"erpcore/internal/domain/entity"
)

// Token type discriminators embedded in every JWT so an access token can
// never be replayed as a refresh token and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AccessClaims defines the custom claims carried by access tokens.
// The claims are a snapshot of the user at issue time, not live state.
type AccessClaims struct {
	UserID      uuid.UUID  `json:"user_id"`
	PhoneNumber string     `json:"phone_number"`
	IsActive    bool       `json:"is_active"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	Role        string     `json:"role"`
	Type        string     `json:"type"`
	jwt.RegisteredClaims
}

// RefreshClaims defines the custom claims carried by refresh tokens.
// TokenID correlates the JWT with its stored digest row, so the raw token
// never needs to be looked up by value.
type RefreshClaims struct {
	UserID  uuid.UUID `json:"user_id"`
	TokenID string    `json:"token_id"`
	Type    string    `json:"type"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateAccessToken creates a short-lived access token embedding the
	// user's identity snapshot.
	GenerateAccessToken(user *entity.User) (string, error)

	// GenerateRefreshToken creates a long-lived refresh token for the user
	// and returns the signed token together with its correlation token ID.
	GenerateRefreshToken(userID uuid.UUID) (token string, tokenID string, err error)

	// ValidateAccessToken checks signature, expiry and type of an access token.
	ValidateAccessToken(tokenString string) (*AccessClaims, error)

	// ValidateRefreshToken checks signature, expiry and type of a refresh token.
	ValidateRefreshToken(tokenString string) (*RefreshClaims, error)

	// HashToken derives the deterministic digest under which a refresh token
	// is persisted. Raw tokens are never stored.
	HashToken(token string) string

	// GetAccessTokenDuration returns the configured lifetime for access tokens.
	GetAccessTokenDuration() time.Duration

	// GetRefreshTokenDuration returns the configured lifetime for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}
