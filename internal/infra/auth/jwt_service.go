// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"erpcore/config"
	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.JWT == nil || cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret:     []byte(cfg.JWT.Secret),
		accessTTL:  cfg.JWT.AccessTokenTTL,
		refreshTTL: cfg.JWT.RefreshTokenTTL,
	}, nil
}

// GenerateAccessToken creates a short-lived access token embedding a snapshot
// of the user's identity. Claims reflect the user at issue time; revocation
// before expiry is handled by the refresh token store, not the JWT.
func (s *jwtService) GenerateAccessToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := &service.AccessClaims{
		UserID:      user.ID,
		PhoneNumber: user.PhoneNumber,
		IsActive:    user.IsActive,
		CompanyID:   user.CompanyID,
		Role:        user.Role.String(),
		Type:        service.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}

	return signed, nil
}

// GenerateRefreshToken creates a long-lived refresh token. The returned token
// ID correlates the JWT with its stored digest so lookups never need the raw token.
func (s *jwtService) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	tokenID := uuid.NewString()
	now := time.Now()
	claims := &service.RefreshClaims{
		UserID:  userID,
		TokenID: tokenID,
		Type:    service.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", errors.Wrap(err, "sign refresh token")
	}

	return signed, tokenID, nil
}

// ValidateAccessToken checks signature, expiry and type of an access token.
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.AccessClaims, error) {
	claims := &service.AccessClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Type != service.TokenTypeAccess {
		return nil, domainerrors.NewInvalidTokenError("not an access token")
	}

	return claims, nil
}

// ValidateRefreshToken checks signature, expiry and type of a refresh token.
func (s *jwtService) ValidateRefreshToken(tokenString string) (*service.RefreshClaims, error) {
	claims := &service.RefreshClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Type != service.TokenTypeRefresh {
		return nil, domainerrors.NewInvalidTokenError("not a refresh token")
	}

	return claims, nil
}

// parse verifies the signature and standard claims, mapping library errors
// onto the domain taxonomy.
func (s *jwtService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Only HMAC is acceptable; reject algorithm confusion attempts.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domainerrors.ErrTokenExpired
	case err != nil:
		return domainerrors.NewInvalidTokenError(err.Error())
	case !token.Valid:
		return domainerrors.NewInvalidTokenError("token is not valid")
	}

	return nil
}

// HashToken derives the HMAC-SHA256 digest under which refresh tokens are
// stored. Keyed with the server secret so a leaked table cannot be matched
// against raw tokens.
func (s *jwtService) HashToken(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))

	return hex.EncodeToString(mac.Sum(nil))
}

// GetAccessTokenDuration returns the configured lifetime for access tokens.
func (s *jwtService) GetAccessTokenDuration() time.Duration {
	return s.accessTTL
}

// GetRefreshTokenDuration returns the configured lifetime for refresh tokens.
func (s *jwtService) GetRefreshTokenDuration() time.Duration {
	return s.refreshTTL
}
