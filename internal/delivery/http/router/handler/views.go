// Package handler contains the HTTP handlers for the application.
package handler

import (
	"time"

	"github.com/google/uuid"

	"erpcore/internal/domain/entity"
	"erpcore/internal/usecase"
)

// UserView is the wire representation of a user. Credential material never
// leaves the handler layer.
type UserView struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	PhoneNumber     string     `json:"phone_number"`
	Email           string     `json:"email,omitempty"`
	CompanyID       *uuid.UUID `json:"company_id,omitempty"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"is_active"`
	IsPhoneVerified bool       `json:"is_phone_verified"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CompanyView is the wire representation of a company.
type CompanyView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenPairView is the wire representation of an issued token pair.
type TokenPairView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthView combines the authenticated user with their token pair.
type AuthView struct {
	User   UserView      `json:"user"`
	Tokens TokenPairView `json:"tokens"`
}

// ListView is a generic paging envelope.
type ListView[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func newUserView(user *entity.User) UserView {
	return UserView{
		ID:              user.ID,
		Name:            user.Name,
		PhoneNumber:     user.PhoneNumber,
		Email:           user.Email,
		CompanyID:       user.CompanyID,
		Role:            user.Role.String(),
		IsActive:        user.IsActive,
		IsPhoneVerified: user.IsPhoneVerified,
		LastLoginAt:     user.LastLoginAt,
		CreatedAt:       user.CreatedAt,
	}
}

func newCompanyView(company *entity.Company) CompanyView {
	return CompanyView{
		ID:        company.ID,
		Name:      company.Name,
		IsActive:  company.IsActive,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}
}

func newTokenPairView(tokens *usecase.TokenPairOutput) TokenPairView {
	return TokenPairView{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresIn,
	}
}

func newAuthView(output *usecase.LoginOutput) AuthView {
	return AuthView{
		User:   newUserView(output.User),
		Tokens: newTokenPairView(output.Tokens),
	}
}
