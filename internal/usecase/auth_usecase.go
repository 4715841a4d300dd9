// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"erpcore/internal/domain/authz"
	"erpcore/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required for the bootstrap signup.
type SignupInput struct {
	PhoneNumber string
	Password    string
	Name        string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	PhoneNumber string
	Password    string
}

// --- Output DTOs ---

// TokenPairOutput returns a freshly issued access and refresh token pair.
type TokenPairOutput struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int // access token lifetime in seconds
}

// LoginOutput returns the generated tokens after a successful login or signup.
type LoginOutput struct {
	User   *entity.User
	Tokens *TokenPairOutput
}

// AuthContext is the fully resolved identity of a request: the live user
// record, their effective permissions and their tenant visibility. Built by
// the auth middleware once per request.
type AuthContext struct {
	User           *entity.User
	Company        *entity.Company
	Authorizer     *authz.Authorizer
	CompanyContext *authz.CompanyContext
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Signup registers the very first user, who becomes the system admin.
	// Once any user exists, public signup is closed.
	Signup(ctx context.Context, input SignupInput) (*LoginOutput, error)

	// Login authenticates by phone number and password and issues a token pair.
	// All previous sessions of the user are revoked (single active session).
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Refresh exchanges a valid refresh token for a new pair. Each refresh
	// token works exactly once; concurrent exchanges produce one winner.
	Refresh(ctx context.Context, refreshToken string) (*TokenPairOutput, error)

	// Logout revokes the session behind the refresh token. It never fails:
	// an invalid or already revoked token leaves the caller logged out anyway.
	Logout(ctx context.Context, refreshToken string)

	// ResolveAccessToken validates a bearer token and loads the live user,
	// permissions and tenant context for the request.
	ResolveAccessToken(ctx context.Context, accessToken string) (*AuthContext, error)
}
