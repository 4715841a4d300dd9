package usecase

import (
	"context"

	"github.com/google/uuid"

	"erpcore/internal/domain/entity"
)

// --- Input DTOs ---

// CreateUserInput defines the data an admin supplies to create a user.
type CreateUserInput struct {
	PhoneNumber string
	Password    string
	Name        string
	Email       string
	CompanyID   *uuid.UUID
	Role        entity.Role
}

// UpdateUserInput defines the mutable fields of a user. Nil pointers leave
// the current value untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *entity.Role
	IsActive *bool
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// ListUsersInput defines paging for user listings.
type ListUsersInput struct {
	Offset int
	Limit  int
}

// --- Output DTOs ---

// UserListOutput returns one page of users with the total count.
type UserListOutput struct {
	Users []*entity.User
	Total int64
}

// UserUsecase defines the interface for user management operations.
// Every operation is scoped by the caller's AuthContext: regular users see
// only their own company, system admins see everything.
type UserUsecase interface {
	// CreateUser creates a user inside a company. System admin only.
	CreateUser(ctx context.Context, actor *AuthContext, input CreateUserInput) (*entity.User, error)

	// GetUser loads one user, enforcing tenant visibility.
	GetUser(ctx context.Context, actor *AuthContext, id uuid.UUID) (*entity.User, error)

	// ListUsers returns a page of users visible to the actor.
	ListUsers(ctx context.Context, actor *AuthContext, input ListUsersInput) (*UserListOutput, error)

	// UpdateUser modifies a user's profile, role or active flag.
	UpdateUser(ctx context.Context, actor *AuthContext, id uuid.UUID, input UpdateUserInput) (*entity.User, error)

	// DeleteUser removes a user and all of their sessions. System admin only.
	DeleteUser(ctx context.Context, actor *AuthContext, id uuid.UUID) error

	// ChangePassword lets a user rotate their own password. All sessions
	// are revoked afterwards.
	ChangePassword(ctx context.Context, actor *AuthContext, input ChangePasswordInput) error
}
