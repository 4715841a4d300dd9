// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity entity, representing a unique principal in the system.
// Non-admin users always belong to exactly one company; a system admin belongs to none.
type User struct {
	ID              uuid.UUID  // The Global Unique Identifier (GUID) for the user.
	Name            string     // The user's display name or real name.
	PhoneNumber     string     // Normalized phone number, used as the login handle.
	Email           string     // Optional contact email.
	PasswordHash    string     // Stores the bcrypt-hashed password.
	CompanyID       *uuid.UUID // The company the user is scoped to. Nil only for system admins.
	Role            Role       // The user's single role, mapping directly to one permission set.
	IsActive        bool       // Whether this account may authenticate and hold permissions.
	IsPhoneVerified bool       // Whether the phone number has been verified.
	CreatedAt       time.Time  // Timestamp of when this user account was created.
	UpdatedAt       time.Time  // Timestamp of the last modification to this user's data.
	LastLoginAt     *time.Time // Timestamp of the most recent successful login, nil before the first.
}

// BelongsToCompany reports whether the user is scoped to the given company.
func (u *User) BelongsToCompany(companyID uuid.UUID) bool {
	return u.CompanyID != nil && *u.CompanyID == companyID
}
