// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant isolation boundary. Every non-admin user and every
// tenant-scoped resource belongs to exactly one company.
type Company struct {
	ID        uuid.UUID // The unique ID of the company.
	Name      string    // Unique, human-readable company name.
	IsActive  bool      // Deactivated companies yield zero permissions for all of their users.
	CreatedAt time.Time // Timestamp of when the company was created.
	UpdatedAt time.Time // Timestamp of the last modification to the company.
}
