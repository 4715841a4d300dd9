// Package model holds the GORM persistence models mirroring the database schema.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	PhoneNumber     string     `gorm:"type:varchar(20);unique;not null"`
	Name            string     `gorm:"type:varchar(100);not null"`
	Email           string     `gorm:"type:varchar(255)"`
	PasswordHash    string     `gorm:"type:varchar(255);not null"`
	CompanyID       *uuid.UUID `gorm:"type:uuid;index"`
	Role            string     `gorm:"type:varchar(30);not null"`
	IsActive        bool       `gorm:"not null;default:true"`
	IsPhoneVerified bool       `gorm:"not null;default:false"`
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Company       *CompanyModel       `gorm:"foreignKey:CompanyID"`
	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
