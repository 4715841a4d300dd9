package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"erpcore/config"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/domain/service"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy *config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	return &bcryptHasher{
		cost:   cost,
		policy: cfg.PasswordStrength,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidateStrength checks the password against the configured policy and
// returns a PasswordTooWeak error naming every unmet requirement.
func (h *bcryptHasher) ValidateStrength(password string) error {
	var reasons []string

	if len(password) < h.policy.MinLength {
		reasons = append(reasons, fmt.Sprintf("must be at least %d characters", h.policy.MinLength))
	}
	// The upper bound guards bcrypt's 72-byte input limit.
	if len(password) > h.policy.MaxLength {
		reasons = append(reasons, fmt.Sprintf("must be at most %d characters", h.policy.MaxLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if h.policy.RequireUppercase && !hasUpper {
		reasons = append(reasons, "must contain at least one uppercase letter")
	}
	if h.policy.RequireLowercase && !hasLower {
		reasons = append(reasons, "must contain at least one lowercase letter")
	}
	if h.policy.RequireNumbers && !hasDigit {
		reasons = append(reasons, "must contain at least one digit")
	}

	if len(reasons) > 0 {
		return domainerrors.NewPasswordTooWeakError(reasons...)
	}

	return nil
}
