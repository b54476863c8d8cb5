// internal/domain/user/entity.go
package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	authdom "storefront/internal/domain/auth"
)

// Errors (single source)
var (
	ErrNotFound        = errors.New("user: not found")
	ErrConflict        = errors.New("user: already registered")
	ErrInvalidName     = errors.New("user: name is required")
	ErrInvalidEmail    = errors.New("user: invalid email")
	ErrInvalidPassword = errors.New("user: password must be at least 6 characters")
	ErrInvalidPhone    = errors.New("user: phone is required")
	ErrInvalidAddress  = errors.New("user: address is required")
	ErrInvalidAnswer   = errors.New("user: answer is required")
)

// Policy
var (
	MaxNameLength     = 100
	MinPasswordLength = 6
)

// User is the stored account. Secrets are kept as bcrypt hashes only.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	AnswerHash   string    `json:"-"`
	Role         int       `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeEmail lower-cases and trims; emails are unique case-insensitively.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateEmail accepts a bare address only.
func ValidateEmail(s string) error {
	e := NormalizeEmail(s)
	if e == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks the plain password policy.
func ValidatePassword(p string) error {
	if len(p) < MinPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}

// Validate checks the non-secret profile fields.
func (u User) Validate() error {
	name := strings.TrimSpace(u.Name)
	if name == "" || len([]rune(name)) > MaxNameLength {
		return ErrInvalidName
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if strings.TrimSpace(u.Phone) == "" {
		return ErrInvalidPhone
	}
	if strings.TrimSpace(u.Address) == "" {
		return ErrInvalidAddress
	}
	return nil
}

// Profile is the public projection returned to clients.
func (u User) Profile() authdom.UserProfile {
	return authdom.UserProfile{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Address: u.Address,
		Role:    u.Role,
	}
}

// IsAdmin reports the admin role.
func (u User) IsAdmin() bool {
	return u.Role == authdom.RoleAdmin
}
