package model

import (
	"net/mail"
	"strings"
	"time"
)

// UserRole represents the role of a user in the system
type UserRole string

// UserRoleUser is the role every account registers with
const UserRoleUser UserRole = "user"

// Validation constants
const (
	MinPasswordLength    = 8
	MaxPasswordLength    = 64
	MaxDisplayNameLength = 64
	MaxEmailLength       = 254
)

// User represents a user account
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	Hash        *string   `json:"-"` // Never expose password hash
	Role        UserRole  `json:"role"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// NormalizeEmail trims and lowercases an email. It is also the login
// throttle key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name,omitempty"`
}

// Validate checks the registration request
func (r *RegisterRequest) Validate() []FieldError {
	var errors []FieldError

	errors = append(errors, validateEmail(r.Email)...)
	if r.Password == "" {
		errors = append(errors, FieldError{Field: "password", Message: "password is required"})
	} else if len(r.Password) < MinPasswordLength || len(r.Password) > MaxPasswordLength {
		errors = append(errors, FieldError{Field: "password", Message: "password must be between 8 and 64 characters"})
	}
	if r.DisplayName != nil && len(*r.DisplayName) > MaxDisplayNameLength {
		errors = append(errors, FieldError{Field: "display_name", Message: "display_name must be 64 characters or less"})
	}

	return errors
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login request
func (r *LoginRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.Email) == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	}
	if r.Password == "" {
		errors = append(errors, FieldError{Field: "password", Message: "password is required"})
	}

	return errors
}

func validateEmail(email string) []FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return []FieldError{{Field: "email", Message: "email is required"}}
	}
	if len(email) > MaxEmailLength {
		return []FieldError{{Field: "email", Message: "email must be 254 characters or less"}}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return []FieldError{{Field: "email", Message: "email must be a valid address"}}
	}
	return nil
}

// TokenResponse is the bearer token handed to clients
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  *User          `json:"user"`
	Token *TokenResponse `json:"token"`
}

// MeResponse describes the caller of GET /v1/auth/me
type MeResponse struct {
	Authenticated bool     `json:"authenticated"`
	ID            string   `json:"id,omitempty"`
	Email         string   `json:"email,omitempty"`
	DisplayName   *string  `json:"display_name,omitempty"`
	Role          UserRole `json:"role,omitempty"`
}
