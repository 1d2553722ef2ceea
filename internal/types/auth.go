// Package types provides request and response payloads shared by the career matcher HTTP API.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// StudentProfile carries the student fields required when registering a
// student account.
type StudentProfile struct {
	FullName           string `json:"full_name" validate:"required,min=1"`
	RegistrationNumber string `json:"registration_number" validate:"required,min=1"`
	Course             string `json:"course" validate:"required,min=1"`
	Semester           int    `json:"semester" validate:"required,min=1,max=20"`
	Phone              string `json:"phone,omitempty"`
}

// CompanyProfile carries the company fields required when registering a
// company account.
type CompanyProfile struct {
	CompanyName string `json:"company_name" validate:"required,min=1"`
	CNPJ        string `json:"cnpj" validate:"required,min=1"`
	Industry    string `json:"industry,omitempty"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
}

// RegisterRequest represents the request to create a new account with
// password authentication. The profile payload matching the role is required.
type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     string          `json:"role" validate:"required,oneof=student company"`
	Student  *StudentProfile `json:"student,omitempty"`
	Company  *CompanyProfile `json:"company,omitempty"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Account represents an account for API responses (avoids import cycle with db package).
type Account struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse represents the login/register response with account data and
// authentication token.
type LoginResponse struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

// UpdatePasswordRequest represents a password update request.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// SetActiveRequest represents an account activation toggle request.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// Validate validates the RegisterRequest using the validator.
func (r *RegisterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdatePasswordRequest using the validator.
func (r *UpdatePasswordRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
