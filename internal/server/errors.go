// Package server provides the HTTP REST API for the career matcher.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/db"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrAccountInactive indicates the account exists but has been deactivated
type ErrAccountInactive struct{}

func (e *ErrAccountInactive) Error() string {
	return "account is deactivated"
}

// ErrAccountNotFound indicates the account was not found
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e *ErrAccountNotFound) Error() string {
	return fmt.Sprintf("account not found: %s", e.AccountID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrInvalidTransition indicates a disallowed status change
type ErrInvalidTransition struct {
	From string
	To   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrAccountInactive:
		return http.StatusForbidden
	case *ErrAccountNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrInvalidTransition:
		return http.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrSubjectInUse), errors.Is(err, db.ErrAlreadyApplied):
		return http.StatusConflict
	case errors.Is(err, db.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}
