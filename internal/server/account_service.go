// Package server provides the HTTP REST API for the career matcher.
package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/config"
	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/types"
)

// AccountService provides account registration, login, and profile operations.
type AccountService struct {
	db             *db.DB
	passwordConfig *config.PasswordConfig
}

// NewAccountService creates a new AccountService with the given dependencies.
func NewAccountService(database *db.DB, passwordConfig *config.PasswordConfig) *AccountService {
	return &AccountService{
		db:             database,
		passwordConfig: passwordConfig,
	}
}

// Register creates a new account with a hashed password plus the profile row
// matching the requested role.
func (s *AccountService) Register(ctx context.Context, req *types.RegisterRequest) (*types.Account, error) {
	switch req.Role {
	case db.RoleStudent:
		if req.Student == nil {
			return nil, &ErrValidation{Field: "student", Message: "student profile is required for the student role"}
		}
	case db.RoleCompany:
		if req.Company == nil {
			return nil, &ErrValidation{Field: "company", Message: "company profile is required for the company role"}
		}
	default:
		return nil, &ErrValidation{Field: "role", Message: "role must be student or company"}
	}

	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	accountID, err := s.db.CreateAccount(ctx, req.Email, passwordHash, req.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	switch req.Role {
	case db.RoleStudent:
		student := &db.Student{
			AccountID:          accountID,
			FullName:           req.Student.FullName,
			RegistrationNumber: req.Student.RegistrationNumber,
			Course:             req.Student.Course,
			Semester:           req.Student.Semester,
		}
		if req.Student.Phone != "" {
			student.Phone = &req.Student.Phone
		}
		if _, err := s.db.CreateStudent(ctx, student); err != nil {
			return nil, fmt.Errorf("failed to create student profile: %w", err)
		}
	case db.RoleCompany:
		company := &db.Company{
			AccountID:   accountID,
			CompanyName: req.Company.CompanyName,
			CNPJ:        req.Company.CNPJ,
		}
		if req.Company.Industry != "" {
			company.Industry = &req.Company.Industry
		}
		if req.Company.Website != "" {
			company.Website = &req.Company.Website
		}
		if req.Company.City != "" {
			company.City = &req.Company.City
		}
		if req.Company.State != "" {
			company.State = &req.Company.State
		}
		if _, err := s.db.CreateCompany(ctx, company); err != nil {
			return nil, fmt.Errorf("failed to create company profile: %w", err)
		}
	}

	account, err := s.db.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, &ErrAccountNotFound{AccountID: accountID}
	}

	return toAccountResponse(account), nil
}

// Login authenticates an account by email and password.
func (s *AccountService) Login(ctx context.Context, req *types.LoginRequest) (*types.Account, error) {
	account, err := s.db.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	if account == nil {
		return nil, &ErrInvalidCredentials{}
	}

	if !s.passwordConfig.VerifyPassword(req.Password, account.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	if !account.IsActive {
		return nil, &ErrAccountInactive{}
	}

	return toAccountResponse(account), nil
}

// UpdatePassword changes an account's password after verifying the current one.
func (s *AccountService) UpdatePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	account, err := s.db.GetAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return &ErrAccountNotFound{AccountID: accountID}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, account.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.UpdatePassword(ctx, accountID, newPasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// Profile returns an account together with its role profile: a *db.Student
// for student accounts, a *db.Company for company accounts, nil otherwise.
func (s *AccountService) Profile(ctx context.Context, accountID uuid.UUID) (*types.Account, any, error) {
	account, err := s.db.GetAccount(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, nil, &ErrAccountNotFound{AccountID: accountID}
	}

	var profile any
	switch account.Role {
	case db.RoleStudent:
		student, err := s.db.GetStudentByAccount(ctx, accountID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get student profile: %w", err)
		}
		if student != nil {
			profile = student
		}
	case db.RoleCompany:
		company, err := s.db.GetCompanyByAccount(ctx, accountID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get company profile: %w", err)
		}
		if company != nil {
			profile = company
		}
	}

	return toAccountResponse(account), profile, nil
}

// SetActive flips an account's active flag and returns the updated account.
func (s *AccountService) SetActive(ctx context.Context, accountID uuid.UUID, active bool) (*types.Account, error) {
	account, err := s.db.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, &ErrAccountNotFound{AccountID: accountID}
	}

	if err := s.db.SetAccountActive(ctx, accountID, active); err != nil {
		return nil, fmt.Errorf("failed to set account active: %w", err)
	}

	account.IsActive = active
	return toAccountResponse(account), nil
}

// toAccountResponse converts a database account to an API account.
func toAccountResponse(a *db.Account) *types.Account {
	return &types.Account{
		ID:        a.ID,
		Email:     a.Email,
		Role:      a.Role,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
