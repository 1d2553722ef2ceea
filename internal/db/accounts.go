package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateAccount creates a login account and returns its ID
func (db *DB) CreateAccount(ctx context.Context, email, passwordHash, role string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO accounts (email, password_hash, role)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		email, passwordHash, role,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create account: %w", err)
	}
	return id, nil
}

// GetAccount retrieves an account by ID, or nil when it does not exist
func (db *DB) GetAccount(ctx context.Context, accountID uuid.UUID) (*Account, error) {
	var a Account
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, role, is_active, created_at, updated_at
		 FROM accounts WHERE id = $1`,
		accountID,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}

// GetAccountByEmail retrieves an account by email, or nil when it does not exist
func (db *DB) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, role, is_active, created_at, updated_at
		 FROM accounts WHERE email = $1`,
		email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &a, nil
}

// CheckEmailExists reports whether an account with the given email exists
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword replaces an account's password hash
func (db *DB) UpdatePassword(ctx context.Context, accountID uuid.UUID, passwordHash string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", accountID)
	}
	return nil
}

// SetAccountActive flips an account's active flag. Inactive students drop
// out of candidate ranking.
func (db *DB) SetAccountActive(ctx context.Context, accountID uuid.UUID, active bool) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE accounts SET is_active = $1, updated_at = NOW() WHERE id = $2`,
		active, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to set account active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", accountID)
	}
	return nil
}

// DeleteAccount removes an account. The role profile and everything hanging
// off it go with it through cascades.
func (db *DB) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	return nil
}
