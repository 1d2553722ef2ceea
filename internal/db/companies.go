package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, account_id, company_name, cnpj, industry, size, website, description,
	logo_url, address, city, state, country, phone, contact_email, created_at, updated_at`

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.AccountID, &c.CompanyName, &c.CNPJ, &c.Industry, &c.Size,
		&c.Website, &c.Description, &c.LogoURL, &c.Address, &c.City, &c.State,
		&c.Country, &c.Phone, &c.ContactEmail, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCompany creates a company profile linked to an account
func (db *DB) CreateCompany(ctx context.Context, company *Company) (*Company, error) {
	country := company.Country
	if country == "" {
		country = "Brasil"
	}
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO companies (account_id, company_name, cnpj, industry, size, website,
		                        description, logo_url, address, city, state, country, phone, contact_email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id`,
		company.AccountID, company.CompanyName, company.CNPJ, company.Industry, company.Size,
		company.Website, company.Description, company.LogoURL, company.Address, company.City,
		company.State, country, company.Phone, company.ContactEmail,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return db.GetCompany(ctx, id)
}

// GetCompany retrieves a company by ID, or nil when it does not exist
func (db *DB) GetCompany(ctx context.Context, companyID uuid.UUID) (*Company, error) {
	company, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`,
		companyID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// GetCompanyByAccount retrieves the company profile owned by an account
func (db *DB) GetCompanyByAccount(ctx context.Context, accountID uuid.UUID) (*Company, error) {
	company, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE account_id = $1`,
		accountID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company by account: %w", err)
	}
	return company, nil
}

// UpdateCompany updates profile fields; nil pointers leave columns unchanged
func (db *DB) UpdateCompany(ctx context.Context, companyID uuid.UUID, companyName, industry, size,
	website, description, logoURL, address, city, state, phone, contactEmail *string) (*Company, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE companies
		 SET company_name = COALESCE($1, company_name), industry = COALESCE($2, industry),
		     size = COALESCE($3, size), website = COALESCE($4, website),
		     description = COALESCE($5, description), logo_url = COALESCE($6, logo_url),
		     address = COALESCE($7, address), city = COALESCE($8, city),
		     state = COALESCE($9, state), phone = COALESCE($10, phone),
		     contact_email = COALESCE($11, contact_email), updated_at = NOW()
		 WHERE id = $12`,
		companyName, industry, size, website, description, logoURL, address, city, state,
		phone, contactEmail, companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, nil
	}
	return db.GetCompany(ctx, companyID)
}

// ListCompanies retrieves companies, newest first
func (db *DB) ListCompanies(ctx context.Context, limit int) ([]Company, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, *c)
	}
	return companies, nil
}
