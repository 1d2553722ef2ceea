package db

import (
	"context"
	"fmt"
)

// migration pairs a table name with its idempotent DDL.
type migration struct {
	Name string
	DDL  string
}

var migrations = []migration{
	{
		Name: "accounts",
		DDL: `CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('student', 'company', 'admin', 'coordinator')),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "students",
		DDL: `CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			account_id UUID NOT NULL UNIQUE REFERENCES accounts(id) ON DELETE CASCADE,
			full_name TEXT NOT NULL,
			registration_number TEXT NOT NULL UNIQUE,
			course TEXT NOT NULL,
			semester INTEGER NOT NULL DEFAULT 1,
			gpa NUMERIC(4,2) NOT NULL DEFAULT 0,
			phone TEXT,
			linkedin_url TEXT,
			github_url TEXT,
			portfolio_url TEXT,
			bio TEXT,
			skills TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "subjects",
		DDL: `CREATE TABLE IF NOT EXISTS subjects (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			course TEXT NOT NULL,
			semester INTEGER NOT NULL DEFAULT 1,
			credits INTEGER NOT NULL DEFAULT 4,
			description TEXT,
			category TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "grades",
		DDL: `CREATE TABLE IF NOT EXISTS grades (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			subject_id UUID NOT NULL REFERENCES subjects(id) ON DELETE RESTRICT,
			grade NUMERIC(4,2) NOT NULL CHECK (grade >= 0 AND grade <= 10),
			term_label TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, subject_id, term_label)
		)`,
	},
	{
		Name: "companies",
		DDL: `CREATE TABLE IF NOT EXISTS companies (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			account_id UUID NOT NULL UNIQUE REFERENCES accounts(id) ON DELETE CASCADE,
			company_name TEXT NOT NULL,
			cnpj TEXT NOT NULL UNIQUE,
			industry TEXT,
			size TEXT,
			website TEXT,
			description TEXT,
			logo_url TEXT,
			address TEXT,
			city TEXT,
			state TEXT,
			country TEXT NOT NULL DEFAULT 'Brasil',
			phone TEXT,
			contact_email TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "jobs",
		DDL: `CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			requirements_text TEXT,
			responsibilities TEXT,
			benefits TEXT,
			salary_range TEXT,
			location TEXT NOT NULL DEFAULT '',
			work_type TEXT NOT NULL DEFAULT 'onsite' CHECK (work_type IN ('remote', 'hybrid', 'onsite')),
			job_type TEXT NOT NULL DEFAULT 'internship' CHECK (job_type IN ('internship', 'full_time', 'part_time', 'trainee')),
			minimum_gpa NUMERIC(4,2) NOT NULL DEFAULT 0,
			minimum_semester INTEGER,
			preferred_courses JSONB NOT NULL DEFAULT '[]'::jsonb,
			status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'closed', 'filled')),
			vacancies INTEGER NOT NULL DEFAULT 1,
			application_deadline TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "job_requirements",
		DDL: `CREATE TABLE IF NOT EXISTS job_requirements (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			subject_id UUID NOT NULL REFERENCES subjects(id) ON DELETE RESTRICT,
			minimum_grade NUMERIC(4,2) NOT NULL CHECK (minimum_grade >= 0 AND minimum_grade <= 10),
			weight NUMERIC(6,2) NOT NULL DEFAULT 1.0 CHECK (weight > 0),
			is_mandatory BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (job_id, subject_id)
		)`,
	},
	{
		Name: "applications",
		DDL: `CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected', 'interview')),
			match_score NUMERIC(6,2),
			cover_letter TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, job_id)
		)`,
	},
	{
		Name: "match_logs",
		DDL: `CREATE TABLE IF NOT EXISTS match_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			match_score NUMERIC(6,2) NOT NULL,
			details JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_grades_student ON grades(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_grades_subject ON grades(subject_id)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_job_requirements_job ON job_requirements(job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_student ON applications(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_job ON applications(job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_match_logs_student ON match_logs(student_id, created_at DESC)`,
}

// Migrate creates all tables and indexes idempotently and returns the table
// names it processed, in order.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	var applied []string
	for _, m := range migrations {
		if _, err := db.pool.Exec(ctx, m.DDL); err != nil {
			return applied, fmt.Errorf("failed to migrate table %s: %w", m.Name, err)
		}
		applied = append(applied, m.Name)
	}
	for _, ddl := range indexes {
		if _, err := db.pool.Exec(ctx, ddl); err != nil {
			return applied, fmt.Errorf("failed to create index: %w", err)
		}
	}
	return applied, nil
}

// Truncate wipes all rows from every table. Used by the seed command's
// --wipe flag; never called from the server.
func (db *DB) Truncate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx,
		`TRUNCATE match_logs, applications, job_requirements, jobs, companies,
		          grades, subjects, students, accounts CASCADE`,
	)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}
