package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const studentColumns = `s.id, s.account_id, s.full_name, s.registration_number, s.course,
	s.semester, s.gpa, s.phone, s.linkedin_url, s.github_url, s.portfolio_url,
	s.bio, s.skills, a.email, a.is_active, s.created_at, s.updated_at`

func scanStudent(row pgx.Row) (*Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.AccountID, &s.FullName, &s.RegistrationNumber, &s.Course,
		&s.Semester, &s.GPA, &s.Phone, &s.LinkedinURL, &s.GithubURL, &s.PortfolioURL,
		&s.Bio, &s.Skills, &s.Email, &s.AccountActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateStudent creates a student profile linked to an account
func (db *DB) CreateStudent(ctx context.Context, student *Student) (*Student, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO students (account_id, full_name, registration_number, course, semester,
		                       phone, linkedin_url, github_url, portfolio_url, bio, skills)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		student.AccountID, student.FullName, student.RegistrationNumber, student.Course,
		student.Semester, student.Phone, student.LinkedinURL, student.GithubURL,
		student.PortfolioURL, student.Bio, student.Skills,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	return db.GetStudent(ctx, id)
}

// GetStudent retrieves a student by ID (with account email), or nil when absent
func (db *DB) GetStudent(ctx context.Context, studentID uuid.UUID) (*Student, error) {
	student, err := scanStudent(db.pool.QueryRow(ctx,
		`SELECT `+studentColumns+`
		 FROM students s JOIN accounts a ON a.id = s.account_id
		 WHERE s.id = $1`,
		studentID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

// GetStudentByAccount retrieves the student profile owned by an account
func (db *DB) GetStudentByAccount(ctx context.Context, accountID uuid.UUID) (*Student, error) {
	student, err := scanStudent(db.pool.QueryRow(ctx,
		`SELECT `+studentColumns+`
		 FROM students s JOIN accounts a ON a.id = s.account_id
		 WHERE s.account_id = $1`,
		accountID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student by account: %w", err)
	}
	return student, nil
}

// UpdateStudent updates profile fields; nil pointers leave columns unchanged
func (db *DB) UpdateStudent(ctx context.Context, studentID uuid.UUID, fullName, course *string, semester *int,
	phone, linkedinURL, githubURL, portfolioURL, bio, skills *string) (*Student, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE students
		 SET full_name = COALESCE($1, full_name), course = COALESCE($2, course),
		     semester = COALESCE($3, semester), phone = COALESCE($4, phone),
		     linkedin_url = COALESCE($5, linkedin_url), github_url = COALESCE($6, github_url),
		     portfolio_url = COALESCE($7, portfolio_url), bio = COALESCE($8, bio),
		     skills = COALESCE($9, skills), updated_at = NOW()
		 WHERE id = $10`,
		fullName, course, semester, phone, linkedinURL, githubURL, portfolioURL, bio, skills, studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, nil
	}
	return db.GetStudent(ctx, studentID)
}

// ListStudents retrieves students with optional filters, newest first
func (db *DB) ListStudents(ctx context.Context, filters StudentFilters) ([]Student, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + studentColumns + `
		FROM students s JOIN accounts a ON a.id = s.account_id WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Course != "" {
		query += fmt.Sprintf(" AND s.course = $%d", argNum)
		args = append(args, filters.Course)
		argNum++
	}
	if filters.MinSemester > 0 {
		query += fmt.Sprintf(" AND s.semester >= $%d", argNum)
		args = append(args, filters.MinSemester)
		argNum++
	}
	if filters.MinGPA > 0 {
		query += fmt.Sprintf(" AND s.gpa >= $%d", argNum)
		args = append(args, filters.MinGPA)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY s.created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, *s)
	}
	return students, nil
}

// ListActiveStudents retrieves all students whose account is active, newest
// first. This is the candidate pool for ranking.
func (db *DB) ListActiveStudents(ctx context.Context) ([]Student, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+studentColumns+`
		 FROM students s JOIN accounts a ON a.id = s.account_id
		 WHERE a.is_active
		 ORDER BY s.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active students: %w", err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, *s)
	}
	return students, nil
}
