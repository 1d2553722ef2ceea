package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `ap.id, ap.student_id, ap.job_id, ap.status, ap.match_score, ap.cover_letter,
	COALESCE(j.title, ''), COALESCE(c.company_name, ''), COALESCE(s.full_name, ''),
	ap.created_at, ap.updated_at`

const applicationJoins = `FROM applications ap
	LEFT JOIN jobs j ON j.id = ap.job_id
	LEFT JOIN companies c ON c.id = j.company_id
	LEFT JOIN students s ON s.id = ap.student_id`

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.StudentID, &a.JobID, &a.Status, &a.MatchScore, &a.CoverLetter,
		&a.JobTitle, &a.CompanyName, &a.StudentName, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication records a student's application with the match score
// frozen at apply time. A second application for the same pair fails with
// ErrAlreadyApplied.
func (db *DB) CreateApplication(ctx context.Context, studentID, jobID uuid.UUID, matchScore *float64, coverLetter *string) (*Application, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (student_id, job_id, match_score, cover_letter)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, job_id) DO NOTHING
		 RETURNING id`,
		studentID, jobID, matchScore, coverLetter,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return db.GetApplication(ctx, id)
}

// GetApplication retrieves an application by ID, or nil when it does not exist
func (db *DB) GetApplication(ctx context.Context, applicationID uuid.UUID) (*Application, error) {
	application, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` `+applicationJoins+` WHERE ap.id = $1`,
		applicationID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return application, nil
}

// ListApplicationsByStudent retrieves a student's applications, newest first
func (db *DB) ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID) ([]Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` `+applicationJoins+`
		 WHERE ap.student_id = $1
		 ORDER BY ap.created_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by student: %w", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

// ListApplicationsByJob retrieves a job's applications, newest first
func (db *DB) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` `+applicationJoins+`
		 WHERE ap.job_id = $1
		 ORDER BY ap.created_at DESC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by job: %w", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func collectApplications(rows pgx.Rows) ([]Application, error) {
	var applications []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, *a)
	}
	return applications, nil
}

// UpdateApplicationStatus moves an application along the review flow.
// Allowed: pending to approved/rejected/interview, interview to
// approved/rejected.
func (db *DB) UpdateApplicationStatus(ctx context.Context, applicationID uuid.UUID, status string) (*Application, error) {
	application, err := db.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, nil
	}

	if !validApplicationTransition(application.Status, status) {
		return nil, fmt.Errorf("application %s cannot move from %s to %s: %w", applicationID, application.Status, status, ErrInvalidTransition)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE applications SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return db.GetApplication(ctx, applicationID)
}

func validApplicationTransition(from, to string) bool {
	switch from {
	case ApplicationPending:
		return to == ApplicationApproved || to == ApplicationRejected || to == ApplicationInterview
	case ApplicationInterview:
		return to == ApplicationApproved || to == ApplicationRejected
	default:
		return false
	}
}
