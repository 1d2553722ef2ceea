package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `j.id, j.company_id, j.title, j.description, j.requirements_text,
	j.responsibilities, j.benefits, j.salary_range, j.location, j.work_type, j.job_type,
	j.minimum_gpa, j.minimum_semester, j.preferred_courses, j.status, j.vacancies,
	j.application_deadline, COALESCE(c.company_name, ''), j.created_at, j.updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	var preferredJSON []byte
	err := row.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.RequirementsText,
		&j.Responsibilities, &j.Benefits, &j.SalaryRange, &j.Location, &j.WorkType, &j.JobType,
		&j.MinimumGPA, &j.MinimumSemester, &preferredJSON, &j.Status, &j.Vacancies,
		&j.ApplicationDeadline, &j.CompanyName, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if preferredJSON != nil {
		_ = json.Unmarshal(preferredJSON, &j.PreferredCourses)
	}
	return &j, nil
}

// CreateJob creates a job posting for a company
func (db *DB) CreateJob(ctx context.Context, job *Job) (*Job, error) {
	preferred := job.PreferredCourses
	if preferred == nil {
		// nil means no preference; store [] so the course filter matches.
		preferred = []string{}
	}
	preferredJSON, err := json.Marshal(preferred)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preferred courses: %w", err)
	}

	status := job.Status
	if status == "" {
		status = JobStatusOpen
	}
	vacancies := job.Vacancies
	if vacancies == 0 {
		vacancies = 1
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO jobs (company_id, title, description, requirements_text, responsibilities,
		                   benefits, salary_range, location, work_type, job_type, minimum_gpa,
		                   minimum_semester, preferred_courses, status, vacancies, application_deadline)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id`,
		job.CompanyID, job.Title, job.Description, job.RequirementsText, job.Responsibilities,
		job.Benefits, job.SalaryRange, job.Location, job.WorkType, job.JobType, job.MinimumGPA,
		job.MinimumSemester, preferredJSON, status, vacancies, job.ApplicationDeadline,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return db.GetJob(ctx, id)
}

// GetJob retrieves a job by ID (with company name), or nil when absent
func (db *DB) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j LEFT JOIN companies c ON c.id = j.company_id
		 WHERE j.id = $1`,
		jobID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// UpdateJob updates posting fields; nil pointers leave columns unchanged.
// PreferredCourses replaces the whole list when non-nil.
func (db *DB) UpdateJob(ctx context.Context, jobID uuid.UUID, title, description, requirementsText,
	responsibilities, benefits, salaryRange, location, workType, jobType *string,
	minimumGPA *float64, minimumSemester *int, preferredCourses []string, vacancies *int) (*Job, error) {
	var preferredJSON []byte
	if preferredCourses != nil {
		var err error
		preferredJSON, err = json.Marshal(preferredCourses)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal preferred courses: %w", err)
		}
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE jobs
		 SET title = COALESCE($1, title), description = COALESCE($2, description),
		     requirements_text = COALESCE($3, requirements_text),
		     responsibilities = COALESCE($4, responsibilities), benefits = COALESCE($5, benefits),
		     salary_range = COALESCE($6, salary_range), location = COALESCE($7, location),
		     work_type = COALESCE($8, work_type), job_type = COALESCE($9, job_type),
		     minimum_gpa = COALESCE($10, minimum_gpa), minimum_semester = COALESCE($11, minimum_semester),
		     preferred_courses = COALESCE($12, preferred_courses), vacancies = COALESCE($13, vacancies),
		     updated_at = NOW()
		 WHERE id = $14`,
		title, description, requirementsText, responsibilities, benefits, salaryRange,
		location, workType, jobType, minimumGPA, minimumSemester, preferredJSON, vacancies, jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, nil
	}
	return db.GetJob(ctx, jobID)
}

// UpdateJobStatus transitions a job's status. Only open jobs can move, and
// only to closed or filled.
func (db *DB) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) (*Job, error) {
	if status != JobStatusClosed && status != JobStatusFilled {
		return nil, fmt.Errorf("job status %q: %w", status, ErrInvalidTransition)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		status, jobID, JobStatusOpen,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Either the job is missing or it already left the open state.
		job, err := db.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("job %s is %s and cannot move to %s: %w", jobID, job.Status, status, ErrInvalidTransition)
	}
	return db.GetJob(ctx, jobID)
}

// ListJobs retrieves jobs with optional filters, newest first
func (db *DB) ListJobs(ctx context.Context, filters JobFilters) ([]Job, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + jobColumns + `
		FROM jobs j LEFT JOIN companies c ON c.id = j.company_id WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND j.status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	if filters.CompanyID != uuid.Nil {
		query += fmt.Sprintf(" AND j.company_id = $%d", argNum)
		args = append(args, filters.CompanyID)
		argNum++
	}
	if filters.WorkType != "" {
		query += fmt.Sprintf(" AND j.work_type = $%d", argNum)
		args = append(args, filters.WorkType)
		argNum++
	}
	if filters.JobType != "" {
		query += fmt.Sprintf(" AND j.job_type = $%d", argNum)
		args = append(args, filters.JobType)
		argNum++
	}
	if filters.Course != "" {
		query += fmt.Sprintf(" AND (j.preferred_courses = '[]'::jsonb OR j.preferred_courses ? $%d)", argNum)
		args = append(args, filters.Course)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY j.created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// ListOpenJobs retrieves all open jobs, newest first. This is the
// opportunity pool for ranking.
func (db *DB) ListOpenJobs(ctx context.Context) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j LEFT JOIN companies c ON c.id = j.company_id
		 WHERE j.status = 'open'
		 ORDER BY j.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// ReplaceJobRequirements swaps a job's requirement list in one transaction.
func (db *DB) ReplaceJobRequirements(ctx context.Context, jobID uuid.UUID, requirements []JobRequirement) ([]JobRequirement, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM job_requirements WHERE job_id = $1`, jobID); err != nil {
		return nil, fmt.Errorf("failed to clear job requirements: %w", err)
	}

	for _, req := range requirements {
		weight := req.Weight
		if weight == 0 {
			weight = 1.0
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_requirements (job_id, subject_id, minimum_grade, weight, is_mandatory)
			 VALUES ($1, $2, $3, $4, $5)`,
			jobID, req.SubjectID, req.MinimumGrade, weight, req.IsMandatory,
		); err != nil {
			return nil, fmt.Errorf("failed to insert job requirement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return db.ListRequirementsByJob(ctx, jobID)
}

// ListRequirementsByJob retrieves a job's requirements with subject metadata.
// A requirement whose subject row is gone keeps empty code and name.
func (db *DB) ListRequirementsByJob(ctx context.Context, jobID uuid.UUID) ([]JobRequirement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT r.id, r.job_id, r.subject_id, r.minimum_grade, r.weight, r.is_mandatory,
		        COALESCE(s.code, ''), COALESCE(s.name, ''), r.created_at
		 FROM job_requirements r LEFT JOIN subjects s ON s.id = r.subject_id
		 WHERE r.job_id = $1
		 ORDER BY r.created_at ASC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job requirements: %w", err)
	}
	defer rows.Close()

	var requirements []JobRequirement
	for rows.Next() {
		var r JobRequirement
		if err := rows.Scan(&r.ID, &r.JobID, &r.SubjectID, &r.MinimumGrade, &r.Weight,
			&r.IsMandatory, &r.SubjectCode, &r.SubjectName, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job requirement: %w", err)
		}
		requirements = append(requirements, r)
	}
	return requirements, nil
}
