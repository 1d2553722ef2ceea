package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateSubject creates a curriculum subject and returns it
func (db *DB) CreateSubject(ctx context.Context, subject *Subject) (*Subject, error) {
	var s Subject
	err := db.pool.QueryRow(ctx,
		`INSERT INTO subjects (code, name, course, semester, credits, description, category)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, code, name, course, semester, credits, description, category, created_at`,
		subject.Code, subject.Name, subject.Course, subject.Semester, subject.Credits,
		subject.Description, subject.Category,
	).Scan(&s.ID, &s.Code, &s.Name, &s.Course, &s.Semester, &s.Credits, &s.Description, &s.Category, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return &s, nil
}

// CreateSubjects bulk-inserts subjects in one transaction, skipping codes
// that already exist. It returns the number inserted and the skipped codes.
func (db *DB) CreateSubjects(ctx context.Context, subjects []Subject) (int, []string, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created := 0
	var skipped []string
	for _, subject := range subjects {
		result, err := tx.Exec(ctx,
			`INSERT INTO subjects (code, name, course, semester, credits, description, category)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (code) DO NOTHING`,
			subject.Code, subject.Name, subject.Course, subject.Semester, subject.Credits,
			subject.Description, subject.Category,
		)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to insert subject %s: %w", subject.Code, err)
		}
		if result.RowsAffected() == 0 {
			skipped = append(skipped, subject.Code)
		} else {
			created++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, skipped, nil
}

// GetSubject retrieves a subject by ID, or nil when it does not exist
func (db *DB) GetSubject(ctx context.Context, subjectID uuid.UUID) (*Subject, error) {
	var s Subject
	err := db.pool.QueryRow(ctx,
		`SELECT id, code, name, course, semester, credits, description, category, created_at
		 FROM subjects WHERE id = $1`,
		subjectID,
	).Scan(&s.ID, &s.Code, &s.Name, &s.Course, &s.Semester, &s.Credits, &s.Description, &s.Category, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return &s, nil
}

// GetSubjectByCode retrieves a subject by its unique code, or nil when absent
func (db *DB) GetSubjectByCode(ctx context.Context, code string) (*Subject, error) {
	var s Subject
	err := db.pool.QueryRow(ctx,
		`SELECT id, code, name, course, semester, credits, description, category, created_at
		 FROM subjects WHERE code = $1`,
		code,
	).Scan(&s.ID, &s.Code, &s.Name, &s.Course, &s.Semester, &s.Credits, &s.Description, &s.Category, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subject by code: %w", err)
	}
	return &s, nil
}

// ListSubjects retrieves subjects with optional filters, ordered by code
func (db *DB) ListSubjects(ctx context.Context, filters SubjectFilters) ([]Subject, error) {
	query := `SELECT id, code, name, course, semester, credits, description, category, created_at
		FROM subjects WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Course != "" {
		query += fmt.Sprintf(" AND course = $%d", argNum)
		args = append(args, filters.Course)
		argNum++
	}
	if filters.Semester > 0 {
		query += fmt.Sprintf(" AND semester = $%d", argNum)
		args = append(args, filters.Semester)
		argNum++
	}
	if filters.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, filters.Category)
	}

	query += " ORDER BY code ASC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Course, &s.Semester, &s.Credits,
			&s.Description, &s.Category, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

// UpdateSubject updates subject fields; nil pointers leave columns unchanged
func (db *DB) UpdateSubject(ctx context.Context, subjectID uuid.UUID, name, course *string,
	semester, credits *int, description, category *string) (*Subject, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE subjects
		 SET name = COALESCE($1, name), course = COALESCE($2, course),
		     semester = COALESCE($3, semester), credits = COALESCE($4, credits),
		     description = COALESCE($5, description), category = COALESCE($6, category)
		 WHERE id = $7`,
		name, course, semester, credits, description, category, subjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, nil
	}
	return db.GetSubject(ctx, subjectID)
}

// DeleteSubject removes a subject unless grades or job requirements still
// reference it.
func (db *DB) DeleteSubject(ctx context.Context, subjectID uuid.UUID) error {
	var inUse bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM grades WHERE subject_id = $1)
		     OR EXISTS(SELECT 1 FROM job_requirements WHERE subject_id = $1)`,
		subjectID,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check subject references: %w", err)
	}
	if inUse {
		return ErrSubjectInUse
	}

	result, err := db.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, subjectID)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("subject %s: %w", subjectID, ErrNotFound)
	}
	return nil
}

// GetSubjectStats aggregates grade outcomes and open-job demand for a subject.
// Pass rate counts grades of 6 or better.
func (db *DB) GetSubjectStats(ctx context.Context, subjectID uuid.UUID) (*SubjectStats, error) {
	subject, err := db.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, nil
	}

	stats := &SubjectStats{SubjectID: subjectID}
	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(ROUND(AVG(grade)::numeric, 2), 0),
		        COALESCE(MIN(grade), 0),
		        COALESCE(MAX(grade), 0),
		        COALESCE(ROUND(AVG(CASE WHEN grade >= 6 THEN 1.0 ELSE 0.0 END)::numeric, 4), 0)
		 FROM grades WHERE subject_id = $1`,
		subjectID,
	).Scan(&stats.GradeCount, &stats.Average, &stats.Min, &stats.Max, &stats.PassRate)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate subject stats: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM job_requirements r JOIN jobs j ON j.id = r.job_id
		 WHERE r.subject_id = $1 AND j.status = 'open'`,
		subjectID,
	).Scan(&stats.OpenJobCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count open jobs: %w", err)
	}
	return stats, nil
}
