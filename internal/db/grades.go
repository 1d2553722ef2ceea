package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// distributionRanges labels the five grade histogram buckets in order.
var distributionRanges = []string{"0-2", "2-4", "4-6", "6-8", "8-10"}

// recomputeGPA updates the student's stored GPA to the mean of all their
// grades, rounded to 2 decimals, 0 when no grades remain. It must run inside
// the same transaction as the grade mutation so readers never observe a GPA
// inconsistent with the grade table.
func recomputeGPA(ctx context.Context, tx pgx.Tx, studentID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE students
		 SET gpa = COALESCE((SELECT ROUND(AVG(grade)::numeric, 2) FROM grades WHERE student_id = $1), 0),
		     updated_at = NOW()
		 WHERE id = $1`,
		studentID,
	)
	if err != nil {
		return fmt.Errorf("failed to recompute gpa: %w", err)
	}
	return nil
}

// UpsertGrade records a grade for (student, subject, term), replacing any
// existing grade for that term, and recomputes the student's GPA in the same
// transaction.
func (db *DB) UpsertGrade(ctx context.Context, studentID, subjectID uuid.UUID, grade float64, termLabel string) (*Grade, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var g Grade
	g.StudentID = studentID
	g.SubjectID = subjectID
	g.Grade = grade
	g.TermLabel = termLabel
	err = tx.QueryRow(ctx,
		`INSERT INTO grades (student_id, subject_id, grade, term_label)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, subject_id, term_label) DO UPDATE SET grade = EXCLUDED.grade
		 RETURNING id, created_at`,
		studentID, subjectID, grade, termLabel,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert grade: %w", err)
	}

	if err := recomputeGPA(ctx, tx, studentID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &g, nil
}

// DeleteGrade removes a grade and recomputes the owning student's GPA in the
// same transaction.
func (db *DB) DeleteGrade(ctx context.Context, gradeID uuid.UUID) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var studentID uuid.UUID
	err = tx.QueryRow(ctx,
		`DELETE FROM grades WHERE id = $1 RETURNING student_id`,
		gradeID,
	).Scan(&studentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("grade %s: %w", gradeID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete grade: %w", err)
	}

	if err := recomputeGPA(ctx, tx, studentID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListGradesByStudent retrieves a student's grades with subject metadata,
// most recent term first.
func (db *DB) ListGradesByStudent(ctx context.Context, studentID uuid.UUID) ([]Grade, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT g.id, g.student_id, g.subject_id, g.grade, g.term_label,
		        COALESCE(s.code, ''), COALESCE(s.name, ''), COALESCE(s.category, ''), g.created_at
		 FROM grades g LEFT JOIN subjects s ON s.id = g.subject_id
		 WHERE g.student_id = $1
		 ORDER BY g.term_label DESC, g.created_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	defer rows.Close()

	var grades []Grade
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ID, &g.StudentID, &g.SubjectID, &g.Grade, &g.TermLabel,
			&g.SubjectCode, &g.SubjectName, &g.SubjectCategory, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grade: %w", err)
		}
		grades = append(grades, g)
	}
	return grades, nil
}

// GetAcademicPerformance aggregates a student's record: GPA, grade count,
// per-category averages, and a histogram over five grade ranges.
func (db *DB) GetAcademicPerformance(ctx context.Context, studentID uuid.UUID) (*AcademicPerformance, error) {
	student, err := db.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, nil
	}

	perf := &AcademicPerformance{StudentID: studentID, GPA: student.GPA}

	rows, err := db.pool.Query(ctx,
		`SELECT COALESCE(NULLIF(s.category, ''), 'uncategorized'), COUNT(*), ROUND(AVG(g.grade)::numeric, 2)
		 FROM grades g LEFT JOIN subjects s ON s.id = g.subject_id
		 WHERE g.student_id = $1
		 GROUP BY 1 ORDER BY 1`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c CategoryPerformance
		if err := rows.Scan(&c.Category, &c.GradeCount, &c.Average); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		perf.ByCategory = append(perf.ByCategory, c)
		perf.GradeCount += c.GradeCount
	}
	rows.Close()

	// width_bucket is right-exclusive, so a perfect 10 lands in bucket 6;
	// clamp it into the top range.
	counts := make(map[int]int)
	bucketRows, err := db.pool.Query(ctx,
		`SELECT LEAST(width_bucket(grade, 0, 10, 5), 5), COUNT(*)
		 FROM grades WHERE student_id = $1
		 GROUP BY 1`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate distribution: %w", err)
	}
	defer bucketRows.Close()

	for bucketRows.Next() {
		var bucket, count int
		if err := bucketRows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		counts[bucket] = count
	}

	for i, label := range distributionRanges {
		perf.Distribution = append(perf.Distribution, DistributionBucket{
			Range: label,
			Count: counts[i+1],
		})
	}
	return perf, nil
}
