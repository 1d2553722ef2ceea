package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// AppendMatchLog inserts one calculation log entry. Callers treat failures
// as droppable; the log is an audit trail, not part of scoring.
func (db *DB) AppendMatchLog(ctx context.Context, studentID, jobID uuid.UUID, matchScore float64, details any) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal match details: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO match_logs (student_id, job_id, match_score, details)
		 VALUES ($1, $2, $3, $4)`,
		studentID, jobID, matchScore, detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to append match log: %w", err)
	}
	return nil
}

// ListMatchLogsByStudent retrieves a student's calculation history, newest first
func (db *DB) ListMatchLogsByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]MatchLog, error) {
	if limit == 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, student_id, job_id, match_score, details, created_at
		 FROM match_logs
		 WHERE student_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		studentID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list match logs: %w", err)
	}
	defer rows.Close()

	var logs []MatchLog
	for rows.Next() {
		var l MatchLog
		var detailsJSON []byte
		if err := rows.Scan(&l.ID, &l.StudentID, &l.JobID, &l.MatchScore, &detailsJSON, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match log: %w", err)
		}
		l.Details = json.RawMessage(detailsJSON)
		logs = append(logs, l)
	}
	return logs, nil
}
