package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/matching"
)

// handleMatchScore computes the full compatibility breakdown for one
// student/job pair. Logging is on unless ?log=false.
func (s *Server) handleMatchScore(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.PathValue("student_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid student ID")
		return
	}
	jobID, err := uuid.Parse(r.PathValue("job_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	opts := matching.ScoreOptions{SaveLog: r.URL.Query().Get("log") != "false"}
	breakdown, err := s.engine.Score(r.Context(), studentID, jobID, opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if breakdown.Err != "" {
		s.errorResponse(w, http.StatusNotFound, "Student or job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, breakdown)
}

// handleRankJobs returns the best open jobs for a student
func (s *Server) handleRankJobs(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	student, err := s.db.GetStudent(r.Context(), studentID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if student == nil {
		s.errorResponse(w, http.StatusNotFound, "Student not found")
		return
	}

	minScore := parseQueryFloat(r, "min_score", matching.DefaultJobMinScore)
	limit := parseQueryInt(r, "limit", matching.DefaultJobLimit, 100)

	matches, err := s.engine.RankJobsForStudent(r.Context(), studentID, minScore, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"student_id": studentID,
		"matches":    matches,
		"count":      len(matches),
	})
}

// handleRankCandidates returns the best-fitting active students for a job
func (s *Server) handleRankCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	minScore := parseQueryFloat(r, "min_score", matching.DefaultCandidateMinScore)
	limit := parseQueryInt(r, "limit", matching.DefaultCandidateLimit, 100)

	matches, err := s.engine.RankCandidatesForJob(r.Context(), jobID, minScore, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":  jobID,
		"matches": matches,
		"count":   len(matches),
	})
}

// handleMatchHistory returns a student's calculation log, newest first
func (s *Server) handleMatchHistory(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	limit := parseQueryInt(r, "limit", 20, 100)
	logs, err := s.db.ListMatchLogsByStudent(r.Context(), studentID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"student_id": studentID,
		"history":    logs,
		"count":      len(logs),
	})
}
