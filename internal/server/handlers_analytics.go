package server

import (
	"net/http"

	"github.com/google/uuid"
)

// handleStudentAnalytics reports a student's standing across all open jobs
func (s *Server) handleStudentAnalytics(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	analytics, err := s.engine.StudentAnalytics(r.Context(), studentID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if analytics == nil {
		s.errorResponse(w, http.StatusNotFound, "Student not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, analytics)
}

// handleJobAnalytics reports a job's candidate pool quality
func (s *Server) handleJobAnalytics(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	analytics, err := s.engine.JobAnalytics(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if analytics == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, analytics)
}
