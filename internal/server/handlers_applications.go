package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/matching"
	"github.com/jonathan/career-matcher/internal/types"
)

// handleCreateApplication submits an application to an open job. The match
// score at submission time is computed and frozen on the row.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req types.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	student, err := s.db.GetStudent(r.Context(), req.StudentID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if student == nil {
		s.errorResponse(w, http.StatusNotFound, "Student not found")
		return
	}

	job, err := s.db.GetJob(r.Context(), req.JobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if job.Status != db.JobStatusOpen {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Job is not open for applications")
		return
	}
	if job.ApplicationDeadline != nil && time.Now().After(*job.ApplicationDeadline) {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Application deadline has passed")
		return
	}

	var matchScore *float64
	breakdown, err := s.engine.Score(r.Context(), req.StudentID, req.JobID, matching.ScoreOptions{})
	if err != nil {
		s.log.Warn("match score unavailable at apply time",
			zap.String("student_id", req.StudentID.String()),
			zap.String("job_id", req.JobID.String()),
			zap.Error(err))
	} else if breakdown.Err == "" {
		matchScore = &breakdown.FinalScore
	}

	application, err := s.db.CreateApplication(r.Context(), req.StudentID, req.JobID, matchScore, optionalString(req.CoverLetter))
	if err != nil {
		if errors.Is(err, db.ErrAlreadyApplied) {
			s.errorResponse(w, http.StatusConflict, "Student has already applied to this job")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, application)
}

// handleListStudentApplications lists a student's applications, newest first
func (s *Server) handleListStudentApplications(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	applications, err := s.db.ListApplicationsByStudent(r.Context(), studentID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": applications,
		"count":        len(applications),
	})
}

// handleListJobApplications lists applications received by a job, newest first
func (s *Server) handleListJobApplications(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	applications, err := s.db.ListApplicationsByJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": applications,
		"count":        len(applications),
	})
}

// handleUpdateApplicationStatus moves an application through the review flow
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	applicationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	var req types.UpdateApplicationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	application, err := s.db.UpdateApplicationStatus(r.Context(), applicationID, req.Status)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if application == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, application)
}
