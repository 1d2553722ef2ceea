package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/types"
)

func subjectFromRequest(req *types.CreateSubjectRequest) db.Subject {
	subject := db.Subject{
		Code:     req.Code,
		Name:     req.Name,
		Course:   req.Course,
		Semester: req.Semester,
		Credits:  req.Credits,
		Category: req.Category,
	}
	if req.Description != "" {
		subject.Description = &req.Description
	}
	return subject
}

// handleCreateSubject creates a curriculum subject
func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req types.CreateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	existing, err := s.db.GetSubjectByCode(r.Context(), req.Code)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if existing != nil {
		s.errorResponse(w, http.StatusConflict, "Subject code already exists")
		return
	}

	subject := subjectFromRequest(&req)
	created, err := s.db.CreateSubject(r.Context(), &subject)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

// handleBulkCreateSubjects creates a batch of subjects in one transaction,
// skipping codes that already exist
func (s *Server) handleBulkCreateSubjects(w http.ResponseWriter, r *http.Request) {
	var req types.BulkCreateSubjectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	subjects := make([]db.Subject, 0, len(req.Subjects))
	for i := range req.Subjects {
		subjects = append(subjects, subjectFromRequest(&req.Subjects[i]))
	}

	created, skipped, err := s.db.CreateSubjects(r.Context(), subjects)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"created": created,
		"skipped": skipped,
	})
}

// handleListSubjects lists subjects with optional filters
func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	filters := db.SubjectFilters{
		Course:   r.URL.Query().Get("course"),
		Semester: parseQueryInt(r, "semester", 0, 0),
		Category: r.URL.Query().Get("category"),
	}

	subjects, err := s.db.ListSubjects(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"subjects": subjects,
		"count":    len(subjects),
	})
}

// handleGetSubject retrieves a subject by ID
func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid subject ID")
		return
	}

	subject, err := s.db.GetSubject(r.Context(), subjectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if subject == nil {
		s.errorResponse(w, http.StatusNotFound, "Subject not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, subject)
}

// handleUpdateSubject applies a partial subject update
func (s *Server) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid subject ID")
		return
	}

	var req types.UpdateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	subject, err := s.db.UpdateSubject(r.Context(), subjectID, req.Name, req.Course,
		req.Semester, req.Credits, req.Description, req.Category)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if subject == nil {
		s.errorResponse(w, http.StatusNotFound, "Subject not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, subject)
}

// handleDeleteSubject deletes a subject unless grades or job requirements
// still reference it
func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid subject ID")
		return
	}

	if err := s.db.DeleteSubject(r.Context(), subjectID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Subject deleted"})
}

// handleSubjectStats reports grade aggregates and open-job demand for a subject
func (s *Server) handleSubjectStats(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid subject ID")
		return
	}

	stats, err := s.db.GetSubjectStats(r.Context(), subjectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if stats == nil {
		s.errorResponse(w, http.StatusNotFound, "Subject not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}
