package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/types"
)

// parseQueryFloat parses a float query parameter, falling back to the default
// on absence or garbage.
func parseQueryFloat(r *http.Request, key string, defaultValue float64) float64 {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val < 0 {
		return defaultValue
	}
	return val
}

// handleListStudents lists students with optional filters
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	filters := db.StudentFilters{
		Course:      r.URL.Query().Get("course"),
		MinSemester: parseQueryInt(r, "min_semester", 0, 0),
		MinGPA:      parseQueryFloat(r, "min_gpa", 0),
		Limit:       parseQueryInt(r, "limit", 50, 200),
	}

	students, err := s.db.ListStudents(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"students": students,
		"count":    len(students),
	})
}

// handleGetStudent retrieves a student by ID
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
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

	s.jsonResponse(w, http.StatusOK, student)
}

// handleUpdateStudent applies a partial profile update
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	var req types.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	student, err := s.db.UpdateStudent(r.Context(), studentID, req.FullName, req.Course, req.Semester,
		req.Phone, req.LinkedinURL, req.GithubURL, req.PortfolioURL, req.Bio, req.Skills)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if student == nil {
		s.errorResponse(w, http.StatusNotFound, "Student not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, student)
}

// handleListGrades lists a student's grades with subject metadata
func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	grades, err := s.db.ListGradesByStudent(r.Context(), studentID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"grades": grades,
		"count":  len(grades),
	})
}

// handleUpsertGrade records one grade for one subject in one term. The
// student's GPA is recomputed in the same transaction.
func (s *Server) handleUpsertGrade(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	var req types.UpsertGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
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

	subject, err := s.db.GetSubject(r.Context(), req.SubjectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if subject == nil {
		s.errorResponse(w, http.StatusNotFound, "Subject not found")
		return
	}

	grade, err := s.db.UpsertGrade(r.Context(), studentID, req.SubjectID, req.Grade, req.TermLabel)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, grade)
}

// handleDeleteGrade removes a grade and recomputes the student's GPA
func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	gradeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid grade ID")
		return
	}

	if err := s.db.DeleteGrade(r.Context(), gradeID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Grade deleted"})
}

// handleStudentPerformance reports GPA, per-category averages, and the grade
// distribution histogram
func (s *Server) handleStudentPerformance(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	perf, err := s.db.GetAcademicPerformance(r.Context(), studentID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if perf == nil {
		s.errorResponse(w, http.StatusNotFound, "Student not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, perf)
}
