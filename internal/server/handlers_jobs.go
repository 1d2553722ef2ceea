package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/types"
)

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// handleCreateJob creates a job posting for an existing company
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	company, err := s.db.GetCompany(r.Context(), req.CompanyID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}

	job := &db.Job{
		CompanyID:           req.CompanyID,
		Title:               req.Title,
		Description:         req.Description,
		RequirementsText:    optionalString(req.RequirementsText),
		Responsibilities:    optionalString(req.Responsibilities),
		Benefits:            optionalString(req.Benefits),
		SalaryRange:         optionalString(req.SalaryRange),
		Location:            req.Location,
		WorkType:            req.WorkType,
		JobType:             req.JobType,
		MinimumGPA:          req.MinimumGPA,
		MinimumSemester:     req.MinimumSemester,
		PreferredCourses:    req.PreferredCourses,
		Vacancies:           req.Vacancies,
		ApplicationDeadline: req.ApplicationDeadline,
	}

	created, err := s.db.CreateJob(r.Context(), job)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

// handleListJobs lists jobs with optional filters
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	filters := db.JobFilters{
		Status:   r.URL.Query().Get("status"),
		WorkType: r.URL.Query().Get("work_type"),
		JobType:  r.URL.Query().Get("job_type"),
		Course:   r.URL.Query().Get("course"),
		Limit:    parseQueryInt(r, "limit", 50, 200),
	}
	if companyStr := r.URL.Query().Get("company_id"); companyStr != "" {
		companyID, err := uuid.Parse(companyStr)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
			return
		}
		filters.CompanyID = companyID
	}

	jobs, err := s.db.ListJobs(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleGetJob retrieves a job with its requirement list
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
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

	requirements, err := s.db.ListRequirementsByJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job":          job,
		"requirements": requirements,
	})
}

// handleUpdateJob applies a partial job update
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req types.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, err := s.db.UpdateJob(r.Context(), jobID, req.Title, req.Description, req.RequirementsText,
		req.Responsibilities, req.Benefits, req.SalaryRange, req.Location, req.WorkType, req.JobType,
		req.MinimumGPA, req.MinimumSemester, req.PreferredCourses, req.Vacancies)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleUpdateJobStatus closes or fills an open job. Reopening is rejected.
func (s *Server) handleUpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req types.UpdateJobStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, err := s.db.UpdateJobStatus(r.Context(), jobID, req.Status)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleListJobRequirements lists a job's subject requirements
func (s *Server) handleListJobRequirements(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	requirements, err := s.db.ListRequirementsByJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"requirements": requirements,
		"count":        len(requirements),
	})
}

// handleReplaceJobRequirements replaces a job's full requirement list
func (s *Server) handleReplaceJobRequirements(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req types.ReplaceRequirementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
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

	requirements := make([]db.JobRequirement, 0, len(req.Requirements))
	for _, input := range req.Requirements {
		subject, err := s.db.GetSubject(r.Context(), input.SubjectID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if subject == nil {
			s.errorResponse(w, http.StatusNotFound, "Subject not found: "+input.SubjectID.String())
			return
		}
		requirements = append(requirements, db.JobRequirement{
			SubjectID:    input.SubjectID,
			MinimumGrade: input.MinimumGrade,
			Weight:       input.Weight,
			IsMandatory:  input.IsMandatory,
		})
	}

	replaced, err := s.db.ReplaceJobRequirements(r.Context(), jobID, requirements)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"requirements": replaced,
		"count":        len(replaced),
	})
}
