package types

import (
	"time"

	"github.com/google/uuid"
)

// UpdateStudentRequest carries a partial student profile update. Nil fields
// are left untouched.
type UpdateStudentRequest struct {
	FullName     *string `json:"full_name,omitempty" validate:"omitempty,min=1"`
	Course       *string `json:"course,omitempty" validate:"omitempty,min=1"`
	Semester     *int    `json:"semester,omitempty" validate:"omitempty,min=1,max=20"`
	Phone        *string `json:"phone,omitempty"`
	LinkedinURL  *string `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	GithubURL    *string `json:"github_url,omitempty" validate:"omitempty,url"`
	PortfolioURL *string `json:"portfolio_url,omitempty" validate:"omitempty,url"`
	Bio          *string `json:"bio,omitempty"`
	Skills       *string `json:"skills,omitempty"`
}

// UpdateCompanyRequest carries a partial company profile update.
type UpdateCompanyRequest struct {
	CompanyName  *string `json:"company_name,omitempty" validate:"omitempty,min=1"`
	Industry     *string `json:"industry,omitempty"`
	Size         *string `json:"size,omitempty"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
	Description  *string `json:"description,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty" validate:"omitempty,url"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
}

// CreateSubjectRequest represents a new curriculum subject.
type CreateSubjectRequest struct {
	Code        string `json:"code" validate:"required,min=1"`
	Name        string `json:"name" validate:"required,min=1"`
	Course      string `json:"course,omitempty"`
	Semester    int    `json:"semester,omitempty" validate:"omitempty,min=1,max=20"`
	Credits     int    `json:"credits,omitempty" validate:"omitempty,min=1"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// BulkCreateSubjectsRequest represents a batch of subjects to create in one
// transaction. Duplicated codes are skipped, not rejected.
type BulkCreateSubjectsRequest struct {
	Subjects []CreateSubjectRequest `json:"subjects" validate:"required,min=1,dive"`
}

// UpdateSubjectRequest carries a partial subject update.
type UpdateSubjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Course      *string `json:"course,omitempty"`
	Semester    *int    `json:"semester,omitempty" validate:"omitempty,min=1,max=20"`
	Credits     *int    `json:"credits,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// UpsertGradeRequest records one grade for one subject in one term.
// Re-posting the same (subject, term) pair overwrites the grade.
type UpsertGradeRequest struct {
	SubjectID uuid.UUID `json:"subject_id" validate:"required"`
	Grade     float64   `json:"grade" validate:"min=0,max=10"`
	TermLabel string    `json:"term_label" validate:"required,min=1"`
}

// CreateJobRequest represents a new job posting.
type CreateJobRequest struct {
	CompanyID           uuid.UUID  `json:"company_id" validate:"required"`
	Title               string     `json:"title" validate:"required,min=1"`
	Description         string     `json:"description" validate:"required,min=1"`
	RequirementsText    string     `json:"requirements_text,omitempty"`
	Responsibilities    string     `json:"responsibilities,omitempty"`
	Benefits            string     `json:"benefits,omitempty"`
	SalaryRange         string     `json:"salary_range,omitempty"`
	Location            string     `json:"location" validate:"required,min=1"`
	WorkType            string     `json:"work_type" validate:"required,oneof=onsite remote hybrid"`
	JobType             string     `json:"job_type" validate:"required,oneof=internship full_time part_time trainee"`
	MinimumGPA          float64    `json:"minimum_gpa" validate:"min=0,max=10"`
	MinimumSemester     *int       `json:"minimum_semester,omitempty" validate:"omitempty,min=1,max=20"`
	PreferredCourses    []string   `json:"preferred_courses,omitempty"`
	Vacancies           int        `json:"vacancies,omitempty" validate:"omitempty,min=1"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
}

// UpdateJobRequest carries a partial job update.
type UpdateJobRequest struct {
	Title            *string  `json:"title,omitempty" validate:"omitempty,min=1"`
	Description      *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	RequirementsText *string  `json:"requirements_text,omitempty"`
	Responsibilities *string  `json:"responsibilities,omitempty"`
	Benefits         *string  `json:"benefits,omitempty"`
	SalaryRange      *string  `json:"salary_range,omitempty"`
	Location         *string  `json:"location,omitempty" validate:"omitempty,min=1"`
	WorkType         *string  `json:"work_type,omitempty" validate:"omitempty,oneof=onsite remote hybrid"`
	JobType          *string  `json:"job_type,omitempty" validate:"omitempty,oneof=internship full_time part_time trainee"`
	MinimumGPA       *float64 `json:"minimum_gpa,omitempty" validate:"omitempty,min=0,max=10"`
	MinimumSemester  *int     `json:"minimum_semester,omitempty" validate:"omitempty,min=1,max=20"`
	PreferredCourses []string `json:"preferred_courses,omitempty"`
	Vacancies        *int     `json:"vacancies,omitempty" validate:"omitempty,min=1"`
}

// UpdateJobStatusRequest moves a job out of the open state.
type UpdateJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=closed filled"`
}

// RequirementInput is one subject requirement inside a replace-all request.
type RequirementInput struct {
	SubjectID    uuid.UUID `json:"subject_id" validate:"required"`
	MinimumGrade float64   `json:"minimum_grade" validate:"min=0,max=10"`
	Weight       float64   `json:"weight" validate:"omitempty,gt=0"`
	IsMandatory  bool      `json:"is_mandatory"`
}

// ReplaceRequirementsRequest replaces a job's full requirement list.
type ReplaceRequirementsRequest struct {
	Requirements []RequirementInput `json:"requirements" validate:"dive"`
}

// CreateApplicationRequest represents a student applying to a job.
type CreateApplicationRequest struct {
	StudentID   uuid.UUID `json:"student_id" validate:"required"`
	JobID       uuid.UUID `json:"job_id" validate:"required"`
	CoverLetter string    `json:"cover_letter,omitempty"`
}

// UpdateApplicationStatusRequest moves an application through its workflow.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected interview"`
}
