package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Account roles.
const (
	RoleStudent     = "student"
	RoleCompany     = "company"
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
)

// Job statuses.
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
	JobStatusFilled = "filled"
)

// Application statuses.
const (
	ApplicationPending   = "pending"
	ApplicationApproved  = "approved"
	ApplicationRejected  = "rejected"
	ApplicationInterview = "interview"
)

// Account represents a login account. PasswordHash never serializes.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Student represents a student profile. Email and AccountActive are joined
// from the accounts table on reads.
type Student struct {
	ID                 uuid.UUID `json:"id"`
	AccountID          uuid.UUID `json:"account_id"`
	FullName           string    `json:"full_name"`
	RegistrationNumber string    `json:"registration_number"`
	Course             string    `json:"course"`
	Semester           int       `json:"semester"`
	GPA                float64   `json:"gpa"`
	Phone              *string   `json:"phone,omitempty"`
	LinkedinURL        *string   `json:"linkedin_url,omitempty"`
	GithubURL          *string   `json:"github_url,omitempty"`
	PortfolioURL       *string   `json:"portfolio_url,omitempty"`
	Bio                *string   `json:"bio,omitempty"`
	Skills             *string   `json:"skills,omitempty"`
	Email              string    `json:"email,omitempty"`
	AccountActive      bool      `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Subject represents a curriculum subject.
type Subject struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Course      string    `json:"course"`
	Semester    int       `json:"semester"`
	Credits     int       `json:"credits"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// Grade represents one grade for one subject in one term. Subject fields are
// joined on reads.
type Grade struct {
	ID              uuid.UUID `json:"id"`
	StudentID       uuid.UUID `json:"student_id"`
	SubjectID       uuid.UUID `json:"subject_id"`
	Grade           float64   `json:"grade"`
	TermLabel       string    `json:"term_label"`
	SubjectCode     string    `json:"subject_code,omitempty"`
	SubjectName     string    `json:"subject_name,omitempty"`
	SubjectCategory string    `json:"subject_category,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Company represents a company profile.
type Company struct {
	ID           uuid.UUID `json:"id"`
	AccountID    uuid.UUID `json:"account_id"`
	CompanyName  string    `json:"company_name"`
	CNPJ         string    `json:"cnpj"`
	Industry     *string   `json:"industry,omitempty"`
	Size         *string   `json:"size,omitempty"`
	Website      *string   `json:"website,omitempty"`
	Description  *string   `json:"description,omitempty"`
	LogoURL      *string   `json:"logo_url,omitempty"`
	Address      *string   `json:"address,omitempty"`
	City         *string   `json:"city,omitempty"`
	State        *string   `json:"state,omitempty"`
	Country      string    `json:"country"`
	Phone        *string   `json:"phone,omitempty"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Job represents a job posting. CompanyName is joined on reads.
type Job struct {
	ID                  uuid.UUID  `json:"id"`
	CompanyID           uuid.UUID  `json:"company_id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	RequirementsText    *string    `json:"requirements_text,omitempty"`
	Responsibilities    *string    `json:"responsibilities,omitempty"`
	Benefits            *string    `json:"benefits,omitempty"`
	SalaryRange         *string    `json:"salary_range,omitempty"`
	Location            string     `json:"location"`
	WorkType            string     `json:"work_type"`
	JobType             string     `json:"job_type"`
	MinimumGPA          float64    `json:"minimum_gpa"`
	MinimumSemester     *int       `json:"minimum_semester,omitempty"`
	PreferredCourses    []string   `json:"preferred_courses"`
	Status              string     `json:"status"`
	Vacancies           int        `json:"vacancies"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	CompanyName         string     `json:"company_name,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// JobRequirement links a job to a subject with a minimum grade and weight.
// Subject code/name are joined on reads and stay empty when the subject row
// is gone.
type JobRequirement struct {
	ID           uuid.UUID `json:"id"`
	JobID        uuid.UUID `json:"job_id"`
	SubjectID    uuid.UUID `json:"subject_id"`
	MinimumGrade float64   `json:"minimum_grade"`
	Weight       float64   `json:"weight"`
	IsMandatory  bool      `json:"is_mandatory"`
	SubjectCode  string    `json:"subject_code,omitempty"`
	SubjectName  string    `json:"subject_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Application represents a student's application to a job. MatchScore is
// frozen at apply time. Job/student summary fields are joined on reads.
type Application struct {
	ID          uuid.UUID `json:"id"`
	StudentID   uuid.UUID `json:"student_id"`
	JobID       uuid.UUID `json:"job_id"`
	Status      string    `json:"status"`
	MatchScore  *float64  `json:"match_score,omitempty"`
	CoverLetter *string   `json:"cover_letter,omitempty"`
	JobTitle    string    `json:"job_title,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	StudentName string    `json:"student_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MatchLog is one append-only calculation log entry.
type MatchLog struct {
	ID         uuid.UUID       `json:"id"`
	StudentID  uuid.UUID       `json:"student_id"`
	JobID      uuid.UUID       `json:"job_id"`
	MatchScore float64         `json:"match_score"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// StudentFilters holds optional filters for listing students
type StudentFilters struct {
	Course      string
	MinSemester int
	MinGPA      float64
	Limit       int
}

// SubjectFilters holds optional filters for listing subjects
type SubjectFilters struct {
	Course   string
	Semester int
	Category string
}

// JobFilters holds optional filters for listing jobs
type JobFilters struct {
	Status    string
	CompanyID uuid.UUID
	WorkType  string
	JobType   string
	Course    string
	Limit     int
}

// CategoryPerformance aggregates a student's grades within one subject category.
type CategoryPerformance struct {
	Category   string  `json:"category"`
	GradeCount int     `json:"grade_count"`
	Average    float64 `json:"average"`
}

// DistributionBucket counts grades falling into one histogram range.
type DistributionBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// AcademicPerformance summarizes a student's academic record.
type AcademicPerformance struct {
	StudentID    uuid.UUID             `json:"student_id"`
	GPA          float64               `json:"gpa"`
	GradeCount   int                   `json:"grade_count"`
	ByCategory   []CategoryPerformance `json:"by_category"`
	Distribution []DistributionBucket  `json:"distribution"`
}

// SubjectStats aggregates grade outcomes for one subject.
type SubjectStats struct {
	SubjectID    uuid.UUID `json:"subject_id"`
	GradeCount   int       `json:"grade_count"`
	Average      float64   `json:"average"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	PassRate     float64   `json:"pass_rate"`
	OpenJobCount int       `json:"open_job_count"`
}
