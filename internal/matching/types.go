package matching

import (
	"time"

	"github.com/google/uuid"
)

// SubjectMatch records how one job requirement fared against the student's
// resolved grade. StudentGrade is nil when the student has no grade for the
// subject.
type SubjectMatch struct {
	SubjectID     uuid.UUID `json:"subject_id"`
	SubjectCode   string    `json:"subject_code"`
	SubjectName   string    `json:"subject_name"`
	RequiredGrade float64   `json:"required_grade"`
	Weight        float64   `json:"weight"`
	IsMandatory   bool      `json:"is_mandatory"`
	StudentGrade  *float64  `json:"student_grade"`
	Met           bool      `json:"met"`
	GradeExcess   float64   `json:"grade_excess,omitempty"`
}

// Breakdown is the full result of one score calculation. Err is set, with a
// zero score, when the student or job does not exist; batch callers skip
// such records.
type Breakdown struct {
	StudentID    uuid.UUID `json:"student_id"`
	JobID        uuid.UUID `json:"job_id"`
	StudentName  string    `json:"student_name,omitempty"`
	JobTitle     string    `json:"job_title,omitempty"`
	CalculatedAt time.Time `json:"calculated_at"`
	Err          string    `json:"error,omitempty"`

	GPAMatch    bool    `json:"gpa_match"`
	GPADeficit  float64 `json:"gpa_deficit,omitempty"`
	StudentGPA  float64 `json:"student_gpa"`
	RequiredGPA float64 `json:"required_gpa"`

	SemesterMatch    bool `json:"semester_match"`
	SemesterDeficit  int  `json:"semester_deficit,omitempty"`
	StudentSemester  int  `json:"student_semester"`
	RequiredSemester *int `json:"required_semester,omitempty"`

	CourseMatch      bool     `json:"course_match"`
	StudentCourse    string   `json:"student_course"`
	PreferredCourses []string `json:"preferred_courses"`

	MatchedSubjects        []SubjectMatch `json:"matched_subjects"`
	MissingSubjects        []SubjectMatch `json:"missing_subjects"`
	MandatoryMissing       []SubjectMatch `json:"mandatory_missing,omitempty"`
	SubjectMatchPercentage float64        `json:"subject_match_percentage"`

	RawScore             float64 `json:"raw_score"`
	FinalScore           float64 `json:"final_score"`
	MaxPossibleScore     float64 `json:"max_possible_score"`
	RecommendationReason string  `json:"recommendation_reason"`
}

// JobMatch is one entry in a student's ranked job list.
type JobMatch struct {
	JobID                uuid.UUID      `json:"job_id"`
	JobTitle             string         `json:"job_title"`
	CompanyName          string         `json:"company_name"`
	MatchScore           float64        `json:"match_score"`
	MatchPercentage      float64        `json:"match_percentage"`
	Location             string         `json:"location"`
	WorkType             string         `json:"work_type"`
	SalaryRange          string         `json:"salary_range,omitempty"`
	MatchedSubjects      []SubjectMatch `json:"matched_subjects"`
	MissingSubjects      []SubjectMatch `json:"missing_subjects"`
	GPAMatch             bool           `json:"gpa_match"`
	SemesterMatch        bool           `json:"semester_match"`
	CourseMatch          bool           `json:"course_match"`
	RecommendationReason string         `json:"recommendation_reason"`
}

// CandidateMatch is one entry in a job's ranked candidate list.
type CandidateMatch struct {
	StudentID            uuid.UUID      `json:"student_id"`
	StudentName          string         `json:"student_name"`
	RegistrationNumber   string         `json:"registration_number"`
	Course               string         `json:"course"`
	Semester             int            `json:"semester"`
	GPA                  float64        `json:"gpa"`
	Email                string         `json:"email"`
	MatchScore           float64        `json:"match_score"`
	MatchPercentage      float64        `json:"match_percentage"`
	MatchedSubjects      []SubjectMatch `json:"matched_subjects"`
	MissingSubjects      []SubjectMatch `json:"missing_subjects"`
	RecommendationReason string         `json:"recommendation_reason"`
}
