// Package matching computes weighted compatibility scores between students
// and job postings, and ranks either side for the other.
package matching

// Criterion weights for the match score. They sum to 100; the GPA excess
// bonus can add up to 5 more on top, so a perfect final score is 105.
const (
	gpaWeight      = 20.0
	semesterWeight = 10.0
	courseWeight   = 15.0
	subjectWeight  = 55.0

	maxPossibleScore = gpaWeight + semesterWeight + courseWeight + subjectWeight

	gpaBonusMax = 5.0
	gradeScale  = 10.0
)

// Ranking defaults, applied by callers that omit the parameters.
const (
	DefaultJobMinScore = 50.0
	DefaultJobLimit    = 10

	DefaultCandidateMinScore = 60.0
	DefaultCandidateLimit    = 20
)

// qualifiedThreshold is the final score at or above which analytics counts a
// candidate as qualified for a job.
const qualifiedThreshold = 60.0
