package matching

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// RankJobsForStudent scores the student against every open job and returns
// the matches at or above minScore, best first, truncated to limit.
// Calculation logging stays off in this bulk path. A pair whose breakdown
// carries the not-found marker is skipped; storage failures abort the scan.
func (e *Engine) RankJobsForStudent(ctx context.Context, studentID uuid.UUID, minScore float64, limit int) ([]JobMatch, error) {
	if limit <= 0 {
		limit = DefaultJobLimit
	}

	jobs, err := e.store.ListOpenJobs(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]JobMatch, 0, len(jobs))
	for _, job := range jobs {
		b, err := e.Score(ctx, studentID, job.ID, ScoreOptions{})
		if err != nil {
			return nil, err
		}
		if b.Err != "" || b.FinalScore < minScore {
			continue
		}

		companyName := job.CompanyName
		if companyName == "" {
			companyName = "N/A"
		}
		salaryRange := ""
		if job.SalaryRange != nil {
			salaryRange = *job.SalaryRange
		}

		matches = append(matches, JobMatch{
			JobID:                job.ID,
			JobTitle:             job.Title,
			CompanyName:          companyName,
			MatchScore:           b.RawScore,
			MatchPercentage:      b.FinalScore,
			Location:             job.Location,
			WorkType:             job.WorkType,
			SalaryRange:          salaryRange,
			MatchedSubjects:      b.MatchedSubjects,
			MissingSubjects:      b.MissingSubjects,
			GPAMatch:             b.GPAMatch,
			SemesterMatch:        b.SemesterMatch,
			CourseMatch:          b.CourseMatch,
			RecommendationReason: b.RecommendationReason,
		})
	}

	// Stable sort keeps store order (newest job first) for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercentage > matches[j].MatchPercentage
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	if e.metrics != nil {
		e.metrics.RecordRankingScan("jobs")
	}
	return matches, nil
}

// RankCandidatesForJob scores every active-account student against the job
// and returns the matches at or above minScore, best first, truncated to
// limit. Same bulk semantics as RankJobsForStudent.
func (e *Engine) RankCandidatesForJob(ctx context.Context, jobID uuid.UUID, minScore float64, limit int) ([]CandidateMatch, error) {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	students, err := e.store.ListActiveStudents(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]CandidateMatch, 0, len(students))
	for _, student := range students {
		b, err := e.Score(ctx, student.ID, jobID, ScoreOptions{})
		if err != nil {
			return nil, err
		}
		if b.Err != "" || b.FinalScore < minScore {
			continue
		}

		matches = append(matches, CandidateMatch{
			StudentID:            student.ID,
			StudentName:          student.FullName,
			RegistrationNumber:   student.RegistrationNumber,
			Course:               student.Course,
			Semester:             student.Semester,
			GPA:                  student.GPA,
			Email:                student.Email,
			MatchScore:           b.RawScore,
			MatchPercentage:      b.FinalScore,
			MatchedSubjects:      b.MatchedSubjects,
			MissingSubjects:      b.MissingSubjects,
			RecommendationReason: b.RecommendationReason,
		})
	}

	// Stable sort keeps store order (newest student first) for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercentage > matches[j].MatchPercentage
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	if e.metrics != nil {
		e.metrics.RecordRankingScan("candidates")
	}
	return matches, nil
}
