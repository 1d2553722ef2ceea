package matching

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// AnalyticsMatch is a compact (job, score) pair for top-match lists.
type AnalyticsMatch struct {
	JobID           uuid.UUID `json:"job_id"`
	JobTitle        string    `json:"job_title"`
	MatchPercentage float64   `json:"match_percentage"`
}

// JobTypeCompatibility averages a student's scores over one job type.
type JobTypeCompatibility struct {
	JobType      string  `json:"job_type"`
	JobCount     int     `json:"job_count"`
	AverageScore float64 `json:"average_score"`
}

// StudentAnalytics summarizes a student's standing across all open jobs.
type StudentAnalytics struct {
	StudentID     uuid.UUID              `json:"student_id"`
	TotalOpenJobs int                    `json:"total_open_jobs"`
	AverageScore  float64                `json:"average_score"`
	BestScore     float64                `json:"best_score"`
	TopMatches    []AnalyticsMatch       `json:"top_matches"`
	ByJobType     []JobTypeCompatibility `json:"by_job_type"`
}

// RequirementGap counts how often candidates missed one required subject.
type RequirementGap struct {
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	MissCount   int    `json:"miss_count"`
}

// JobAnalytics summarizes the candidate pool for one job.
type JobAnalytics struct {
	JobID          uuid.UUID        `json:"job_id"`
	CandidateCount int              `json:"candidate_count"`
	QualifiedCount int              `json:"qualified_count"`
	AverageScore   float64          `json:"average_score"`
	CommonGaps     []RequirementGap `json:"common_gaps"`
}

const topMatchLimit = 5
const commonGapLimit = 5

// StudentAnalytics scores the student against every open job with logging
// disabled and aggregates the results. A missing student yields nil.
func (e *Engine) StudentAnalytics(ctx context.Context, studentID uuid.UUID) (*StudentAnalytics, error) {
	student, err := e.store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, nil
	}

	jobs, err := e.store.ListOpenJobs(ctx)
	if err != nil {
		return nil, err
	}

	analytics := &StudentAnalytics{
		StudentID:  studentID,
		TopMatches: []AnalyticsMatch{},
		ByJobType:  []JobTypeCompatibility{},
	}

	type typeAccum struct {
		count int
		sum   float64
	}
	byType := make(map[string]*typeAccum)
	var typeOrder []string

	sum := 0.0
	for _, job := range jobs {
		b, err := e.Score(ctx, studentID, job.ID, ScoreOptions{})
		if err != nil {
			return nil, err
		}
		if b.Err != "" {
			continue
		}

		analytics.TotalOpenJobs++
		sum += b.FinalScore
		if b.FinalScore > analytics.BestScore {
			analytics.BestScore = b.FinalScore
		}
		analytics.TopMatches = append(analytics.TopMatches, AnalyticsMatch{
			JobID:           job.ID,
			JobTitle:        job.Title,
			MatchPercentage: b.FinalScore,
		})

		accum, ok := byType[job.JobType]
		if !ok {
			accum = &typeAccum{}
			byType[job.JobType] = accum
			typeOrder = append(typeOrder, job.JobType)
		}
		accum.count++
		accum.sum += b.FinalScore
	}

	if analytics.TotalOpenJobs > 0 {
		analytics.AverageScore = round2(sum / float64(analytics.TotalOpenJobs))
	}

	sort.SliceStable(analytics.TopMatches, func(i, j int) bool {
		return analytics.TopMatches[i].MatchPercentage > analytics.TopMatches[j].MatchPercentage
	})
	if len(analytics.TopMatches) > topMatchLimit {
		analytics.TopMatches = analytics.TopMatches[:topMatchLimit]
	}

	for _, jobType := range typeOrder {
		accum := byType[jobType]
		analytics.ByJobType = append(analytics.ByJobType, JobTypeCompatibility{
			JobType:      jobType,
			JobCount:     accum.count,
			AverageScore: round2(accum.sum / float64(accum.count)),
		})
	}

	return analytics, nil
}

// JobAnalytics scores every active student against the job with logging
// disabled and aggregates the pool: qualified count, average, and the
// subjects candidates most often missed. A missing job yields nil.
func (e *Engine) JobAnalytics(ctx context.Context, jobID uuid.UUID) (*JobAnalytics, error) {
	job, err := e.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	students, err := e.store.ListActiveStudents(ctx)
	if err != nil {
		return nil, err
	}

	analytics := &JobAnalytics{JobID: jobID, CommonGaps: []RequirementGap{}}

	gapCounts := make(map[string]*RequirementGap)
	var gapOrder []string

	sum := 0.0
	for _, student := range students {
		b, err := e.Score(ctx, student.ID, jobID, ScoreOptions{})
		if err != nil {
			return nil, err
		}
		if b.Err != "" {
			continue
		}

		analytics.CandidateCount++
		sum += b.FinalScore
		if b.FinalScore >= qualifiedThreshold {
			analytics.QualifiedCount++
		}

		for _, missing := range b.MissingSubjects {
			gap, ok := gapCounts[missing.SubjectCode]
			if !ok {
				gap = &RequirementGap{SubjectCode: missing.SubjectCode, SubjectName: missing.SubjectName}
				gapCounts[missing.SubjectCode] = gap
				gapOrder = append(gapOrder, missing.SubjectCode)
			}
			gap.MissCount++
		}
	}

	if analytics.CandidateCount > 0 {
		analytics.AverageScore = round2(sum / float64(analytics.CandidateCount))
	}

	for _, code := range gapOrder {
		analytics.CommonGaps = append(analytics.CommonGaps, *gapCounts[code])
	}
	sort.SliceStable(analytics.CommonGaps, func(i, j int) bool {
		return analytics.CommonGaps[i].MissCount > analytics.CommonGaps[j].MissCount
	})
	if len(analytics.CommonGaps) > commonGapLimit {
		analytics.CommonGaps = analytics.CommonGaps[:commonGapLimit]
	}

	return analytics, nil
}
