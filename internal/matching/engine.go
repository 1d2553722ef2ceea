package matching

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/metrics"
)

// Store is the data access the engine needs. *db.DB satisfies it.
type Store interface {
	GetStudent(ctx context.Context, studentID uuid.UUID) (*db.Student, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*db.Job, error)
	ListGradesByStudent(ctx context.Context, studentID uuid.UUID) ([]db.Grade, error)
	ListRequirementsByJob(ctx context.Context, jobID uuid.UUID) ([]db.JobRequirement, error)
	ListOpenJobs(ctx context.Context) ([]db.Job, error)
	ListActiveStudents(ctx context.Context) ([]db.Student, error)
	AppendMatchLog(ctx context.Context, studentID, jobID uuid.UUID, matchScore float64, details any) error
}

// Engine scores (student, job) pairs and ranks either side for the other.
// Scoring is deterministic: the same stored facts always produce the same
// breakdown.
type Engine struct {
	store   Store
	log     *zap.Logger
	metrics *metrics.Manager
}

// NewEngine creates an engine. The metrics manager may be nil.
func NewEngine(store Store, logger *zap.Logger, m *metrics.Manager) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, log: logger, metrics: m}
}

// ScoreOptions controls a single score calculation.
type ScoreOptions struct {
	// SaveLog appends the breakdown to the calculation log. The append is
	// best-effort: a failure is logged and dropped, never surfaced.
	SaveLog bool
}

// Score computes the match breakdown for one (student, job) pair. A missing
// student or job yields a zero-score breakdown with Err set rather than an
// error; storage failures are returned as errors.
func (e *Engine) Score(ctx context.Context, studentID, jobID uuid.UUID, opts ScoreOptions) (*Breakdown, error) {
	start := time.Now()

	student, err := e.store.GetStudent(ctx, studentID)
	if err != nil {
		e.recordScoringError()
		return nil, err
	}
	job, err := e.store.GetJob(ctx, jobID)
	if err != nil {
		e.recordScoringError()
		return nil, err
	}

	if student == nil || job == nil {
		return &Breakdown{
			StudentID:        studentID,
			JobID:            jobID,
			CalculatedAt:     time.Now().UTC(),
			Err:              "student or job not found",
			MaxPossibleScore: maxPossibleScore,
			MatchedSubjects:  []SubjectMatch{},
			MissingSubjects:  []SubjectMatch{},
		}, nil
	}

	grades, err := e.store.ListGradesByStudent(ctx, studentID)
	if err != nil {
		e.recordScoringError()
		return nil, err
	}
	requirements, err := e.store.ListRequirementsByJob(ctx, jobID)
	if err != nil {
		e.recordScoringError()
		return nil, err
	}

	b := compute(student, job, grades, requirements)

	if e.metrics != nil {
		e.metrics.RecordMatchCalculation(time.Since(start))
	}

	if opts.SaveLog {
		if err := e.store.AppendMatchLog(ctx, studentID, jobID, b.FinalScore, b); err != nil {
			e.log.Warn("dropping match log entry",
				zap.String("student_id", studentID.String()),
				zap.String("job_id", jobID.String()),
				zap.Error(err))
			if e.metrics != nil {
				e.metrics.RecordMatchLogDropped()
			}
		}
	}

	return b, nil
}

// compute applies the weighted rubric to already-fetched facts.
func compute(student *db.Student, job *db.Job, grades []db.Grade, requirements []db.JobRequirement) *Breakdown {
	b := &Breakdown{
		StudentID:        student.ID,
		JobID:            job.ID,
		StudentName:      student.FullName,
		JobTitle:         job.Title,
		CalculatedAt:     time.Now().UTC(),
		StudentGPA:       student.GPA,
		RequiredGPA:      job.MinimumGPA,
		StudentSemester:  student.Semester,
		RequiredSemester: job.MinimumSemester,
		StudentCourse:    student.Course,
		PreferredCourses: job.PreferredCourses,
		MaxPossibleScore: maxPossibleScore,
		MatchedSubjects:  []SubjectMatch{},
		MissingSubjects:  []SubjectMatch{},
	}

	total := 0.0
	total += scoreGPA(student, job, b)
	total += scoreSemester(student, job, b)
	total += scoreCourse(student, job, b)
	total += scoreSubjects(grades, requirements, b)

	b.RawScore = round2(total)
	b.FinalScore = round2(total / maxPossibleScore * 100)
	b.RecommendationReason = recommendationReason(b)
	return b
}

func (e *Engine) recordScoringError() {
	if e.metrics != nil {
		e.metrics.RecordScoringError()
	}
}
