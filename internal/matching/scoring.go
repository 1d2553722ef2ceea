package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/db"
)

// scoreGPA awards the full GPA weight when the job has no minimum or the
// student meets it, plus a linear bonus for excess over the minimum. A miss
// scores zero and records the deficit.
func scoreGPA(student *db.Student, job *db.Job, b *Breakdown) float64 {
	if job.MinimumGPA <= 0 {
		b.GPAMatch = true
		return gpaWeight
	}
	if student.GPA >= job.MinimumGPA {
		b.GPAMatch = true
		bonus := 0.0
		if headroom := gradeScale - job.MinimumGPA; headroom > 0 {
			bonus = (student.GPA - job.MinimumGPA) / headroom * gpaBonusMax
			if bonus > gpaBonusMax {
				bonus = gpaBonusMax
			}
		}
		return gpaWeight + bonus
	}
	b.GPADeficit = round2(job.MinimumGPA - student.GPA)
	return 0
}

// scoreSemester awards the full semester weight when the job has no minimum
// or the student has progressed far enough.
func scoreSemester(student *db.Student, job *db.Job, b *Breakdown) float64 {
	if job.MinimumSemester == nil || *job.MinimumSemester <= 0 {
		b.SemesterMatch = true
		return semesterWeight
	}
	if student.Semester >= *job.MinimumSemester {
		b.SemesterMatch = true
		return semesterWeight
	}
	b.SemesterDeficit = *job.MinimumSemester - student.Semester
	return 0
}

// scoreCourse awards the full course weight when the job lists no preferred
// courses or the student's course is among them.
func scoreCourse(student *db.Student, job *db.Job, b *Breakdown) float64 {
	if len(job.PreferredCourses) == 0 {
		b.CourseMatch = true
		return courseWeight
	}
	for _, course := range job.PreferredCourses {
		if course == student.Course {
			b.CourseMatch = true
			return courseWeight
		}
	}
	return 0
}

// latestGradeBySubject resolves exactly one grade per subject: the most
// recent term wins, with ties broken by latest created_at.
func latestGradeBySubject(grades []db.Grade) map[uuid.UUID]db.Grade {
	latest := make(map[uuid.UUID]db.Grade, len(grades))
	for _, g := range grades {
		current, ok := latest[g.SubjectID]
		if !ok || g.TermLabel > current.TermLabel ||
			(g.TermLabel == current.TermLabel && g.CreatedAt.After(current.CreatedAt)) {
			latest[g.SubjectID] = g
		}
	}
	return latest
}

// scoreSubjects splits the subject weight across the job's requirements in
// proportion to their weights. A met requirement earns its slice scaled by
// grade/10; an unmet or ungraded one earns nothing. A missing mandatory
// subject is flagged but does not gate the score.
func scoreSubjects(grades []db.Grade, requirements []db.JobRequirement, b *Breakdown) float64 {
	if len(requirements) == 0 {
		b.SubjectMatchPercentage = 100
		return subjectWeight
	}

	totalWeight := 0.0
	for _, req := range requirements {
		totalWeight += req.Weight
	}
	if totalWeight <= 0 {
		return 0
	}

	latest := latestGradeBySubject(grades)

	points := 0.0
	for _, req := range requirements {
		slice := subjectWeight * (req.Weight / totalWeight)
		match := SubjectMatch{
			SubjectID:     req.SubjectID,
			SubjectCode:   req.SubjectCode,
			SubjectName:   req.SubjectName,
			RequiredGrade: req.MinimumGrade,
			Weight:        req.Weight,
			IsMandatory:   req.IsMandatory,
		}

		grade, graded := latest[req.SubjectID]
		if graded {
			g := grade.Grade
			match.StudentGrade = &g
		}

		if graded && grade.Grade >= req.MinimumGrade {
			match.Met = true
			match.GradeExcess = round2(grade.Grade - req.MinimumGrade)
			points += slice * (grade.Grade / gradeScale)
			b.MatchedSubjects = append(b.MatchedSubjects, match)
		} else {
			b.MissingSubjects = append(b.MissingSubjects, match)
			if req.IsMandatory {
				b.MandatoryMissing = append(b.MandatoryMissing, match)
			}
		}
	}

	b.SubjectMatchPercentage = round2(float64(len(b.MatchedSubjects)) / float64(len(requirements)) * 100)
	return points
}

// recommendationReason builds a brief explanation from the criteria that
// passed. Semester progress never contributes a reason.
func recommendationReason(b *Breakdown) string {
	var reasons []string

	if b.GPAMatch && b.RequiredGPA > 0 {
		reasons = append(reasons, fmt.Sprintf("GPA (%.1f) meets requirement", b.StudentGPA))
	}
	if b.CourseMatch && len(b.PreferredCourses) > 0 {
		reasons = append(reasons, "Course matches preferred courses")
	}
	if matched := len(b.MatchedSubjects); matched > 0 {
		total := matched + len(b.MissingSubjects)
		pct := float64(matched) / float64(total) * 100
		reasons = append(reasons, fmt.Sprintf("%d/%d required subjects met (%.0f%%)", matched, total, pct))
	}

	if len(reasons) == 0 {
		return "General match"
	}
	return strings.Join(reasons, "; ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
