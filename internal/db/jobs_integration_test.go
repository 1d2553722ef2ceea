package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	company := createTestCompany(t, db)
	defer deleteTestAccount(db, company.AccountID)

	// 1. Create
	deadline := time.Now().Add(30 * 24 * time.Hour)
	created, err := db.CreateJob(ctx, &Job{
		CompanyID:           company.ID,
		Title:               "Estágio em Backend",
		Description:         "Desenvolvimento de APIs em Go.",
		Location:            "São Paulo",
		WorkType:            "hybrid",
		JobType:             "internship",
		MinimumGPA:          7.0,
		PreferredCourses:    []string{"Ciência da Computação"},
		ApplicationDeadline: &deadline,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, JobStatusOpen, created.Status) // defaulted
	assert.Equal(t, 1, created.Vacancies)          // defaulted
	assert.Equal(t, company.CompanyName, created.CompanyName)
	assert.Equal(t, []string{"Ciência da Computação"}, created.PreferredCourses)

	// 2. Get
	job, err := db.GetJob(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.InDelta(t, 7.0, job.MinimumGPA, 0.001)
	require.NotNil(t, job.ApplicationDeadline)

	// 3. Update a subset of fields
	title := "Estágio em Plataforma"
	gpa := 6.5
	updated, err := db.UpdateJob(ctx, created.ID, &title, nil, nil, nil, nil, nil, nil, nil, nil, &gpa, nil, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, title, updated.Title)
	assert.InDelta(t, 6.5, updated.MinimumGPA, 0.001)
	assert.Equal(t, "hybrid", updated.WorkType) // untouched

	// 4. Missing job returns nil, nil
	missing, err := db.GetJob(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	gone, err := db.UpdateJob(ctx, uuid.New(), &title, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCreateJob_NoPreferredCourses(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	company := createTestCompany(t, db)
	defer deleteTestAccount(db, company.AccountID)

	job, err := db.CreateJob(ctx, &Job{
		CompanyID:   company.ID,
		Title:       "Trainee em Engenharia",
		Description: "Programa aberto a todos os cursos.",
		WorkType:    "remote",
		JobType:     "trainee",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, job.PreferredCourses)

	// No preference means the job shows up under any course filter
	jobs, err := db.ListJobs(ctx, JobFilters{CompanyID: company.ID, Course: "Qualquer Curso"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)
}

func TestJobStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	company := createTestCompany(t, db)
	defer deleteTestAccount(db, company.AccountID)

	job, err := db.CreateJob(ctx, &Job{
		CompanyID:   company.ID,
		Title:       "Vaga Transitória",
		Description: "Vaga para testar transições de estado.",
		WorkType:    "onsite",
		JobType:     "full_time",
	})
	require.NoError(t, err)

	// open -> closed
	closed, err := db.UpdateJobStatus(ctx, job.ID, JobStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, JobStatusClosed, closed.Status)

	// closed jobs stay closed
	_, err = db.UpdateJobStatus(ctx, job.ID, JobStatusFilled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// reopening is not allowed either
	_, err = db.UpdateJobStatus(ctx, job.ID, JobStatusOpen)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// unknown job returns nil, nil
	missing, err := db.UpdateJobStatus(ctx, uuid.New(), JobStatusClosed)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListJobs_Filters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	company := createTestCompany(t, db)
	defer deleteTestAccount(db, company.AccountID)

	remote, err := db.CreateJob(ctx, &Job{
		CompanyID:   company.ID,
		Title:       "Estágio Remoto",
		Description: "Vaga remota de estágio.",
		WorkType:    "remote",
		JobType:     "internship",
	})
	require.NoError(t, err)
	onsite, err := db.CreateJob(ctx, &Job{
		CompanyID:   company.ID,
		Title:       "Efetivo Presencial",
		Description: "Vaga presencial efetiva.",
		WorkType:    "onsite",
		JobType:     "full_time",
	})
	require.NoError(t, err)

	// Company filter sees both
	jobs, err := db.ListJobs(ctx, JobFilters{CompanyID: company.ID})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	// Work type narrows
	jobs, err = db.ListJobs(ctx, JobFilters{CompanyID: company.ID, WorkType: "onsite"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, onsite.ID, jobs[0].ID)

	// Job type narrows
	jobs, err = db.ListJobs(ctx, JobFilters{CompanyID: company.ID, JobType: "internship"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, remote.ID, jobs[0].ID)

	// Status filter hides filled jobs
	_, err = db.UpdateJobStatus(ctx, onsite.ID, JobStatusFilled)
	require.NoError(t, err)
	jobs, err = db.ListJobs(ctx, JobFilters{CompanyID: company.ID, Status: JobStatusOpen})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, remote.ID, jobs[0].ID)
}

func TestListOpenJobs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	company := createTestCompany(t, db)
	defer deleteTestAccount(db, company.AccountID)

	open, err := db.CreateJob(ctx, &Job{
		CompanyID:   company.ID,
		Title:       "Vaga Aberta",
		Description: "Continua recebendo candidaturas.",
		WorkType:    "remote",
		JobType:     "internship",
	})
	require.NoError(t, err)
	closed, err := db.CreateJob(ctx, &Job{
		CompanyID:   company.ID,
		Title:       "Vaga Encerrada",
		Description: "Não recebe mais candidaturas.",
		WorkType:    "remote",
		JobType:     "internship",
	})
	require.NoError(t, err)
	_, err = db.UpdateJobStatus(ctx, closed.ID, JobStatusClosed)
	require.NoError(t, err)

	jobs, err := db.ListOpenJobs(ctx)
	require.NoError(t, err)

	listed := make(map[uuid.UUID]bool)
	for _, j := range jobs {
		listed[j.ID] = true
	}
	assert.True(t, listed[open.ID], "open job should be listed")
	assert.False(t, listed[closed.ID], "closed job should be excluded")
}

func TestReplaceJobRequirements(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	subjectA := createTestSubject(t, db)
	defer deleteTestSubject(db, subjectA.ID)
	subjectB := createTestSubject(t, db)
	defer deleteTestSubject(db, subjectB.ID)
	company := createTestCompany(t, db)
	defer deleteTestAccount(db, company.AccountID)

	job, err := db.CreateJob(ctx, &Job{
		CompanyID:   company.ID,
		Title:       "Estágio com Requisitos",
		Description: "Vaga com requisitos por disciplina.",
		WorkType:    "hybrid",
		JobType:     "internship",
	})
	require.NoError(t, err)

	// Initial set; a zero weight gets the default
	reqs, err := db.ReplaceJobRequirements(ctx, job.ID, []JobRequirement{
		{SubjectID: subjectA.ID, MinimumGrade: 7.0, Weight: 2.0, IsMandatory: true},
		{SubjectID: subjectB.ID, MinimumGrade: 6.0},
	})
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	bySubject := make(map[uuid.UUID]JobRequirement)
	for _, r := range reqs {
		bySubject[r.SubjectID] = r
	}
	assert.InDelta(t, 2.0, bySubject[subjectA.ID].Weight, 0.001)
	assert.True(t, bySubject[subjectA.ID].IsMandatory)
	assert.InDelta(t, 1.0, bySubject[subjectB.ID].Weight, 0.001) // defaulted
	assert.Equal(t, subjectA.Code, bySubject[subjectA.ID].SubjectCode)

	// Replacing swaps the whole list
	reqs, err = db.ReplaceJobRequirements(ctx, job.ID, []JobRequirement{
		{SubjectID: subjectB.ID, MinimumGrade: 8.0, Weight: 3.0},
	})
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, subjectB.ID, reqs[0].SubjectID)
	assert.InDelta(t, 8.0, reqs[0].MinimumGrade, 0.001)

	// Clearing works too
	reqs, err = db.ReplaceJobRequirements(ctx, job.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}
