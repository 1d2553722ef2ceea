package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	accountID := createTestAccount(t, db, RoleStudent)
	defer deleteTestAccount(db, accountID)

	// 1. Create
	created, err := db.CreateStudent(ctx, &Student{
		AccountID:          accountID,
		FullName:           "Ana Souza",
		RegistrationNumber: "RA-" + uuid.New().String()[:8],
		Course:             "Ciência da Computação",
		Semester:           4,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Ana Souza", created.FullName)
	assert.InDelta(t, 0.0, created.GPA, 0.001) // no grades yet
	assert.NotEmpty(t, created.Email)          // joined from the account
	assert.True(t, created.AccountActive)

	// 2. Get
	student, err := db.GetStudent(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, created.ID, student.ID)
	assert.Equal(t, 4, student.Semester)

	// 3. Get by account
	byAccount, err := db.GetStudentByAccount(ctx, accountID)
	require.NoError(t, err)
	require.NotNil(t, byAccount)
	assert.Equal(t, created.ID, byAccount.ID)

	// 4. Update a subset of fields
	phone := "11 91234-5678"
	semester := 5
	updated, err := db.UpdateStudent(ctx, created.ID, nil, nil, &semester, &phone, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Ana Souza", updated.FullName) // untouched
	assert.Equal(t, 5, updated.Semester)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	// 5. Missing student returns nil, nil
	missing, err := db.GetStudent(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	gone, err := db.UpdateStudent(ctx, uuid.New(), nil, nil, nil, &phone, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCreateStudent_DuplicateRegistration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	registration := "RA-" + uuid.New().String()[:8]

	first := createTestAccount(t, db, RoleStudent)
	defer deleteTestAccount(db, first)
	second := createTestAccount(t, db, RoleStudent)
	defer deleteTestAccount(db, second)

	_, err := db.CreateStudent(ctx, &Student{
		AccountID:          first,
		FullName:           "Primeira Conta",
		RegistrationNumber: registration,
		Course:             "Engenharia de Software",
		Semester:           2,
	})
	require.NoError(t, err)

	_, err = db.CreateStudent(ctx, &Student{
		AccountID:          second,
		FullName:           "Segunda Conta",
		RegistrationNumber: registration,
		Course:             "Engenharia de Software",
		Semester:           2,
	})
	require.Error(t, err)
}

func TestListStudents_Filters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	// A unique course name keeps this test isolated from other data
	course := "Curso Filtro " + uuid.New().String()[:8]

	var accountIDs []uuid.UUID
	defer func() {
		for _, id := range accountIDs {
			deleteTestAccount(db, id)
		}
	}()

	for i, semester := range []int{2, 6} {
		accountID := createTestAccount(t, db, RoleStudent)
		accountIDs = append(accountIDs, accountID)
		_, err := db.CreateStudent(ctx, &Student{
			AccountID:          accountID,
			FullName:           fmt.Sprintf("Estudante %d", i+1),
			RegistrationNumber: "RA-" + uuid.New().String()[:8],
			Course:             course,
			Semester:           semester,
		})
		require.NoError(t, err)
	}

	// Course filter alone finds both
	students, err := db.ListStudents(ctx, StudentFilters{Course: course})
	require.NoError(t, err)
	assert.Len(t, students, 2)

	// Semester floor narrows to one
	students, err = db.ListStudents(ctx, StudentFilters{Course: course, MinSemester: 5})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 6, students[0].Semester)

	// GPA floor excludes everyone while nobody has grades
	students, err = db.ListStudents(ctx, StudentFilters{Course: course, MinGPA: 7.0})
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestListActiveStudents(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	active := createTestStudent(t, db)
	defer deleteTestAccount(db, active.AccountID)
	inactive := createTestStudent(t, db)
	defer deleteTestAccount(db, inactive.AccountID)

	require.NoError(t, db.SetAccountActive(ctx, inactive.AccountID, false))

	students, err := db.ListActiveStudents(ctx)
	require.NoError(t, err)

	listed := make(map[uuid.UUID]bool)
	for _, s := range students {
		listed[s.ID] = true
	}
	assert.True(t, listed[active.ID], "active student should be listed")
	assert.False(t, listed[inactive.ID], "inactive student should be excluded")
}
