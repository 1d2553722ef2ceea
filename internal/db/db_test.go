package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleConstants(t *testing.T) {
	// Verify role constants are defined
	roles := []string{RoleStudent, RoleCompany, RoleAdmin, RoleCoordinator}
	for _, role := range roles {
		assert.NotEmpty(t, role, "role constant should not be empty")
	}
}

func TestStatusConstants(t *testing.T) {
	statuses := []string{
		JobStatusOpen, JobStatusClosed, JobStatusFilled,
		ApplicationPending, ApplicationApproved, ApplicationRejected, ApplicationInterview,
	}
	for _, status := range statuses {
		assert.NotEmpty(t, status, "status constant should not be empty")
	}
}

func TestAccountJSON_HidesPasswordHash(t *testing.T) {
	account := Account{
		Email:        "ana@example.com",
		PasswordHash: "$2a$12$secret",
		Role:         RoleStudent,
		IsActive:     true,
	}

	data, err := json.Marshal(account)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password_hash")
	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), "ana@example.com")
}

func TestStudentJSON_OmitsEmptyOptionals(t *testing.T) {
	student := Student{
		FullName: "Ana Souza",
		Course:   "Ciência da Computação",
		Semester: 5,
		GPA:      8.25,
	}

	data, err := json.Marshal(student)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "phone")
	assert.NotContains(t, string(data), "linkedin_url")
	// AccountActive is internal state and never serializes
	assert.NotContains(t, string(data), "account_active")
}

func TestMatchLogJSON_DetailsPassThrough(t *testing.T) {
	log := MatchLog{
		MatchScore: 87.5,
		Details:    json.RawMessage(`{"gpa_score":25,"subject_score":40.5}`),
	}

	data, err := json.Marshal(log)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gpa_score":25`)
}

func TestValidApplicationTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to approved", ApplicationPending, ApplicationApproved, true},
		{"pending to rejected", ApplicationPending, ApplicationRejected, true},
		{"pending to interview", ApplicationPending, ApplicationInterview, true},
		{"interview to approved", ApplicationInterview, ApplicationApproved, true},
		{"interview to rejected", ApplicationInterview, ApplicationRejected, true},
		{"interview back to pending", ApplicationInterview, ApplicationPending, false},
		{"approved is terminal", ApplicationApproved, ApplicationRejected, false},
		{"rejected is terminal", ApplicationRejected, ApplicationApproved, false},
		{"pending to pending", ApplicationPending, ApplicationPending, false},
		{"unknown status", "archived", ApplicationApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validApplicationTransition(tt.from, tt.to))
		})
	}
}
