package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m := NewManager()
	require.NotNil(t, m)
	assert.NotNil(t, m.Handler())
}

func TestManagerRecordsAndServes(t *testing.T) {
	m := NewManager()

	m.RecordHTTPRequest("GET", "/api/jobs", 200, 15*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/auth/login", 401, 3*time.Millisecond)
	m.RecordMatchCalculation(2 * time.Millisecond)
	m.RecordRankingScan("jobs")
	m.RecordRankingScan("candidates")
	m.RecordMatchLogDropped()
	m.RecordScoringError()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "career_matcher_http_requests_total")
	assert.Contains(t, body, `route="/api/jobs"`)
	assert.Contains(t, body, "career_matcher_matching_calculations_total 1")
	assert.Contains(t, body, `career_matcher_matching_ranking_scans_total{kind="jobs"} 1`)
	assert.Contains(t, body, "career_matcher_matching_log_entries_dropped_total 1")
	assert.Contains(t, body, "career_matcher_matching_scoring_errors_total 1")
}

func TestManagersAreIndependent(t *testing.T) {
	a := NewManager()
	b := NewManager()

	a.RecordMatchCalculation(time.Millisecond)

	// The second manager's registry never saw the recording
	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "career_matcher_matching_calculations_total 0")
}
