package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/metrics"
	"github.com/jonathan/career-matcher/internal/server/ratelimit"
)

// newTestServer creates a bare server for handler tests. The DB is nil, so
// only code paths that reject a request before touching storage are testable
// here; everything else is covered by the integration tests.
func newTestServer() *Server {
	return &Server{
		log:       zap.NewNop(),
		validator: validator.New(),
	}
}

// TestGetStudent_InvalidID tests GET /students/{id} with invalid UUID
func TestGetStudent_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/students/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleGetStudent(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["error"] != "Invalid student ID" {
		t.Errorf("expected 'Invalid student ID', got '%s'", resp["error"])
	}
}

// TestGetSubject_InvalidID tests GET /subjects/{id} with invalid UUID
func TestGetSubject_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/subjects/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleGetSubject(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestGetJob_InvalidID tests GET /jobs/{id} with invalid UUID
func TestGetJob_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleGetJob(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestGetCompany_InvalidID tests GET /companies/{id} with invalid UUID
func TestGetCompany_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/companies/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleGetCompany(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestDeleteGrade_InvalidID tests DELETE /grades/{id} with invalid UUID
func TestDeleteGrade_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodDelete, "/grades/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleDeleteGrade(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestMatchScore_InvalidStudentID tests the match endpoint with invalid UUID
func TestMatchScore_InvalidStudentID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/matching/students/not-a-uuid/jobs/also-bad", nil)
	req.SetPathValue("student_id", "not-a-uuid")
	req.SetPathValue("job_id", "also-bad")
	w := httptest.NewRecorder()

	s.handleMatchScore(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestStudentAnalytics_InvalidID tests GET /analytics/students/{id} with invalid UUID
func TestStudentAnalytics_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/analytics/students/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleStudentAnalytics(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestCreateJob_InvalidJSON tests POST /jobs with invalid JSON
func TestCreateJob_InvalidJSON(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewBufferString(`{invalid json}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestCreateJob_MissingTitle tests POST /jobs with a missing required field
func TestCreateJob_MissingTitle(t *testing.T) {
	s := newTestServer()

	body := `{
		"company_id": "550e8400-e29b-41d4-a716-446655440000",
		"description": "Backend internship",
		"location": "Recife",
		"work_type": "hybrid",
		"job_type": "internship"
	}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected error message in response")
	}
}

// TestCreateJob_UnknownWorkType tests POST /jobs with a value outside the enum
func TestCreateJob_UnknownWorkType(t *testing.T) {
	s := newTestServer()

	body := `{
		"company_id": "550e8400-e29b-41d4-a716-446655440000",
		"title": "Estágio Backend",
		"description": "Backend internship",
		"location": "Recife",
		"work_type": "office",
		"job_type": "internship"
	}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestCreateApplication_InvalidJSON tests POST /applications with invalid JSON
func TestCreateApplication_InvalidJSON(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/applications", bytes.NewBufferString(`{invalid json}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleCreateApplication(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestUpsertGrade_InvalidJSON tests POST /students/{id}/grades with invalid JSON
func TestUpsertGrade_InvalidJSON(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/students/550e8400-e29b-41d4-a716-446655440000/grades",
		bytes.NewBufferString(`{invalid json}`))
	req.SetPathValue("id", "550e8400-e29b-41d4-a716-446655440000")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleUpsertGrade(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestUpsertGrade_GradeAboveScale tests POST /students/{id}/grades with a grade above 10
func TestUpsertGrade_GradeAboveScale(t *testing.T) {
	s := newTestServer()

	body := `{"subject_id": "550e8400-e29b-41d4-a716-446655440000", "grade": 11, "term_label": "2025.1"}`
	req := httptest.NewRequest(http.MethodPost, "/students/550e8400-e29b-41d4-a716-446655440000/grades",
		bytes.NewBufferString(body))
	req.SetPathValue("id", "550e8400-e29b-41d4-a716-446655440000")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleUpsertGrade(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestGitHubProfile_MissingUsername tests the integration endpoint with an empty username
func TestGitHubProfile_MissingUsername(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/integrations/github/", nil)
	req.SetPathValue("username", "")
	w := httptest.NewRecorder()

	s.handleGitHubProfile(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

// TestCORSMiddleware tests CORS headers are set
func TestCORSMiddleware(t *testing.T) {
	s := newTestServer()

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header Access-Control-Allow-Origin: *")
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected CORS header Access-Control-Allow-Methods")
	}
}

// TestCORSMiddleware_OPTIONS tests OPTIONS preflight request
func TestCORSMiddleware_OPTIONS(t *testing.T) {
	s := newTestServer()

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("should not reach here")) //nolint:errcheck
	}))

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for OPTIONS, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Error("OPTIONS response should have empty body")
	}
}

// TestLoggingMiddleware tests that logging middleware passes through
func TestLoggingMiddleware(t *testing.T) {
	s := newTestServer()

	called := false
	handler := s.withLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("logging middleware should call next handler")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

// TestMetricsMiddleware tests that the metrics middleware passes through and
// records without a matched route
func TestMetricsMiddleware(t *testing.T) {
	s := newTestServer()
	s.metrics = metrics.NewManager()
	s.mux = http.NewServeMux()

	called := false
	handler := s.withMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("metrics middleware should call next handler")
	}
	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
}

// TestRateLimitMiddleware tests that rate limit headers are set on allowed requests
func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer()
	s.rateLimiter = ratelimit.NewLimiter(nil)
	defer s.rateLimiter.Stop()

	handler := s.withRateLimit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	req.RemoteAddr = "203.0.113.9:4321"
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("expected X-RateLimit-Limit header on allowed request")
	}
}

// TestJSONResponse tests jsonResponse helper
func TestJSONResponse(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()

	s.jsonResponse(w, http.StatusOK, map[string]string{"key": "value"})

	if w.Header().Get("Content-Type") != "application/json" {
		t.Error("expected Content-Type: application/json")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if resp["key"] != "value" {
		t.Errorf("expected key='value', got '%s'", resp["key"])
	}
}

// TestErrorResponse tests errorResponse helper
func TestErrorResponse(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()

	s.errorResponse(w, http.StatusBadRequest, "test error")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if resp["error"] != "test error" {
		t.Errorf("expected error='test error', got '%s'", resp["error"])
	}
}

// TestExtractClientID tests client IP extraction from RemoteAddr
func TestExtractClientID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.0.2.1:5000"
	if got := s.extractClientID(req); got != "192.0.2.1" {
		t.Errorf("expected '192.0.2.1', got '%s'", got)
	}

	req.RemoteAddr = "garbage"
	if got := s.extractClientID(req); got != "garbage" {
		t.Errorf("expected fallback to RemoteAddr, got '%s'", got)
	}
}

// TestParseQueryInt tests the integer query parameter helper
func TestParseQueryInt(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		def      int
		max      int
		expected int
	}{
		{"missing uses default", "/x", 50, 200, 50},
		{"valid value", "/x?limit=25", 50, 200, 25},
		{"garbage uses default", "/x?limit=abc", 50, 200, 50},
		{"negative uses default", "/x?limit=-5", 50, 200, 50},
		{"clamped to max", "/x?limit=9999", 50, 200, 200},
		{"zero max means unclamped", "/x?limit=9999", 0, 0, 9999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if got := parseQueryInt(req, "limit", tt.def, tt.max); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

// TestParseQueryFloat tests the float query parameter helper
func TestParseQueryFloat(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		def      float64
		expected float64
	}{
		{"missing uses default", "/x", 50.0, 50.0},
		{"valid value", "/x?min_score=72.5", 50.0, 72.5},
		{"garbage uses default", "/x?min_score=abc", 50.0, 50.0},
		{"negative uses default", "/x?min_score=-1", 50.0, 50.0},
		{"zero is accepted", "/x?min_score=0", 50.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if got := parseQueryFloat(req, "min_score", tt.def); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
