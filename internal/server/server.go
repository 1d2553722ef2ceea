// Package server provides the HTTP REST API for the career matcher.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/config"
	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/github"
	"github.com/jonathan/career-matcher/internal/matching"
	"github.com/jonathan/career-matcher/internal/metrics"
	"github.com/jonathan/career-matcher/internal/server/middleware"
	"github.com/jonathan/career-matcher/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	mux            *http.ServeMux
	db             *db.DB
	log            *zap.Logger
	metrics        *metrics.Manager
	engine         *matching.Engine
	github         *github.Client
	rateLimiter    *ratelimit.Limiter
	jwtService     *JWTService
	accountService *AccountService
	authHandler    *AuthHandler
	validator      *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	GitHubToken string
	Logger      *zap.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		db:        database,
		log:       log,
		metrics:   metrics.NewManager(),
		validator: validator.New(),
	}

	s.engine = matching.NewEngine(database, log, s.metrics)
	s.github = github.NewClient(github.Options{Token: cfg.GitHubToken})

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.accountService = NewAccountService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.authHandler = NewAuthHandler(s.accountService, s.jwtService)

	// Setup router. Mutating and personal routes require a valid JWT,
	// public reads stay open.
	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("GET /users/me", protected(s.handleMe))
	mux.Handle("PUT /users/me/password", protected(s.handleUpdatePassword))
	mux.Handle("PATCH /users/{id}/active", protected(s.handleSetAccountActive))

	// Student endpoints
	mux.HandleFunc("GET /students", s.handleListStudents)
	mux.HandleFunc("GET /students/{id}", s.handleGetStudent)
	mux.Handle("PUT /students/{id}", protected(s.handleUpdateStudent))
	mux.HandleFunc("GET /students/{id}/grades", s.handleListGrades)
	mux.Handle("POST /students/{id}/grades", protected(s.handleUpsertGrade))
	mux.Handle("DELETE /grades/{id}", protected(s.handleDeleteGrade))
	mux.HandleFunc("GET /students/{id}/performance", s.handleStudentPerformance)
	mux.HandleFunc("GET /students/{id}/applications", s.handleListStudentApplications)

	// Subject endpoints
	mux.Handle("POST /subjects", protected(s.handleCreateSubject))
	mux.Handle("POST /subjects/bulk", protected(s.handleBulkCreateSubjects))
	mux.HandleFunc("GET /subjects", s.handleListSubjects)
	mux.HandleFunc("GET /subjects/{id}", s.handleGetSubject)
	mux.Handle("PUT /subjects/{id}", protected(s.handleUpdateSubject))
	mux.Handle("DELETE /subjects/{id}", protected(s.handleDeleteSubject))
	mux.HandleFunc("GET /subjects/{id}/stats", s.handleSubjectStats)

	// Company endpoints
	mux.HandleFunc("GET /companies", s.handleListCompanies)
	mux.HandleFunc("GET /companies/{id}", s.handleGetCompany)
	mux.Handle("PUT /companies/{id}", protected(s.handleUpdateCompany))

	// Job endpoints
	mux.Handle("POST /jobs", protected(s.handleCreateJob))
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.Handle("PUT /jobs/{id}", protected(s.handleUpdateJob))
	mux.Handle("PATCH /jobs/{id}/status", protected(s.handleUpdateJobStatus))
	mux.HandleFunc("GET /jobs/{id}/requirements", s.handleListJobRequirements)
	mux.Handle("PUT /jobs/{id}/requirements", protected(s.handleReplaceJobRequirements))
	mux.HandleFunc("GET /jobs/{id}/applications", s.handleListJobApplications)

	// Application endpoints
	mux.Handle("POST /applications", protected(s.handleCreateApplication))
	mux.Handle("PATCH /applications/{id}/status", protected(s.handleUpdateApplicationStatus))

	// Matching endpoints
	mux.HandleFunc("GET /matching/students/{student_id}/jobs/{job_id}", s.handleMatchScore)
	mux.HandleFunc("GET /matching/students/{id}/jobs", s.handleRankJobs)
	mux.HandleFunc("GET /matching/jobs/{id}/candidates", s.handleRankCandidates)
	mux.HandleFunc("GET /matching/students/{id}/history", s.handleMatchHistory)

	// Analytics endpoints
	mux.HandleFunc("GET /analytics/students/{id}", s.handleStudentAnalytics)
	mux.HandleFunc("GET /analytics/jobs/{id}", s.handleJobAnalytics)

	// Integrations
	mux.HandleFunc("GET /integrations/github/{username}", s.handleGitHubProfile)

	// Operational endpoints
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	s.mux = mux

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withMetrics(s.withCORS(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.db.Close()
	s.log.Info("server stopped")
	return nil
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract client identifier (IP address)
		clientID := s.extractClientID(r)

		// Check rate limit
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		// Set rate limit headers for successful requests
		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds structured request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// withMetrics records per-request Prometheus metrics, labeled by the matched
// route pattern to keep label cardinality bounded.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		_, route := s.mux.Handler(r)
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RecordHTTPRequest(r.Method, route, rec.status, time.Since(start))
	})
}

// handleHealth returns server health status after checking the database
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleRegister handles account registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Register(w, r)
}

// handleLogin handles account login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}

// handleUpdatePassword handles password update requests.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	s.authHandler.UpdatePassword(w, r)
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For would only be
// safe behind a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.log.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Int("remaining", info.Remaining),
		zap.Time("reset", info.ResetTime),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
