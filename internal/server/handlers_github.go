package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/career-matcher/internal/github"
)

// handleGitHubProfile proxies a GitHub profile lookup with language counts
func (s *Server) handleGitHubProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		s.errorResponse(w, http.StatusBadRequest, "Username is required")
		return
	}

	profile, err := s.github.FetchProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "GitHub user not found")
			return
		}
		s.errorResponse(w, http.StatusBadGateway, "GitHub API error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}
