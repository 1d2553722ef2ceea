package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/server/middleware"
	"github.com/jonathan/career-matcher/internal/types"
)

// handleMe returns the authenticated account with its role profile
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.GetAccountID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	account, profile, err := s.accountService.Profile(r.Context(), accountID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"account": account,
		"profile": profile,
	})
}

// handleSetAccountActive flips an account's active flag. Admin and
// coordinator roles only.
func (s *Server) handleSetAccountActive(w http.ResponseWriter, r *http.Request) {
	role, err := middleware.GetRole(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if role != db.RoleAdmin && role != db.RoleCoordinator {
		s.errorResponse(w, http.StatusForbidden, "Admin access required")
		return
	}

	accountID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid account ID")
		return
	}

	var req types.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	account, err := s.accountService.SetActive(r.Context(), accountID, *req.Active)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, account)
}
