package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/skillforge/skillforge/internal/db"
	"github.com/skillforge/skillforge/internal/types"
)

// handleCreateCandidate registers a candidate profile
func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var input types.CandidateCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := s.validate.Struct(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	existing, err := s.db.GetCandidateByEmail(r.Context(), input.Email)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if existing != nil {
		err := &ErrEmailAlreadyExists{Email: input.Email}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	hash, err := s.passwords.HashPassword(input.Password)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	candidate, err := s.db.CreateCandidate(r.Context(), &input, hash)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	// Best effort. The first search warms the embedding if this fails.
	if _, err := s.engine.EmbedCandidate(r.Context(), candidate); err != nil {
		s.logger.Warn("failed to embed new candidate", zap.String("candidate_id", candidate.ID.String()), zap.Error(err))
	}

	s.jsonResponse(w, http.StatusCreated, candidate)
}

// handleGetCandidate retrieves a candidate by ID
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := db.ParseID(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	candidate, err := s.db.GetCandidateByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, candidate)
}
