package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/skillforge/skillforge/internal/db"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 1 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// handleRecommendedJobs returns AI-ranked jobs for a candidate, optionally
// filtered by job source.
func (s *Server) handleRecommendedJobs(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("candidate_email")
	if email == "" {
		s.errorResponse(w, http.StatusBadRequest, "candidate_email query parameter is required")
		return
	}
	topN := parseQueryInt(r, "top_n", 10, 50)
	source := r.URL.Query().Get("source")

	matches, err := s.engine.MatchingJobsForCandidate(r.Context(), email, topN, source)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Matching error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// handleRecommendedCandidates returns AI-ranked candidates for a job
func (s *Server) handleRecommendedCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, err := db.ParseID(r.PathValue("job_id"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	topN := parseQueryInt(r, "top_n", 20, 100)

	matches, err := s.engine.MatchingCandidatesForJob(r.Context(), jobID, topN)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Matching error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// handleSkillGap analyzes skill gaps between a candidate and a job
func (s *Server) handleSkillGap(w http.ResponseWriter, r *http.Request) {
	jobID, err := db.ParseID(r.PathValue("job_id"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	email := r.URL.Query().Get("candidate_email")
	if email == "" {
		s.errorResponse(w, http.StatusBadRequest, "candidate_email query parameter is required")
		return
	}

	report, err := s.engine.SkillGaps(r.Context(), email, jobID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// CalculateScoreRequest is the payload for an on-demand pair score
type CalculateScoreRequest struct {
	CandidateEmail string `json:"candidate_email" validate:"required,email"`
	JobID          string `json:"job_id" validate:"required"`
}

// handleCalculateScore computes the match score for one candidate/job pair
func (s *Server) handleCalculateScore(w http.ResponseWriter, r *http.Request) {
	var req CalculateScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	jobID, err := db.ParseID(req.JobID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	score, job, err := s.engine.ScorePair(r.Context(), req.CandidateEmail, jobID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidate_email":  req.CandidateEmail,
		"job_id":           req.JobID,
		"job_title":        job.Title,
		"match_score":      score,
		"match_percentage": score * 100,
	})
}

// BackfillRequest selects which collection to backfill
type BackfillRequest struct {
	Collection string `json:"collection" validate:"required,oneof=candidates jobs"`
	Source     string `json:"source" validate:"omitempty,oneof=hr api"`
}

// handleBackfill computes embeddings for all records missing one
func (s *Server) handleBackfill(w http.ResponseWriter, r *http.Request) {
	var req BackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	var processed int
	var err error
	switch req.Collection {
	case "candidates":
		processed, err = s.engine.BackfillCandidates(r.Context())
	case "jobs":
		processed, err = s.engine.BackfillJobs(r.Context(), req.Source)
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Backfill error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"collection": req.Collection,
		"processed":  processed,
	})
}
