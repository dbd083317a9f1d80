package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/skillforge/skillforge/internal/db"
	"github.com/skillforge/skillforge/internal/types"
)

// handleCreateJob creates a job posting. The embedding is computed eagerly so
// the posting is immediately searchable; failures are logged, not surfaced,
// since the first search will retry lazily.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var input types.JobCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := s.validate.Struct(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	job, err := s.db.CreateJob(r.Context(), &input)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	if _, err := s.engine.EmbedJob(r.Context(), job); err != nil {
		s.logger.Warn("failed to embed new job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}

	s.jsonResponse(w, http.StatusCreated, job)
}

// handleGetJob retrieves a job posting by ID
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := db.ParseID(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	job, err := s.db.GetJobByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleListJobs lists job postings, optionally filtered by source
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source != "" && source != types.SourceHR && source != types.SourceAPI {
		s.errorResponse(w, http.StatusBadRequest, "source must be 'hr' or 'api'")
		return
	}

	jobs, err := s.db.ListJobs(r.Context(), source)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// IngestJobsRequest is the payload for pulling jobs from the external API
type IngestJobsRequest struct {
	Query    string `json:"query" validate:"required"`
	Location string `json:"location"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=20"`
}

// handleIngestJobs fetches postings from the external job-search API,
// stores new ones with source "api" and embeds them.
func (s *Server) handleIngestJobs(w http.ResponseWriter, r *http.Request) {
	if s.ingestion == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Job ingestion is not configured")
		return
	}

	var req IngestJobsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if req.Limit == 0 {
		req.Limit = 5
	}

	inserted, err := s.ingestion.Ingest(r.Context(), req.Query, req.Location, req.Limit)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Ingestion error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"inserted": inserted,
		"count":    len(inserted),
	})
}
