package types

import (
	"time"

	"github.com/google/uuid"
)

// Job source constants. HR-authored postings carry the recruiter's email in
// PostedBy; externally ingested ones carry the system sentinel.
const (
	SourceHR  = "hr"
	SourceAPI = "api"

	// SystemPostedBy marks jobs ingested from the external job-search API.
	SystemPostedBy = "system@autofetch.ai"
)

// Job is a job posting. Required skills are plain strings and matched
// case-insensitively. The embedding vector lives behind the embedding store.
type Job struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company,omitempty"`
	Description    string    `json:"description,omitempty"`
	RequiredSkills []string  `json:"required_skills"`
	JobType        string    `json:"job_type,omitempty"`
	Location       string    `json:"location,omitempty"`
	Source         string    `json:"source"`
	PostedBy       string    `json:"posted_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// JobCreateInput is the payload for creating a job posting.
type JobCreateInput struct {
	Title          string   `json:"title" validate:"required"`
	Company        string   `json:"company"`
	Description    string   `json:"description" validate:"required"`
	RequiredSkills []string `json:"required_skills" validate:"required,min=1"`
	JobType        string   `json:"job_type"`
	Location       string   `json:"location"`
	Source         string   `json:"source" validate:"omitempty,oneof=hr api"`
	PostedBy       string   `json:"posted_by" validate:"required"`
}
