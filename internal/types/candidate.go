// Package types defines the candidate and job records shared across the matching backend.
package types

import (
	"time"

	"github.com/google/uuid"
)

// SkillItem is a single self-reported skill with a proficiency level.
type SkillItem struct {
	Name  string `json:"name" validate:"required"`
	Level int    `json:"level" validate:"gte=0,lte=100"` // percentage, 0-100
}

// ExperienceItem is one entry in a candidate's work history.
type ExperienceItem struct {
	Role        string     `json:"role"`
	Company     string     `json:"company,omitempty"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// EducationItem is one entry in a candidate's education history.
type EducationItem struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
	StartYear   int    `json:"start_year,omitempty"`
	EndYear     int    `json:"end_year,omitempty"`
	Description string `json:"description,omitempty"`
}

// PortfolioItem is a project or publication a candidate showcases.
type PortfolioItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Candidate is a job seeker profile. The embedding vector is not part of this
// record; it lives behind the embedding store keyed by the candidate ID.
type Candidate struct {
	ID         uuid.UUID        `json:"id"`
	Email      string           `json:"email"`
	Name       string           `json:"name"`
	Bio        string           `json:"bio,omitempty"`
	Skills     []SkillItem      `json:"skills,omitempty"`
	Experience []ExperienceItem `json:"experience,omitempty"`
	Education  []EducationItem  `json:"education,omitempty"`
	Portfolio  []PortfolioItem  `json:"portfolio,omitempty"`

	// PasswordHash is never serialized and is stripped from search results.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CandidateCreateInput is the payload for registering a candidate.
type CandidateCreateInput struct {
	Email      string           `json:"email" validate:"required,email"`
	Name       string           `json:"name" validate:"required"`
	Password   string           `json:"password" validate:"required,min=8"`
	Bio        string           `json:"bio"`
	Skills     []SkillItem      `json:"skills" validate:"dive"`
	Experience []ExperienceItem `json:"experience"`
	Education  []EducationItem  `json:"education"`
	Portfolio  []PortfolioItem  `json:"portfolio"`
}
