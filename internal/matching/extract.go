// Package matching implements the AI matching engine: profile text
// extraction, composite scoring, ranked search and skill gap analysis.
package matching

import (
	"fmt"
	"strings"

	"github.com/skillforge/skillforge/internal/types"
)

// CandidateText returns the canonical flattened text for a candidate profile.
// Skill phrases carry a star rating derived from the proficiency level so the
// embedding model sees self-reported strength, not just skill names. An empty
// result marks the candidate as unscorable.
func CandidateText(c *types.Candidate) string {
	var parts []string

	if c.Bio != "" {
		parts = append(parts, c.Bio)
	}

	if len(c.Skills) > 0 {
		phrases := make([]string, 0, len(c.Skills))
		for _, s := range c.Skills {
			if s.Name == "" {
				continue
			}
			phrases = append(phrases, fmt.Sprintf("%s (%d stars)", s.Name, s.Level/10))
		}
		if len(phrases) > 0 {
			parts = append(parts, strings.Join(phrases, " "))
		}
	}

	for _, exp := range c.Experience {
		if exp.Role != "" {
			parts = append(parts, exp.Role)
		}
		if exp.Description != "" {
			parts = append(parts, exp.Description)
		}
	}

	for _, edu := range c.Education {
		if edu.Degree != "" {
			parts = append(parts, edu.Degree)
		}
		if edu.Institution != "" {
			parts = append(parts, edu.Institution)
		}
	}

	for _, p := range c.Portfolio {
		if p.Title != "" {
			parts = append(parts, p.Title)
		}
		if p.Description != "" {
			parts = append(parts, p.Description)
		}
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// JobText returns the canonical flattened text for a job posting. An empty
// result marks the job as unscorable.
func JobText(j *types.Job) string {
	var parts []string

	if j.Title != "" {
		parts = append(parts, j.Title)
	}
	if j.Company != "" {
		parts = append(parts, j.Company)
	}
	if j.Description != "" {
		parts = append(parts, j.Description)
	}
	if len(j.RequiredSkills) > 0 {
		parts = append(parts, strings.Join(j.RequiredSkills, " "))
	}
	if j.JobType != "" {
		parts = append(parts, j.JobType)
	}
	if j.Location != "" {
		parts = append(parts, j.Location)
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}
