package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/skillforge/skillforge/internal/types"
)

// maxRecommendations caps the number of generated learning suggestions.
const maxRecommendations = 5

var titleCaser = cases.Title(language.English)

// SkillGaps compares a job's required skills against a candidate's skills.
// Skill names are matched case-insensitively as sets; the report lists are
// sorted and the coverage percentage is rounded to 1 decimal. Unlike the
// search operations, an unresolved candidate or job is an error here.
func (e *Engine) SkillGaps(ctx context.Context, candidateEmail string, jobID uuid.UUID) (*types.SkillGapReport, error) {
	candidate, err := e.candidates.GetCandidateByEmail(ctx, candidateEmail)
	if err != nil {
		return nil, err
	}
	job, err := e.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if candidate == nil || job == nil {
		return nil, ErrNotFound
	}

	possessed := make(map[string]bool, len(candidate.Skills))
	for _, s := range candidate.Skills {
		if s.Name != "" {
			possessed[strings.ToLower(s.Name)] = true
		}
	}

	required := make(map[string]bool, len(job.RequiredSkills))
	for _, s := range job.RequiredSkills {
		if s != "" {
			required[strings.ToLower(s)] = true
		}
	}

	var matching, missing []string
	for skill := range required {
		if possessed[skill] {
			matching = append(matching, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	sort.Strings(matching)
	sort.Strings(missing)

	matchPercentage := 0.0
	if len(required) > 0 {
		matchPercentage = round1(float64(len(matching)) / float64(len(required)) * 100)
	}

	return &types.SkillGapReport{
		JobTitle:        job.Title,
		MatchPercentage: matchPercentage,
		MatchingSkills:  matching,
		MissingSkills:   missing,
		TotalRequired:   len(required),
		Recommendations: recommendations(missing),
	}, nil
}

// recommendations generates one templated learning suggestion per missing
// skill, capped at maxRecommendations.
func recommendations(missingSkills []string) []string {
	recs := make([]string, 0, maxRecommendations)
	for _, skill := range missingSkills {
		if len(recs) == maxRecommendations {
			break
		}
		recs = append(recs, fmt.Sprintf("Consider learning %s through online courses or certifications", titleCaser.String(skill)))
	}
	return recs
}
