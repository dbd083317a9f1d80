package matching

import (
	"math"
	"strings"

	"github.com/skillforge/skillforge/internal/types"
)

// Composite score weights. These are fixed design constants: changing them
// breaks score compatibility with previously reported match scores.
const (
	semanticWeight   = 0.6
	skillWeight      = 0.3
	experienceWeight = 0.1
)

// Experience boost parameters: 0.05 per entry, saturating at 4 entries.
const (
	experienceBoostPerEntry = 0.05
	experienceBoostCap      = 0.2
)

// SkillMatch computes the proficiency-weighted skill overlap between a
// candidate and a job's required skills, normalized to [0,1]. Matching is
// case-insensitive; a duplicated candidate skill name keeps its last level.
// Presence alone is not enough: a matching skill at level 0 contributes 0.
func SkillMatch(c *types.Candidate, j *types.Job) float64 {
	if len(j.RequiredSkills) == 0 || len(c.Skills) == 0 {
		return 0.0
	}

	candidateLevels := make(map[string]int, len(c.Skills))
	for _, s := range c.Skills {
		if s.Name == "" {
			continue
		}
		candidateLevels[strings.ToLower(s.Name)] = s.Level
	}

	totalWeight := 0.0
	matchedWeight := 0.0
	for _, required := range j.RequiredSkills {
		totalWeight++
		if level, ok := candidateLevels[strings.ToLower(required)]; ok {
			matchedWeight += float64(level) / 100.0
		}
	}
	if totalWeight == 0 {
		return 0.0
	}
	return matchedWeight / totalWeight
}

// ExperienceBoost returns a small bonus for the number of experience entries,
// monotonic non-decreasing and capped at 0.2.
func ExperienceBoost(c *types.Candidate) float64 {
	if len(c.Experience) == 0 {
		return 0.0
	}
	return math.Min(float64(len(c.Experience))*experienceBoostPerEntry, experienceBoostCap)
}

// cosineSimilarity returns the directional similarity of two vectors.
// Defined as 0.0 when either vector is absent or has zero magnitude.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0.0
	}
	return dot / denom
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

// round3 rounds to 3 decimals, the precision of reported match scores.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// round1 rounds to 1 decimal, the precision of skill gap percentages.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
