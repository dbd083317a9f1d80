package types

// JobMatch pairs a job with its composite match score for a candidate.
type JobMatch struct {
	Job   Job     `json:"job"`
	Score float64 `json:"match_score"`
}

// CandidateMatch pairs a candidate with its composite match score for a job.
// The candidate record has credentials stripped at the type level.
type CandidateMatch struct {
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"match_score"`
}

// SkillGapReport compares a job's required skills against a candidate's.
type SkillGapReport struct {
	JobTitle        string   `json:"job_title"`
	MatchPercentage float64  `json:"match_percentage"`
	MatchingSkills  []string `json:"matching_skills"`
	MissingSkills   []string `json:"missing_skills"`
	TotalRequired   int      `json:"total_required"`
	Recommendations []string `json:"recommendations"`
}
