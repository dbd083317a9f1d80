// Package schemas ships the JSON Schemas for seed files so the seed
// command works regardless of working directory.
package schemas

import _ "embed"

// CandidateSeed is the schema for candidate seed files.
//
//go:embed candidate_seed.schema.json
var CandidateSeed string

// JobSeed is the schema for job seed files.
//
//go:embed job_seed.schema.json
var JobSeed string
