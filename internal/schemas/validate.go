// Package schemas validates seed files against the shipped JSON Schemas
// before anything reaches the database.
package schemas

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	seedschemas "github.com/skillforge/skillforge/schemas"
)

// ValidationError reports every failing field in a seed document.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError means the schema itself could not be loaded or parsed,
// as opposed to the document failing validation.
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateCandidateSeed checks candidate seed JSON against the candidate schema.
func ValidateCandidateSeed(content []byte) error {
	return validate("candidate_seed", seedschemas.CandidateSeed, content)
}

// ValidateJobSeed checks job seed JSON against the job schema.
func ValidateJobSeed(content []byte) error {
	return validate("job_seed", seedschemas.JobSeed, content)
}

// ValidateCandidateSeedFile reads and validates a candidate seed file.
func ValidateCandidateSeedFile(path string) ([]byte, error) {
	return validateFile(path, ValidateCandidateSeed)
}

// ValidateJobSeedFile reads and validates a job seed file.
func ValidateJobSeedFile(path string) ([]byte, error) {
	return validateFile(path, ValidateJobSeed)
}

func validateFile(path string, check func([]byte) error) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	if err := check(content); err != nil {
		return nil, err
	}
	return content, nil
}

func validate(name, schema string, content []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(content)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Name:    name,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
