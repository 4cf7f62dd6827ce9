// Package schemas provides JSON Schema validation for model-produced resume
// documents.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume_schema.json
var resumeSchema string

// requiredSections are the top-level keys a resume document must carry to be
// accepted as a replacement for an existing one. A model rewrite that drops
// any of them is rejected and the previous document kept.
var requiredSections = []string{"personalInfo", "summary"}

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation error at a specific field.
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

// SchemaLoadError represents errors loading or parsing the schema itself.
type SchemaLoadError struct {
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load resume schema: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load resume schema: %s", e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateResume validates a resume document against the embedded JSON
// Schema. Returns a *ValidationError listing every violation, or nil when
// the document conforms.
func ValidateResume(doc json.RawMessage) error {
	schemaLoader := gojsonschema.NewStringLoader(resumeSchema)
	documentLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
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

// CheckStructure verifies a modified resume document still carries the
// required top-level sections. It is intentionally shallower than
// ValidateResume: a modification only needs to prove it did not destroy the
// document's shape, not re-prove full conformance.
func CheckStructure(doc json.RawMessage) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return &ValidationError{Errors: []FieldError{{
			Field:   "(root)",
			Message: "document is not a JSON object",
		}}}
	}

	var missing []FieldError
	for _, key := range requiredSections {
		raw, ok := top[key]
		if !ok || string(raw) == "null" {
			missing = append(missing, FieldError{
				Field:   key,
				Message: "required section is missing",
			})
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Errors: missing}
	}
	return nil
}
