// Package schema implements the runner's optional JSON-Schema gate
// (spec.md §4.8): a minimal subset checker — object `required` fields and a
// top-level `type` check — scoped to exactly what the runner specification
// calls for. It is deliberately narrower than the teacher's general-purpose
// pkg/schema/validation.Validator (coercion, custom validators, pooled
// buffers): those extra features serve the teacher's agent/structured
// packages, not the runner's schema gate.
package schema

import (
	"encoding/json"
	"fmt"
)

// Schema is the minimal subset of JSON-Schema the runner enforces.
type Schema struct {
	Type     string              `json:"type,omitempty"`
	Required []string            `json:"required,omitempty"`
}

// Load parses a JSON-Schema document from raw bytes.
func Load(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: invalid JSON-Schema document: %w", err)
	}
	return &s, nil
}

// Validator validates provider output text against a loaded Schema.
type Validator struct {
	schema *Schema
}

// NewValidator creates a Validator for the given schema. A nil schema means
// "no gate configured"; Validate always succeeds in that case.
func NewValidator(schema *Schema) *Validator {
	return &Validator{schema: schema}
}

// Validate checks outputText against the configured schema. It returns a
// human-readable validation message (empty on success) and whether the
// output is valid.
func (v *Validator) Validate(outputText string) (message string, ok bool) {
	if v.schema == nil {
		return "", true
	}

	var data interface{}
	if err := json.Unmarshal([]byte(outputText), &data); err != nil {
		return fmt.Sprintf("output is not valid JSON: %v", err), false
	}

	if v.schema.Type == "object" {
		obj, isObject := data.(map[string]interface{})
		if !isObject {
			return "output is not a JSON object", false
		}
		var missing []string
		for _, field := range v.schema.Required {
			if _, present := obj[field]; !present {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			return fmt.Sprintf("missing required fields: %v", missing), false
		}
	}

	return "", true
}
