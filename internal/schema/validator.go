// Package schema validates request payloads against JSON Schemas.
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// PathUploadSchema describes the body of a territory claim
const PathUploadSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["points"],
	"properties": {
		"name": {"type": "string", "maxLength": 64},
		"points": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["latitude", "longitude"],
				"properties": {
					"latitude": {"type": "number", "minimum": -90, "maximum": 90},
					"longitude": {"type": "number", "minimum": -180, "maximum": 180}
				}
			}
		}
	}
}`

// Validator validates documents against a compiled JSON Schema
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a validator from schema source
func NewValidator(source string) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// MustPathUpload returns the validator for territory claims
func MustPathUpload() *Validator {
	v, err := NewValidator(PathUploadSchema)
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateBytes validates raw JSON bytes
func (v *Validator) ValidateBytes(data []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}
