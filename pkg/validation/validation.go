// Package validation checks HTTP request bodies against JSON schemas.
package validation

import (
	"bytes"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
)

const routeSchema = `{
	"type": "object",
	"required": ["type"],
	"properties": {
		"type": {"type": "string", "minLength": 1},
		"title": {"type": "string"},
		"description": {"type": "string"},
		"pros": {"type": "array", "items": {"type": "string"}},
		"cons": {"type": "array", "items": {"type": "string"}},
		"matchScore": {"type": "number", "minimum": 0, "maximum": 100},
		"priority": {"enum": ["primary", "secondary"]}
	}
}`

const (
	createTriageSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": ["string", "null"], "maxLength": 500}
	}
}`

	updateTriageSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string", "minLength": 1, "maxLength": 500},
		"status": {"enum": ["draft", "in_progress", "completed"]},
		"answers": {
			"type": "object",
			"additionalProperties": {"type": ["string", "number", "boolean", "null", "array", "object"]}
		},
		"recommendation": {
			"type": ["object", "null"],
			"required": ["routes"],
			"properties": {
				"routes": {"type": "array", "items": ` + routeSchema + `},
				"summary": {"type": "string"}
			}
		}
	}
}`

	chatMessageSchema = `{
	"type": "object",
	"required": ["message"],
	"properties": {
		"message": {"type": "string", "minLength": 1}
	}
}`

	saveSpecificationSchema = `{
	"type": "object",
	"required": ["content"],
	"properties": {
		"content": {"type": "string"}
	}
}`
)

// Compiled request schemas.
var (
	CreateTriage      = mustSchema("create triage", createTriageSchema)
	UpdateTriage      = mustSchema("update triage", updateTriageSchema)
	ChatMessage       = mustSchema("chat message", chatMessageSchema)
	SaveSpecification = mustSchema("save specification", saveSpecificationSchema)
)

func mustSchema(name, src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return s
}

// Validate checks body against schema. Failures are ErrValidation carrying
// the first violation as the message. An empty body is treated as {}.
func Validate(schema *gojsonschema.Schema, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperrors.Validation("Invalid JSON body")
	}

	if !result.Valid() {
		errs := result.Errors()
		return apperrors.Validation(describe(errs[0]))
	}
	return nil
}

func describe(e gojsonschema.ResultError) string {
	if e.Field() == "(root)" {
		return e.Description()
	}
	return fmt.Sprintf("%s: %s", e.Field(), e.Description())
}
