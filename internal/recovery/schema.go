package recovery

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// EvaluationSchema describes the normalized evaluation object. Attempts are
// checked against it after normalization; a mismatch is logged, never fatal.
func EvaluationSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"verdict", "scores"},
		"properties": map[string]any{
			"verdict": map[string]any{"type": "string"},
			"scores": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "number"},
			},
			"strengths":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"risks":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"suggestions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"raw_text":    map[string]any{"type": "string"},
		},
	}
}

// ValidateAgainstSchema validates data against schemaMap.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// Validate checks an evaluation against the canonical schema.
func Validate(ev Evaluation) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}
	return ValidateAgainstSchema(EvaluationSchema(), b)
}
