package extract

// BuildTokenDumpJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the token dump files the external extraction step
// emits. We validate every dump against it before any token reaches the
// row-grouping stage, so malformed geometry is rejected at the boundary
// instead of surfacing as parser misbehavior.
func BuildTokenDumpJSONSchema() map[string]any {
	tokenProps := map[string]any{
		"text":   map[string]any{"type": "string"},
		"x":      map[string]any{"type": "number"},
		"y":      map[string]any{"type": "number"},
		"width":  map[string]any{"type": "number", "minimum": 0.0},
		"height": map[string]any{"type": "number", "minimum": 0.0},
	}
	token := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           tokenProps,
		"required":             []string{"text", "x", "y"},
	}
	page := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"number": map[string]any{"type": "integer", "minimum": 1.0},
			"tokens": map[string]any{"type": "array", "items": token},
		},
		"required": []string{"tokens"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"source": map[string]any{"type": "string"},
			"pages":  map[string]any{"type": "array", "items": page, "minItems": 1.0},
		},
		"required": []string{"pages"},
	}
}
