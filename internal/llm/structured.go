package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed value after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSONArray extracts a JSON array of T from raw model output. It
// handles markdown code fences and leading/trailing prose, then decodes the
// first balanced top-level array. Keys T does not declare are ignored. If
// validator is non-nil each element is validated before return.
func ExtractJSONArray[T any](raw string, validator SchemaValidator[T]) ([]T, error) {
	cleaned := stripCodeFences(raw)
	jsonStr := extractJSONBlock(cleaned, '[', ']')
	if jsonStr == "" {
		return nil, fmt.Errorf("%w: no JSON array found in response", ErrInvalidOutput)
	}

	var result []T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		for i, item := range result {
			if err := validator(item); err != nil {
				return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidOutput, i, err)
			}
		}
	}
	if result == nil {
		result = []T{}
	}
	return result, nil
}

// stripCodeFences removes markdown code fences (```json ... ``` or ``` ... ```).
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

// extractJSONBlock finds the first balanced open...close block in the text,
// ignoring delimiters inside string literals.
func extractJSONBlock(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		switch c {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
