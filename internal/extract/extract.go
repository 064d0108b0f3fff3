// Package extract locates the structured payload inside free-form model
// output and validates it.
//
// Models frequently wrap the requested JSON in prose or markdown fences, so
// the payload is found by scanning top-level brace-balanced spans for the
// first one that parses. Objects nested inside a rejected span are never
// candidates. Braces inside JSON string literals are ignored while scanning.
// When no such object exists, or it fails schema validation, extraction
// fails with ErrMalformedResponse.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lehigh-university-libraries/bookmatch/internal/models"
)

// ErrMalformedResponse is returned when model output holds no usable payload.
var ErrMalformedResponse = errors.New("malformed model response")

// Extractor parses AnalysisResult payloads, optionally validating them
// against a JSON Schema.
type Extractor struct {
	schema *jsonschema.Schema
}

// New compiles schema into an Extractor. A nil schema only checks syntax.
func New(schema map[string]any) (*Extractor, error) {
	if schema == nil {
		return &Extractor{}, nil
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize result schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("result.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load result schema: %w", err)
	}
	compiled, err := compiler.Compile("result.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile result schema: %w", err)
	}

	return &Extractor{schema: compiled}, nil
}

// Extract returns the AnalysisResult embedded in raw.
func (e *Extractor) Extract(raw string) (*models.AnalysisResult, error) {
	payload, err := FindObject(raw)
	if err != nil {
		return nil, err
	}

	if e.schema != nil {
		var doc any
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		if err := e.schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("%w: payload does not match schema: %w", ErrMalformedResponse, err)
		}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if !hasRating(payload) {
		return nil, fmt.Errorf("%w: final_rating missing", ErrMalformedResponse)
	}
	if result.PositivePoints == nil {
		result.PositivePoints = []string{}
	}
	if result.NegativePoints == nil {
		result.NegativePoints = []string{}
	}

	return &result, nil
}

// hasRating reports whether payload carries a numeric final_rating. Without
// it the zero value would stand in for a rating the model never gave.
func hasRating(payload string) bool {
	var rated struct {
		FinalRating *float64 `json:"final_rating"`
	}
	return json.Unmarshal([]byte(payload), &rated) == nil && rated.FinalRating != nil
}

// FindObject returns the first top-level brace-balanced span in raw that is
// valid JSON.
func FindObject(raw string) (string, error) {
	found := false
	for start := 0; start < len(raw); start++ {
		if raw[start] != '{' {
			continue
		}
		end := matchBrace(raw, start)
		if end < 0 {
			// Every later brace sits inside this unterminated span.
			break
		}
		found = true
		candidate := raw[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
		start = end
	}

	if !found {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	return "", fmt.Errorf("%w: no valid JSON object found", ErrMalformedResponse)
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
