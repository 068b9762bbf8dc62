// Package extract locates and parses the JSON array a grounded search
// response is supposed to contain. The upstream wraps its answer in
// prose, code fences, or commentary often enough that a plain
// json.Unmarshal of the whole response is the fallback, not the primary
// strategy.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/leadscout/internal/model"
)

// ParseError means no parse strategy could recover a JSON structure
// from the response. The raw text is attached for diagnostics; it is a
// recoverable condition at the pipeline level, not a crash.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extract: no JSON structure in response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Candidates parses raw upstream text into untrusted candidate records.
// Strategy order: strip code fences, slice from the first '[' to the
// last ']', parse the slice; if that fails or no brackets exist, parse
// the whole text. A JSON null or empty array yields an empty slice —
// "no leads found" is a valid answer, distinct from malformed output.
func Candidates(raw string) ([]model.RawCandidate, error) {
	text := stripFences(raw)

	var lastErr error
	if sliced, ok := sliceArray(text); ok {
		cands, err := parse(sliced)
		if err == nil {
			return cands, nil
		}
		lastErr = err
	}

	cands, err := parse(strings.TrimSpace(text))
	if err == nil {
		return cands, nil
	}
	if lastErr == nil {
		lastErr = err
	}

	return nil, &ParseError{Raw: raw, Err: lastErr}
}

// stripFences removes a leading markdown code fence and its closing
// fence, if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	return strings.TrimSpace(text)
}

// sliceArray returns the substring from the first '[' to the last ']'.
func sliceArray(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// parse decodes text into candidate records. A top-level object is
// wrapped in a one-element slice; null decodes to an empty slice.
func parse(text string) ([]model.RawCandidate, error) {
	if text == "" {
		return nil, fmt.Errorf("empty input")
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, err
	}

	switch v := decoded.(type) {
	case nil:
		return []model.RawCandidate{}, nil
	case []any:
		cands := make([]model.RawCandidate, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				cands = append(cands, model.RawCandidate(obj))
			}
		}
		return cands, nil
	case map[string]any:
		return []model.RawCandidate{model.RawCandidate(v)}, nil
	default:
		return nil, fmt.Errorf("unexpected top-level JSON type %T", decoded)
	}
}
