package model

import "strconv"

// RawCandidate is the untrusted boundary type: a loosely-typed mapping
// produced by parsing upstream text. Every field is optional and may be
// the wrong type; accessors treat absence and type mismatch identically.
type RawCandidate map[string]any

// Str returns the string value for key, or "" when the key is absent or
// not a string.
func (c RawCandidate) Str(key string) string {
	s, _ := c[key].(string)
	return s
}

// Float returns the numeric value for key. Numbers arrive as float64
// from the JSON decoder, but the upstream occasionally quotes them, so
// numeric strings are coerced too. The second return is false when no
// usable number is present.
func (c RawCandidate) Float(key string) (float64, bool) {
	switch v := c[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int returns the integer value for key, truncating fractional input.
func (c RawCandidate) Int(key string) (int, bool) {
	f, ok := c.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}
