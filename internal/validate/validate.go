// Package validate classifies raw contact-field strings as real values
// or noise. Grounded LLM output frequently substitutes placeholders
// ("N/A", "Hidden", "no number") for data it could not find; these must
// be suppressed before a lead reaches the presentation layer.
package validate

import (
	"strings"
	"unicode"
)

// Default minimum lengths for a field to count as a real value. General
// fields (owner names and the like) accept anything non-trivial; contact
// fields need enough characters to plausibly be a phone, email, or URL.
// Both are configurable because the observed behavior differs by call
// site without a stated rationale.
const (
	GeneralMinLen = 1
	ContactMinLen = 5
)

// Phone numbers outside this digit range are placeholders or garbage.
const (
	minPhoneDigits = 8
	maxPhoneDigits = 15
)

// noiseKeywords are tokens equivalent to "value absent". Short tokens
// ("na", "n/a") match only exactly; longer ones also match as
// substrings, so "phone: hidden by owner" is still rejected.
var noiseKeywords = []string{
	"null",
	"na",
	"n/a",
	"none",
	"undefined",
	"not available",
	"missing",
	"hidden",
	"private",
}

// contactNoiseKeywords extend the noise set for contact fields.
var contactNoiseKeywords = []string{
	"no number",
	"unknown",
}

// IsValid reports whether field looks like a real value rather than a
// placeholder. minLen is the minimum normalized length; use
// GeneralMinLen or ContactMinLen unless configured otherwise.
func IsValid(field string, minLen int) bool {
	return isValid(field, minLen, false)
}

// IsContactValid applies the stricter contact-field rules: the extended
// noise set and the given contact minimum length.
func IsContactValid(field string, minLen int) bool {
	return isValid(field, minLen, true)
}

// IsPhoneValid reports whether field looks like a real phone number. It
// requires IsContactValid to pass, then checks the digit sequence:
// between 8 and 15 digits and not a single repeated digit.
func IsPhoneValid(field string, minLen int) bool {
	if !isValid(field, minLen, true) {
		return false
	}

	digits := digitsOf(field)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return false
	}
	if allSameRune(digits) {
		return false
	}
	return true
}

func isValid(field string, minLen int, contact bool) bool {
	norm := strings.ToLower(strings.TrimSpace(field))
	if norm == "" {
		return false
	}

	if matchesNoise(norm, noiseKeywords) {
		return false
	}
	if contact && matchesNoise(norm, contactNoiseKeywords) {
		return false
	}

	if len(norm) < minLen {
		return false
	}

	// A value made purely of punctuation ("---", "???") passes the
	// length check but carries no information.
	return hasAlphanumeric(norm)
}

func matchesNoise(norm string, keywords []string) bool {
	for _, kw := range keywords {
		if norm == kw {
			return true
		}
		// Substring matching for short tokens would reject almost any
		// real value ("banana" contains "na"), so it only applies to
		// keywords long enough to be unambiguous.
		if len(kw) >= 4 && strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameRune(s string) bool {
	if s == "" {
		return false
	}
	first := rune(s[0])
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
