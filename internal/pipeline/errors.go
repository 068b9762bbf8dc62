package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sells-group/leadscout/internal/extract"
)

// Kind classifies a pipeline failure. The classified kind, not the raw
// upstream error, is what crosses into the presentation layer: each kind
// maps to a distinct user-actionable message.
type Kind int

const (
	// KindUnknown is the zero value; it should not escape Classify.
	KindUnknown Kind = iota

	// KindInvalidQuery means the caller's query failed local
	// validation. Never reaches the upstream.
	KindInvalidQuery

	// KindCredentialMissing means no API credential is configured.
	// Surfaced before any network call, never retried.
	KindCredentialMissing

	// KindParse means extraction failed on the response shape. A data
	// problem, not a transient one; not retried.
	KindParse

	// KindQuota means the upstream signaled rate-limit or quota
	// exhaustion. Retried with backoff.
	KindQuota

	// KindInvalidArgument means the upstream rejected the request
	// shape. Not retried; the caller should simplify the query.
	KindInvalidArgument

	// KindTransport covers any other upstream failure. Retried with
	// backoff.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindInvalidQuery:
		return "invalid_query"
	case KindCredentialMissing:
		return "credential_missing"
	case KindParse:
		return "parse_error"
	case KindQuota:
		return "quota_exceeded"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindTransport:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Retryable reports whether failures of this kind are worth another
// attempt against the upstream.
func (k Kind) Retryable() bool {
	return k == KindQuota || k == KindTransport
}

// Message returns the user-facing guidance for this kind.
func (k Kind) Message() string {
	switch k {
	case KindInvalidQuery:
		return "provide a city and at least one category"
	case KindCredentialMissing:
		return "configure an API credential"
	case KindParse:
		return "try a narrower or simpler query"
	case KindQuota:
		return "quota exhausted; retry later or configure an alternate credential"
	case KindInvalidArgument:
		return "the search request was rejected; try fewer categories"
	default:
		return "the search failed; try again"
	}
}

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with a kind.
func E(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the classified kind from an error chain, or
// KindUnknown when none is present.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// quotaIndicators are message fragments signaling rate-limit or quota
// exhaustion across upstream SDK versions.
var quotaIndicators = []string{
	"429",
	"rate limit",
	"rate_limit",
	"too many requests",
	"quota",
	"resource_exhausted",
	"overloaded",
}

// invalidArgumentIndicators signal the upstream rejected the request
// shape.
var invalidArgumentIndicators = []string{
	"400",
	"invalid_request",
	"invalid argument",
	"invalid_argument",
	"bad request",
}

// Classify maps a raw failure into the taxonomy by inspecting message
// content. Already-classified errors pass through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}

	var parseErr *extract.ParseError
	if errors.As(err, &parseErr) {
		return E(KindParse, err)
	}

	msg := strings.ToLower(err.Error())
	for _, ind := range quotaIndicators {
		if strings.Contains(msg, ind) {
			return E(KindQuota, err)
		}
	}
	for _, ind := range invalidArgumentIndicators {
		if strings.Contains(msg, ind) {
			return E(KindInvalidArgument, err)
		}
	}

	return E(KindTransport, err)
}
