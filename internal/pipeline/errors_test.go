package pipeline

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/extract"
)

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassify_PassthroughKeepsKind(t *testing.T) {
	orig := E(KindCredentialMissing, eris.New("no api key configured"))
	wrapped := eris.Wrap(orig, "search failed")

	got := Classify(wrapped)
	assert.Equal(t, KindCredentialMissing, got.Kind)
}

func TestClassify_ParseError(t *testing.T) {
	err := &extract.ParseError{Raw: "garbage", Err: eris.New("no array found")}
	got := Classify(eris.Wrap(err, "extraction"))
	assert.Equal(t, KindParse, got.Kind)
}

func TestClassify_Quota(t *testing.T) {
	for _, msg := range []string{
		"429 Too Many Requests",
		"rate_limit_error: request rate exceeded",
		"monthly quota exhausted",
		"upstream overloaded, retry later",
	} {
		got := Classify(eris.New(msg))
		assert.Equal(t, KindQuota, got.Kind, "message %q", msg)
		assert.True(t, got.Kind.Retryable())
	}
}

func TestClassify_InvalidArgument(t *testing.T) {
	for _, msg := range []string{
		"400 Bad Request",
		"invalid_request_error: prompt too long",
	} {
		got := Classify(eris.New(msg))
		assert.Equal(t, KindInvalidArgument, got.Kind, "message %q", msg)
		assert.False(t, got.Kind.Retryable())
	}
}

func TestClassify_DefaultTransport(t *testing.T) {
	got := Classify(eris.New("connection reset by peer"))
	assert.Equal(t, KindTransport, got.Kind)
	assert.True(t, got.Kind.Retryable())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindQuota, KindOf(E(KindQuota, eris.New("quota"))))
	assert.Equal(t, KindUnknown, KindOf(eris.New("unclassified")))
}

func TestKind_Retryable(t *testing.T) {
	retryable := map[Kind]bool{
		KindUnknown:           false,
		KindInvalidQuery:      false,
		KindCredentialMissing: false,
		KindParse:             false,
		KindQuota:             true,
		KindInvalidArgument:   false,
		KindTransport:         true,
	}
	for kind, want := range retryable {
		assert.Equal(t, want, kind.Retryable(), "kind %v", kind)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := eris.New("inner")
	err := E(KindTransport, inner)

	require.NotNil(t, err.Unwrap())
	assert.Contains(t, err.Error(), "transport_error")
	assert.Contains(t, err.Error(), "inner")
}
