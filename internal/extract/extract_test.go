package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates_ArrayWithProse(t *testing.T) {
	raw := "Here are the results:\n[{\"name\":\"A\",\"address\":\"X\",\"lat\":1,\"lng\":2}]\nHope this helps!"

	cands, err := Candidates(raw)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "A", cands[0].Str("name"))
	assert.Equal(t, "X", cands[0].Str("address"))

	lat, ok := cands[0].Float("lat")
	require.True(t, ok)
	assert.InDelta(t, 1, lat, 0.001)
}

func TestCandidates_CodeFence(t *testing.T) {
	raw := "```json\n[{\"name\":\"Fenced Bakery\"}]\n```"

	cands, err := Candidates(raw)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "Fenced Bakery", cands[0].Str("name"))
}

func TestCandidates_BareArray(t *testing.T) {
	cands, err := Candidates(`[{"name":"A"},{"name":"B"},{"name":"C"}]`)
	require.NoError(t, err)
	assert.Len(t, cands, 3)
}

func TestCandidates_SingleObjectWrapped(t *testing.T) {
	cands, err := Candidates(`{"name":"Solo"}`)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "Solo", cands[0].Str("name"))
}

func TestCandidates_NullIsEmpty(t *testing.T) {
	cands, err := Candidates("null")
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestCandidates_EmptyArray(t *testing.T) {
	cands, err := Candidates("No businesses matched. []")
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestCandidates_NotJSON(t *testing.T) {
	_, err := Candidates("not json at all")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "not json at all", perr.Raw)
}

func TestCandidates_MalformedArrayFallsBack(t *testing.T) {
	// The bracket slice is invalid JSON, but the whole text parses.
	_, err := Candidates("[not an array]")
	require.Error(t, err)

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestCandidates_SkipsNonObjectElements(t *testing.T) {
	cands, err := Candidates(`[{"name":"A"}, "stray string", 42]`)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "A", cands[0].Str("name"))
}
