package pipeline

import "sync/atomic"

// Generation tags a FindLeads invocation. A consumer that issues a new
// search before an old one resolves compares generations to discard the
// stale result instead of letting it overwrite newer state.
type Generation uint64

// Session issues monotonically increasing generations. Safe for
// concurrent use; no other shared state exists in the pipeline.
type Session struct {
	current atomic.Uint64
}

// Next reserves and returns the generation for a new search.
func (s *Session) Next() Generation {
	return Generation(s.current.Add(1))
}

// Latest returns the most recently issued generation.
func (s *Session) Latest() Generation {
	return Generation(s.current.Load())
}

// Stale reports whether a result tagged g has been superseded by a
// newer search and should be discarded.
func (s *Session) Stale(g Generation) bool {
	return uint64(g) < s.current.Load()
}
