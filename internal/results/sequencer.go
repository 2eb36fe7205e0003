package results

import "sync/atomic"

// Sequencer hands out monotonically increasing sequence numbers for search
// requests so late completions can be discarded. The fetch path itself has
// no in-flight guard; rapid repeated searches race and only the response
// carrying the latest sequence may update the view.
type Sequencer struct {
	latest atomic.Uint64
}

// Next registers a new request and returns its sequence number.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// Latest reports whether seq is still the newest issued request. A stale
// response must be dropped by the caller, leaving the prior view untouched.
func (s *Sequencer) Latest(seq uint64) bool {
	return s.latest.Load() == seq
}
