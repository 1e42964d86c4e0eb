package search

import "sync/atomic"

// Fence hands out monotonically increasing search sequence numbers and
// reports whether a finished search is still the latest one issued. A caller
// that runs searches concurrently applies a response only when Latest says
// so, which replaces the old last-response-wins race with deterministic
// newest-request-wins behavior.
type Fence struct {
	seq atomic.Uint64
}

// Next issues the sequence number for a new search.
func (f *Fence) Next() uint64 {
	return f.seq.Add(1)
}

// Latest reports whether seq belongs to the most recently issued search.
func (f *Fence) Latest(seq uint64) bool {
	return f.seq.Load() == seq
}
