package clock

import "sync"

// Sequencer issues strictly increasing write versions from a single
// shared counter. Version 0 is never issued; it is reserved to mean
// "unknown" throughout the store.
type Sequencer struct {
	mu      sync.Mutex
	current uint64
}

// NewSequencer creates a sequencer starting at 0; the first issued
// version is 1.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next consumes and returns the next version. If a call to Next completes
// before another begins, the later call observes a greater version.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current++
	return s.current
}

// Current returns the most recently issued version without consuming one.
func (s *Sequencer) Current() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
