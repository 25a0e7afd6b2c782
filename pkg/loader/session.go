package loader

import (
	"slices"
	"sync"
)

// Session collects the results of one batch of part loads and fires its
// completion callback exactly once, when the last expected result arrives.
type Session struct {
	mu         sync.Mutex
	expected   int
	completed  int
	results    []Result
	onComplete func([]Result)
	done       chan struct{}
}

// NewSession creates a session expecting n results. onComplete may be nil.
func NewSession(n int, onComplete func([]Result)) *Session {
	return &Session{
		expected:   n,
		onComplete: onComplete,
		done:       make(chan struct{}),
	}
}

// Resolve records one result. It returns true if this result completed the
// session. Results past the expected count are ignored.
func (s *Session) Resolve(r Result) bool {
	s.mu.Lock()
	if s.completed >= s.expected {
		s.mu.Unlock()
		return false
	}
	s.completed++
	s.results = append(s.results, r)
	if s.completed < s.expected {
		s.mu.Unlock()
		return false
	}
	results := s.sortedLocked()
	s.mu.Unlock()

	s.fire(results)
	return true
}

// fire runs the callback and then closes Done, so a receiver on Done sees
// everything the callback did.
func (s *Session) fire(results []Result) {
	if s.onComplete != nil {
		s.onComplete(results)
	}
	close(s.done)
}

// Done is closed once the session has completed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Progress returns how many results have arrived out of how many expected.
func (s *Session) Progress() (completed, expected int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed, s.expected
}

// Results returns the results received so far in request order.
func (s *Session) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *Session) sortedLocked() []Result {
	out := slices.Clone(s.results)
	slices.SortStableFunc(out, func(a, b Result) int { return a.Index - b.Index })
	return out
}
