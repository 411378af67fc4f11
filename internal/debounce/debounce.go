// Package debounce defers query dispatch until input has been quiet for an interval.
package debounce

import (
	"sync"
	"time"
)

// DefaultInterval is the quiet period used when none is configured.
const DefaultInterval = 500 * time.Millisecond

// Scheduler fires once with the latest text after changes stop arriving for
// the configured interval. Every change cancels the previously armed timer.
//
// All methods are safe for concurrent use. fire runs on the timer goroutine
// and is never called for a superseded or canceled change.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	pending  bool
	text     string
	seq      uint64 // detects timers that lost the race with Changed or Cancel
	fire     func(text string)
}

// New returns a scheduler. A non-positive interval uses DefaultInterval.
func New(interval time.Duration, fire func(text string)) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, fire: fire}
}

// Interval is the quiet period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Changed records new input text and restarts the quiet period.
func (s *Scheduler) Changed(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = true
	s.text = text
	s.seq++
	current := s.seq

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		if !s.pending || s.seq != current || s.fire == nil {
			s.mu.Unlock()
			return
		}
		s.pending = false
		text := s.text
		s.mu.Unlock()
		s.fire(text)
	})
}

// Cancel drops the pending change without firing.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
	s.pending = false
}

// Pending reports whether a change is waiting for its quiet period to end.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
