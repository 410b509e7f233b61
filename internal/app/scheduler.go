package app

import (
	"sync"
	"time"
)

// TransitionScheduler arms, fires, and cancels deferred phase transitions.
// Each session holds at most one timer slot: arming replaces any timer already
// armed for that session. Fired callbacks must re-check session state; a Stop
// that races the firing goroutine means a cancelled callback can still run,
// and the phase re-check is what makes that safe.
type TransitionScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewTransitionScheduler() *TransitionScheduler {
	return &TransitionScheduler{timers: make(map[string]*time.Timer)}
}

// Arm schedules fire to run after delay, first cancelling any timer already
// armed for the session.
func (s *TransitionScheduler) Arm(sessionID string, delay time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.timers[sessionID]; ok {
		prev.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.timers[sessionID] == t {
			delete(s.timers, sessionID)
		}
		s.mu.Unlock()
		fire()
	})
	s.timers[sessionID] = t
}

// Cancel clears the session's timer slot. It is a no-op if nothing is armed.
func (s *TransitionScheduler) Cancel(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
		delete(s.timers, sessionID)
	}
}

// CancelAll cancels every outstanding timer across every session. Used on
// global reset so a stray callback cannot revive a cleared session.
func (s *TransitionScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// armed reports whether the session currently has a timer slot occupied.
func (s *TransitionScheduler) armed(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[sessionID]
	return ok
}
