package util

import (
	"sync"
	"time"
)

// Clock is the blocking time source used by the animation engine,
// the gesture classifier and the interaction loop. Every delay in
// those packages goes through Sleep so tests can run without real
// wall-clock waits.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

// NewRealClock returns a Clock backed by the time package.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// FakeClock never blocks. Sleep advances the fake time instantly and
// records the requested duration.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	// OnSleep, when set, is called after every Sleep with the new fake time.
	OnSleep func(now time.Time)
}

// NewFakeClock creates a FakeClock starting at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (s *FakeClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *FakeClock) Sleep(d time.Duration) {
	s.mu.Lock()
	if d > 0 {
		s.now = s.now.Add(d)
	}
	s.sleeps = append(s.sleeps, d)
	now := s.now
	hook := s.OnSleep
	s.mu.Unlock()
	if hook != nil {
		hook(now)
	}
}

// Sleeps returns a copy of all durations passed to Sleep so far.
func (s *FakeClock) Sleeps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]time.Duration, len(s.sleeps))
	copy(ret, s.sleeps)
	return ret
}

// Slept returns the sum of all durations passed to Sleep so far.
func (s *FakeClock) Slept() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total time.Duration
	for _, d := range s.sleeps {
		total += d
	}
	return total
}

// Reset forgets all recorded sleeps. The fake time is kept.
func (s *FakeClock) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = nil
}
