package util

import (
	"sync"
)

// AtomicEvent holds the latest value handed over from the control loop
// to a slower consumer (a TUI redraw, a websocket broadcast). Send never
// blocks; a consumer that falls behind only ever sees the newest value.
type AtomicEvent[T any] struct {
	mu     sync.Mutex
	value  T
	seq    uint64
	notify chan struct{} // capacity 1, one pending notification at most
}

// NewAtomicEvent creates a new AtomicEvent instance.
func NewAtomicEvent[T any]() *AtomicEvent[T] {
	return &AtomicEvent[T]{
		notify: make(chan struct{}, 1),
	}
}

// Send replaces the stored value and flags a pending notification.
func (ae *AtomicEvent[T]) Send(event T) {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	ae.value = event
	ae.seq++

	select {
	case ae.notify <- struct{}{}:
	default:
		// already pending
	}
}

// Channel returns the notification channel for use in select statements.
func (ae *AtomicEvent[T]) Channel() <-chan struct{} {
	return ae.notify
}

// Value returns the latest value.
func (ae *AtomicEvent[T]) Value() T {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	return ae.value
}

// Latest returns the latest value together with the number of Send
// calls that produced it. Consumers compare sequence numbers to tell
// how many values they skipped.
func (ae *AtomicEvent[T]) Latest() (T, uint64) {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	return ae.value, ae.seq
}

// HasPending checks if a notification is waiting to be consumed.
func (ae *AtomicEvent[T]) HasPending() bool {
	return len(ae.notify) > 0
}
