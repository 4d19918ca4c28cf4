// Package mailbox provides a single-slot latest-wins buffer. The
// monitor uses it to coalesce filesystem change notifications: however
// many events arrive between checks, at most one wake-up is pending.
package mailbox

import (
	"context"
	"sync"
)

// Mailbox holds at most one pending value. Put overwrites any existing
// value and never blocks; Take blocks until a value is available.
type Mailbox[T any] struct {
	mu     sync.Mutex
	val    *T
	notify chan struct{}
}

func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{notify: make(chan struct{}, 1)}
}

// Put stores a value, replacing any existing one. Never blocks.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	m.val = &v
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Take blocks until a value is available or ctx is cancelled.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	for {
		if v := m.TryTake(); v != nil {
			return *v, true
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, false
		case <-m.notify:
		}
	}
}

// TryTake returns the pending value, or nil if the slot is empty.
// Never blocks.
func (m *Mailbox[T]) TryTake() *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.val == nil {
		return nil
	}
	v := m.val
	m.val = nil
	return v
}

// Signal exposes the wake-up channel for use in a select loop alongside
// other events. After receiving, drain with TryTake.
func (m *Mailbox[T]) Signal() <-chan struct{} {
	return m.notify
}
