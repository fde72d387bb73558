// Package mailbox provides the handoff between the watcher/scheduler
// side and the worker. It is a single slot, not a queue: the working
// file is archived whole every time, so when triggers pile up only the
// latest one matters.
package mailbox

import (
	"context"
	"sync"
)

type Mailbox[T any] struct {
	mu   sync.Mutex
	slot chan T
}

func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{slot: make(chan T, 1)}
}

// Put stores a job, replacing any job still waiting. It never blocks.
func (m *Mailbox[T]) Put(j T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.slot: // drop the stale job
	default:
	}
	m.slot <- j
}

// Take blocks until a job is available or ctx is done. The second
// return is false when the context ended the wait.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	select {
	case j := <-m.slot:
		return j, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}
