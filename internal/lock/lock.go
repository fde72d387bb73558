// Package lock guards against two archiver processes racing over the
// same working file. The lock is advisory: baseline behavior does not
// depend on it, a second invocation just fails fast instead of racing.
package lock

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrHeld is returned when another process holds the lock.
var ErrHeld = errors.New("another instance is already running")

type Lock struct {
	fl *flock.Flock
}

// New prepares a lock backed by the file at path. Nothing is acquired
// until TryLock.
func New(path string) *Lock {
	return &Lock{fl: flock.New(path)}
}

// TryLock acquires the lock without blocking.
func (l *Lock) TryLock() error {
	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring lock %s: %w", l.fl.Path(), err)
	}
	if !ok {
		return ErrHeld
	}
	return nil
}

func (l *Lock) Unlock() error {
	return l.fl.Unlock()
}
