// Package subjectlock serializes writes that share a subject key, so the
// read-validate-write sequence of an interval record cannot interleave with
// another writer for the same provider.
package subjectlock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned when the lock could not be acquired within the wait budget.
var ErrBusy = errors.New("subject is locked by another writer")

// Unlock releases a held lock. It is safe to call once.
type Unlock func()

// Locker acquires an exclusive lock on a subject key.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// LocalLocker serializes writers inside a single process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
	wait  time.Duration
}

// NewLocalLocker returns a locker that waits at most wait for a busy key.
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{locks: make(map[string]chan struct{}), wait: wait}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	return ch
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	ch := l.slot(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
	case <-timer.C:
		return nil, ErrBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}
