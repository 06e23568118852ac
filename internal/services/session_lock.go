package services

import "sync"

// sessionLocks hands out one mutex per session id. Entries are reference
// counted and removed when the last holder unlocks.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// Lock blocks until the caller holds the session's mutex and returns the
// function that releases it.
func (l *sessionLocks) Lock(id string) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sessionLock{}
		l.locks[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
