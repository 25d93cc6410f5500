package core

import (
	"path/filepath"
	"sync"
)

// ProfileLocks serializes mutating operations per profile directory.
// Different profiles never block each other.
type ProfileLocks struct {
	mu    sync.Mutex
	locks map[string]*profileLock
}

// profileLock counts holders and waiters so the table entry can be dropped once unused
type profileLock struct {
	mu   sync.Mutex
	refs int
}

// NewProfileLocks creates an empty lock table
func NewProfileLocks() *ProfileLocks {
	return &ProfileLocks{locks: make(map[string]*profileLock)}
}

// Lock blocks until the profile at path is free and returns its unlock function.
// The unlock function must be called exactly once.
func (p *ProfileLocks) Lock(path string) func() {
	key := filepath.Clean(path)

	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &profileLock{}
		p.locks[key] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, key)
		}
		p.mu.Unlock()
	}
}
