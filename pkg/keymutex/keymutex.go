// Package keymutex provides mutual exclusion per string key.
package keymutex

import "sync"

type lock struct {
	mu   sync.Mutex
	refs int
}

// KeyMutex hands out one mutex per key. Locks for idle keys are released so
// the map does not grow with the key space.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*lock
}

func New() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*lock)}
}

// Lock blocks until the mutex for key is held by the caller.
func (m *KeyMutex) Lock(key string) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &lock{}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the mutex for key. It must only be called by a goroutine
// that holds it.
func (m *KeyMutex) Unlock(key string) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		m.mu.Unlock()
		panic("keymutex: unlock of unlocked key " + key)
	}
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()

	l.mu.Unlock()
}
