// Package lock provides per-session locking for game actions.
//
// The chat platform normally serializes interaction callbacks for one
// message, but a fast double-click can still deliver two actions for the
// same session before the first response completes. Handlers take the
// session lock around every action so the engine only ever sees one at a
// time.
package lock

import "sync"

// SessionLock provides per-key mutual exclusion, keyed by chat ID.
type SessionLock struct {
	locks sync.Map // map[int64]*sync.Mutex
}

// NewSessionLock creates a new SessionLock instance.
func NewSessionLock() *SessionLock {
	return &SessionLock{}
}

func (sl *SessionLock) getLock(key int64) *sync.Mutex {
	if v, ok := sl.locks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	actual, _ := sl.locks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// Lock acquires the lock for a session key.
func (sl *SessionLock) Lock(key int64) {
	sl.getLock(key).Lock()
}

// Unlock releases the lock for a session key.
func (sl *SessionLock) Unlock(key int64) {
	if v, ok := sl.locks.Load(key); ok {
		v.(*sync.Mutex).Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking. Returns true if
// the lock was acquired.
func (sl *SessionLock) TryLock(key int64) bool {
	return sl.getLock(key).TryLock()
}

// WithLock executes fn while holding the session lock.
func (sl *SessionLock) WithLock(key int64, fn func() error) error {
	sl.Lock(key)
	defer sl.Unlock(key)
	return fn()
}

// Release drops the lock entry for a key once its session is gone.
func (sl *SessionLock) Release(key int64) {
	sl.locks.Delete(key)
}
