package ledger

import "sync"

// userLocks serializes order execution per user. Orders from different users
// run concurrently; two orders for the same user never interleave, which
// keeps funds and holdings checks race free on top of the storage layer's
// optimistic transactions.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the per-user mutex, creating it on first use. The returned
// function releases it.
func (l *userLocks) acquire(userID string) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
