package session

import (
	"sync"

	"github.com/Rrens/lookup-bot/internal/domain"
)

// KeyedLock serializes work per user id while letting different users
// proceed in parallel. Entries are released once no goroutine holds or
// waits on them.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[domain.UserID]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedLock creates a new keyed lock
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{locks: make(map[domain.UserID]*refLock)}
}

// Lock acquires the lock for a user and returns its release function
func (k *KeyedLock) Lock(userID domain.UserID) func() {
	k.mu.Lock()
	l, ok := k.locks[userID]
	if !ok {
		l = &refLock{}
		k.locks[userID] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, userID)
		}
		k.mu.Unlock()
	}
}

// Len returns the number of users currently holding or waiting on a lock
func (k *KeyedLock) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
