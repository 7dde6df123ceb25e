// Package session keeps in-progress parameter collection state per user.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/Rrens/lookup-bot/internal/domain"
)

// MemoryStore implements domain.SessionStore in process memory.
// Sessions idle for longer than the TTL are dropped lazily on read.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]domain.UserSession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a new in-memory session store. A zero TTL keeps
// sessions until they complete or are replaced.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[domain.UserID]domain.UserSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the user's session
func (s *MemoryStore) Get(ctx context.Context, userID domain.UserID) (*domain.UserSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	if s.ttl > 0 && s.now().Sub(sess.UpdatedAt) > s.ttl {
		s.mu.Lock()
		if cur, ok := s.sessions[userID]; ok && cur.UpdatedAt.Equal(sess.UpdatedAt) {
			delete(s.sessions, userID)
		}
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}

	sess.CollectedParams = append([]string(nil), sess.CollectedParams...)
	return &sess, nil
}

// Save stores a copy of the session, replacing any previous one for the user
func (s *MemoryStore) Save(ctx context.Context, session *domain.UserSession) error {
	stored := *session
	stored.CollectedParams = append([]string(nil), session.CollectedParams...)

	s.mu.Lock()
	s.sessions[session.UserID] = stored
	s.mu.Unlock()
	return nil
}

// Delete removes the user's session. Deleting a missing session is not an error.
func (s *MemoryStore) Delete(ctx context.Context, userID domain.UserID) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
