package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Rrens/lookup-bot/internal/domain"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// SessionStore implements domain.SessionStore on Redis. Each session is a
// JSON document whose expiry is refreshed on every save.
type SessionStore struct {
	client *Client
	ttl    time.Duration
}

// NewSessionStore creates a new Redis session store. A zero TTL stores
// sessions without expiry.
func NewSessionStore(client *Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(userID domain.UserID) string {
	return sessionPrefix + strconv.FormatInt(int64(userID), 10)
}

// Get retrieves the session for a user
func (s *SessionStore) Get(ctx context.Context, userID domain.UserID) (*domain.UserSession, error) {
	data, err := s.client.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess domain.UserSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

// Save stores the session, replacing any previous one for the user
func (s *SessionStore) Save(ctx context.Context, session *domain.UserSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.rdb.Set(ctx, sessionKey(session.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session for a user
func (s *SessionStore) Delete(ctx context.Context, userID domain.UserID) error {
	if err := s.client.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// FlushAll removes all stored sessions
func (s *SessionStore) FlushAll(ctx context.Context) (int64, error) {
	pattern := sessionPrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := s.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := s.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
