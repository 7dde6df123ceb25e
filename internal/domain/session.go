package domain

import (
	"context"
	"time"
)

// UserID is the external conversation identity of a chat user
type UserID int64

// UserSession is the in-progress parameter collection for one user
type UserSession struct {
	UserID          UserID      `json:"user_id"`
	OperationID     OperationID `json:"operation_id"`
	CollectedParams []string    `json:"collected_params"`
	NextIndex       int         `json:"next_index"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewUserSession starts an empty session for the given operation
func NewUserSession(userID UserID, opID OperationID, now time.Time) *UserSession {
	return &UserSession{
		UserID:          userID,
		OperationID:     opID,
		CollectedParams: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Append records the next argument value and advances NextIndex
func (s *UserSession) Append(value string, now time.Time) {
	s.CollectedParams = append(s.CollectedParams, value)
	s.NextIndex = len(s.CollectedParams)
	s.UpdatedAt = now
}

// SessionStore defines the interface for session storage.
// Get returns ErrSessionNotFound when no session is on file for the user.
type SessionStore interface {
	Get(ctx context.Context, userID UserID) (*UserSession, error)
	Save(ctx context.Context, session *UserSession) error
	Delete(ctx context.Context, userID UserID) error
}
