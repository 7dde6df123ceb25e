package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOperation is returned when a selection references an operation absent from the catalog
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrNoActiveSession is returned when free text arrives with no session on file
	ErrNoActiveSession = errors.New("no active session")

	// ErrSessionNotFound is returned by session stores on a miss
	ErrSessionNotFound = errors.New("session not found")
)

// UpstreamError reports a non-2xx answer or a transport failure from the lookup service
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// CatalogError reports a malformed catalog entry detected at load time
type CatalogError struct {
	Entry  string
	Reason string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("malformed catalog entry %q: %s", e.Entry, e.Reason)
}
