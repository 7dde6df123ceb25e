package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/lookup-bot/internal/catalog"
	"github.com/Rrens/lookup-bot/internal/domain"
	"github.com/rs/zerolog/log"
)

// StepKind tells the caller what to do after a collector transition
type StepKind int

const (
	// StepPrompt asks the user for the argument at Step.Index
	StepPrompt StepKind = iota
	// StepExecute hands a fully bound argument list to the executor
	StepExecute
)

// Step is the result of a collector transition
type Step struct {
	Kind      StepKind
	Operation *domain.Operation
	Index     int
	Prompt    string
	Args      []string
}

// ParameterCollector is the per-user state machine that gathers the
// arguments of the selected operation in order. A user has no session
// (NoSession) or one awaiting argument i; reaching i == n deletes the session.
type ParameterCollector struct {
	catalog *catalog.Catalog
	store   domain.SessionStore
	now     func() time.Time
}

// NewParameterCollector creates a new parameter collector
func NewParameterCollector(c *catalog.Catalog, store domain.SessionStore) *ParameterCollector {
	return &ParameterCollector{
		catalog: c,
		store:   store,
		now:     time.Now,
	}
}

// Begin starts an operation for a user, discarding any unfinished session.
// Operations without parameters never create a session.
func (c *ParameterCollector) Begin(ctx context.Context, userID domain.UserID, opID domain.OperationID) (*Step, error) {
	op, err := c.catalog.Lookup(opID)
	if err != nil {
		return nil, err
	}

	if op.ParamCount() == 0 {
		if err := c.store.Delete(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to discard session: %w", err)
		}
		return &Step{Kind: StepExecute, Operation: op, Args: []string{}}, nil
	}

	sess := domain.NewUserSession(userID, op.ID, c.now())
	if err := c.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &Step{Kind: StepPrompt, Operation: op, Index: 0, Prompt: op.ParamPrompts[0]}, nil
}

// Accept records a free-text reply as the next argument of the user's session
func (c *ParameterCollector) Accept(ctx context.Context, userID domain.UserID, text string) (*Step, error) {
	sess, err := c.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	op, err := c.catalog.Lookup(sess.OperationID)
	if err != nil {
		if delErr := c.store.Delete(ctx, userID); delErr != nil {
			log.Warn().Err(delErr).Int64("user_id", int64(userID)).Msg("failed to discard session for unknown operation")
		}
		return nil, err
	}

	sess.Append(strings.TrimSpace(text), c.now())

	if sess.NextIndex < op.ParamCount() {
		if err := c.store.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		return &Step{
			Kind:      StepPrompt,
			Operation: op,
			Index:     sess.NextIndex,
			Prompt:    op.ParamPrompts[sess.NextIndex],
		}, nil
	}

	if err := c.store.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete session: %w", err)
	}

	return &Step{Kind: StepExecute, Operation: op, Args: sess.CollectedParams}, nil
}
