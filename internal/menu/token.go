package menu

import (
	"strings"

	"github.com/Rrens/lookup-bot/internal/domain"
)

// Navigation tokens exchanged with the chat transport's button clicks
const (
	TokenRoot   = "nav:root"
	TokenBrowse = "nav:ops"
	TokenAbout  = "nav:about"

	categoryPrefix  = "cat:"
	operationPrefix = "op:"
)

// ActionKind is the decoded target of a navigation token
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionRoot
	ActionBrowse
	ActionAbout
	ActionCategory
	ActionOperation
)

// Action is a decoded navigation token
type Action struct {
	Kind      ActionKind
	Category  domain.CategoryID
	Operation domain.OperationID
}

// CategoryToken encodes an "open category" action
func CategoryToken(id domain.CategoryID) string {
	return categoryPrefix + string(id)
}

// OperationToken encodes a "begin operation" action
func OperationToken(id domain.OperationID) string {
	return operationPrefix + string(id)
}

// ParseToken decodes a navigation token. Unrecognized tokens decode to ActionNone.
func ParseToken(token string) Action {
	switch token {
	case TokenRoot:
		return Action{Kind: ActionRoot}
	case TokenBrowse:
		return Action{Kind: ActionBrowse}
	case TokenAbout:
		return Action{Kind: ActionAbout}
	}

	if id, ok := strings.CutPrefix(token, categoryPrefix); ok && id != "" {
		return Action{Kind: ActionCategory, Category: domain.CategoryID(id)}
	}
	if id, ok := strings.CutPrefix(token, operationPrefix); ok && id != "" {
		return Action{Kind: ActionOperation, Operation: domain.OperationID(id)}
	}

	return Action{Kind: ActionNone}
}
