// Package bot routes inbound chat events to the menu navigator, the
// parameter collector and the query executor.
package bot

import (
	"context"

	"github.com/Rrens/lookup-bot/internal/domain"
	"github.com/Rrens/lookup-bot/internal/menu"
)

// Channel is the outbound side of the chat transport
type Channel interface {
	// SendText sends a plain text message
	SendText(ctx context.Context, chatID int64, text string) error

	// SendScreen sends a new message carrying a button grid
	SendScreen(ctx context.Context, chatID int64, screen menu.Screen) error

	// EditScreen replaces an existing message and its buttons in place
	EditScreen(ctx context.Context, chatID int64, messageID int, screen menu.Screen) error

	// SendDocument sends a file attachment with a caption
	SendDocument(ctx context.Context, chatID int64, fileName string, data []byte, caption string) error
}

// EventKind classifies an inbound event
type EventKind int

const (
	// EventStart is the start command
	EventStart EventKind = iota
	// EventSelect is a button click carrying a navigation token
	EventSelect
	// EventText is a free-text reply
	EventText
)

// Event is one inbound event from the chat transport
type Event struct {
	Kind      EventKind
	UserID    domain.UserID
	ChatID    int64
	MessageID int
	FirstName string
	// Data holds the navigation token for EventSelect and the message text for EventText
	Data string
}
