package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/lookup-bot/internal/menu"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Channel implements bot.Channel on top of the Bot API
type Channel struct {
	api API
}

// NewChannel creates a new outbound channel
func NewChannel(api API) *Channel {
	return &Channel{api: api}
}

// SendText sends a plain text message without markup
func (c *Channel) SendText(ctx context.Context, chatID int64, text string) error {
	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendScreen sends a new message with its inline keyboard
func (c *Channel) SendScreen(ctx context.Context, chatID int64, screen menu.Screen) error {
	msg := tgbotapi.NewMessage(chatID, screen.Text)
	if screen.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if markup := InlineKeyboard(screen.Keyboard); markup != nil {
		msg.ReplyMarkup = *markup
	}

	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send menu: %w", err)
	}
	return nil
}

// EditScreen replaces the text and buttons of an existing message. Editing
// a message into identical content is treated as success.
func (c *Channel) EditScreen(ctx context.Context, chatID int64, messageID int, screen menu.Screen) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, screen.Text)
	if screen.Markdown {
		edit.ParseMode = tgbotapi.ModeMarkdown
	}
	edit.ReplyMarkup = InlineKeyboard(screen.Keyboard)

	if _, err := c.api.Request(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// SendDocument uploads data as a named file with a caption
func (c *Channel) SendDocument(ctx context.Context, chatID int64, fileName string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: data})
	doc.Caption = caption

	if _, err := c.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

// InlineKeyboard converts a button grid into inline keyboard markup.
// It returns nil for an empty grid so the message carries no buttons.
func InlineKeyboard(kb menu.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
		}
		rows = append(rows, buttons)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
