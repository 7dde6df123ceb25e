package telegram_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Rrens/lookup-bot/internal/bot"
	"github.com/Rrens/lookup-bot/internal/config"
	"github.com/Rrens/lookup-bot/internal/domain"
	"github.com/Rrens/lookup-bot/internal/menu"
	"github.com/Rrens/lookup-bot/internal/telegram"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu         sync.Mutex
	sent       []tgbotapi.Chattable
	requested  []tgbotapi.Chattable
	requestErr error
	updates    chan tgbotapi.Update
	stopped    bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, c)
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

type recordingHandler struct {
	mu     sync.Mutex
	events []bot.Event
}

func (h *recordingHandler) Handle(ctx context.Context, evt bot.Event) error {
	if evt.Data == "panic" {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evt)
	return nil
}

func commandMessage(text string, length int) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 3,
		From:      &tgbotapi.User{ID: 42, FirstName: "Ada"},
		Chat:      &tgbotapi.Chat{ID: 42},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

func TestToEvent(t *testing.T) {
	tests := []struct {
		name   string
		update tgbotapi.Update
		want   bot.Event
		ok     bool
	}{
		{
			name:   "start command",
			update: tgbotapi.Update{Message: commandMessage("/start", 6)},
			want:   bot.Event{Kind: bot.EventStart, UserID: 42, ChatID: 42, FirstName: "Ada"},
			ok:     true,
		},
		{
			name:   "other command ignored",
			update: tgbotapi.Update{Message: commandMessage("/help", 5)},
			ok:     false,
		},
		{
			name: "free text",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				From: &tgbotapi.User{ID: 42, FirstName: "Ada"},
				Chat: &tgbotapi.Chat{ID: 42},
				Text: "8.8.8.8",
			}},
			want: bot.Event{Kind: bot.EventText, UserID: 42, ChatID: 42, FirstName: "Ada", Data: "8.8.8.8"},
			ok:   true,
		},
		{
			name: "message without text ignored",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				From: &tgbotapi.User{ID: 42},
				Chat: &tgbotapi.Chat{ID: 42},
			}},
			ok: false,
		},
		{
			name: "callback",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				ID:   "cb1",
				From: &tgbotapi.User{ID: 42, FirstName: "Ada"},
				Data: "cat:network",
				Message: &tgbotapi.Message{
					MessageID: 9,
					Chat:      &tgbotapi.Chat{ID: -100},
				},
			}},
			want: bot.Event{Kind: bot.EventSelect, UserID: 42, ChatID: -100, MessageID: 9, FirstName: "Ada", Data: "cat:network"},
			ok:   true,
		},
		{
			name: "callback without message falls back to user chat",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				ID:   "cb2",
				From: &tgbotapi.User{ID: 42},
				Data: "nav:root",
			}},
			want: bot.Event{Kind: bot.EventSelect, UserID: 42, ChatID: 42, Data: "nav:root"},
			ok:   true,
		},
		{
			name:   "empty update",
			update: tgbotapi.Update{},
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := telegram.ToEvent(tt.update)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestInlineKeyboard(t *testing.T) {
	assert.Nil(t, telegram.InlineKeyboard(nil))

	markup := telegram.InlineKeyboard(menu.Keyboard{
		{{Label: "A", Token: "op:a"}, {Label: "B", Token: "op:b"}},
		{{Label: "Back", Token: menu.TokenBrowse}},
	})
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "B", markup.InlineKeyboard[0][1].Text)
	require.NotNil(t, markup.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, menu.TokenBrowse, *markup.InlineKeyboard[1][0].CallbackData)
}

func TestChannel_SendScreen(t *testing.T) {
	api := newFakeAPI()
	ch := telegram.NewChannel(api)

	err := ch.SendScreen(context.Background(), 42, menu.Screen{
		Text:     "*hi*",
		Keyboard: menu.Keyboard{{{Label: "A", Token: "nav:ops"}}},
		Markdown: true,
	})
	require.NoError(t, err)

	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.IsType(t, tgbotapi.InlineKeyboardMarkup{}, msg.ReplyMarkup)
}

func TestChannel_EditScreen(t *testing.T) {
	api := newFakeAPI()
	ch := telegram.NewChannel(api)

	require.NoError(t, ch.EditScreen(context.Background(), 42, 9, menu.Screen{Text: "processing"}))

	require.Len(t, api.requested, 1)
	edit, ok := api.requested[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 9, edit.MessageID)
	assert.Equal(t, "processing", edit.Text)
	assert.Nil(t, edit.ReplyMarkup)
}

func TestChannel_EditScreen_NotModified(t *testing.T) {
	api := newFakeAPI()
	api.requestErr = errors.New("Bad Request: message is not modified")
	ch := telegram.NewChannel(api)

	assert.NoError(t, ch.EditScreen(context.Background(), 42, 9, menu.Screen{Text: "same"}))

	api.requestErr = errors.New("Bad Request: message to edit not found")
	assert.Error(t, ch.EditScreen(context.Background(), 42, 9, menu.Screen{Text: "same"}))
}

func TestChannel_SendDocument(t *testing.T) {
	api := newFakeAPI()
	ch := telegram.NewChannel(api)

	require.NoError(t, ch.SendDocument(context.Background(), 42, "IP_sonuc.txt", []byte("data"), "caption"))

	doc, ok := api.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, "caption", doc.Caption)
	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "IP_sonuc.txt", file.Name)
	assert.Equal(t, []byte("data"), file.Bytes)
}

func TestPoller_Run(t *testing.T) {
	api := newFakeAPI()
	handler := &recordingHandler{}
	poller := telegram.NewPoller(api, handler, config.TelegramConfig{PollTimeout: 1, Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	api.updates <- tgbotapi.Update{UpdateID: 1, Message: commandMessage("/start", 6)}
	api.updates <- tgbotapi.Update{UpdateID: 2, CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: 7},
		Data: "panic",
	}}
	api.updates <- tgbotapi.Update{UpdateID: 3, CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: 7},
		Data: "nav:ops",
	}}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop")
	}

	assert.True(t, api.stopped)
	// both callbacks are answered, including the one whose handler panicked
	assert.Len(t, api.requested, 2)

	require.Len(t, handler.events, 2)
	kinds := map[bot.EventKind]domain.UserID{}
	for _, evt := range handler.events {
		kinds[evt.Kind] = evt.UserID
	}
	assert.Equal(t, domain.UserID(42), kinds[bot.EventStart])
	assert.Equal(t, domain.UserID(7), kinds[bot.EventSelect])
}

func TestChannel_SendText(t *testing.T) {
	api := newFakeAPI()
	ch := telegram.NewChannel(api)

	require.NoError(t, ch.SendText(context.Background(), 42, "a_b *c*"))

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "a_b *c*", msg.Text)
	assert.Empty(t, msg.ParseMode)
	assert.Nil(t, msg.ReplyMarkup)
}
