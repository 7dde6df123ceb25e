package telegram

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/Rrens/lookup-bot/internal/bot"
	"github.com/Rrens/lookup-bot/internal/config"
	"github.com/Rrens/lookup-bot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const startCommand = "start"

// Handler consumes inbound events
type Handler interface {
	Handle(ctx context.Context, evt bot.Event) error
}

// Poller long-polls the Bot API and hands every update to the handler on
// its own goroutine, up to a fixed number at a time
type Poller struct {
	api     API
	handler Handler
	timeout int
	workers int
}

// NewPoller creates a new update poller
func NewPoller(api API, handler Handler, cfg config.TelegramConfig) *Poller {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Poller{
		api:     api,
		handler: handler,
		timeout: cfg.PollTimeout,
		workers: workers,
	}
}

// Run receives updates until ctx is cancelled, then stops polling and waits
// for in-flight updates to finish. Handlers run on a context that outlives
// ctx so a lookup already in progress still gets its reply.
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.timeout
	updates := p.api.GetUpdatesChan(u)

	handlerCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(p.workers)

	log.Info().Int("workers", p.workers).Msg("Polling for updates")

	for {
		select {
		case <-ctx.Done():
			p.api.StopReceivingUpdates()
			log.Info().Msg("Stopped polling, waiting for in-flight updates")
			return g.Wait()
		case update, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				p.dispatch(handlerCtx, update)
				return nil
			})
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Int("update_id", update.UpdateID).
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Msg("recovered from panic while handling update")
		}
	}()

	if cb := update.CallbackQuery; cb != nil {
		if _, err := p.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			log.Warn().Err(err).Msg("failed to answer callback query")
		}
	}

	evt, ok := ToEvent(update)
	if !ok {
		return
	}

	if err := p.handler.Handle(ctx, evt); err != nil {
		log.Error().
			Err(err).
			Int("update_id", update.UpdateID).
			Int64("user_id", int64(evt.UserID)).
			Msg("failed to handle update")
	}
}

// ToEvent maps an update to a router event. Updates the bot does not act
// on, such as unknown commands or non-text messages, yield false.
func ToEvent(update tgbotapi.Update) (bot.Event, bool) {
	if cb := update.CallbackQuery; cb != nil {
		if cb.From == nil {
			return bot.Event{}, false
		}
		evt := bot.Event{
			Kind:      bot.EventSelect,
			UserID:    domain.UserID(cb.From.ID),
			ChatID:    cb.From.ID,
			FirstName: cb.From.FirstName,
			Data:      cb.Data,
		}
		if msg := cb.Message; msg != nil && msg.Chat != nil {
			evt.ChatID = msg.Chat.ID
			evt.MessageID = msg.MessageID
		}
		return evt, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return bot.Event{}, false
	}

	evt := bot.Event{
		UserID:    domain.UserID(msg.From.ID),
		ChatID:    msg.Chat.ID,
		FirstName: msg.From.FirstName,
	}

	switch {
	case msg.IsCommand():
		if msg.Command() != startCommand {
			return bot.Event{}, false
		}
		evt.Kind = bot.EventStart
	case msg.Text != "":
		evt.Kind = bot.EventText
		evt.Data = msg.Text
	default:
		return bot.Event{}, false
	}

	return evt, true
}
