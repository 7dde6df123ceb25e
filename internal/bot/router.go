package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/lookup-bot/internal/domain"
	"github.com/Rrens/lookup-bot/internal/menu"
	"github.com/Rrens/lookup-bot/internal/service"
	"github.com/Rrens/lookup-bot/internal/session"
	"github.com/rs/zerolog/log"
)

// User-facing messages
const (
	MsgSelectFirst = "Please select an operation first. You can type /start."
	MsgProcessing  = "Your lookup is being processed, please wait..."
	MsgInternal    = "Something went wrong, please try again."
)

// Executor runs a fully bound operation and produces a reply
type Executor interface {
	Run(ctx context.Context, userID domain.UserID, op *domain.Operation, args []string) domain.Reply
}

// Router dispatches inbound events. It keeps no state of its own; session
// state lives in the collector's store and is serialized per user.
type Router struct {
	navigator *menu.Navigator
	collector *service.ParameterCollector
	executor  Executor
	channel   Channel
	locks     *session.KeyedLock
}

// NewRouter creates a new conversation router
func NewRouter(navigator *menu.Navigator, collector *service.ParameterCollector, executor Executor, channel Channel) *Router {
	return &Router{
		navigator: navigator,
		collector: collector,
		executor:  executor,
		channel:   channel,
		locks:     session.NewKeyedLock(),
	}
}

// Handle processes one inbound event
func (r *Router) Handle(ctx context.Context, evt Event) error {
	switch evt.Kind {
	case EventStart:
		return r.channel.SendScreen(ctx, evt.ChatID, r.navigator.Welcome(evt.FirstName))
	case EventSelect:
		return r.handleSelect(ctx, evt)
	case EventText:
		return r.handleText(ctx, evt)
	default:
		return nil
	}
}

func (r *Router) handleSelect(ctx context.Context, evt Event) error {
	action := menu.ParseToken(evt.Data)
	if action.Kind == menu.ActionOperation {
		return r.beginOperation(ctx, evt, action.Operation)
	}

	screen, ok := r.navigator.Navigate(action, evt.FirstName)
	if !ok {
		log.Debug().Str("token", evt.Data).Int64("user_id", int64(evt.UserID)).Msg("ignoring unrecognized selection")
		return nil
	}

	return r.showScreen(ctx, evt, screen)
}

func (r *Router) beginOperation(ctx context.Context, evt Event, opID domain.OperationID) error {
	unlock := r.locks.Lock(evt.UserID)
	step, err := r.collector.Begin(ctx, evt.UserID, opID)
	unlock()

	if err != nil {
		return r.reportError(ctx, evt, err)
	}

	switch step.Kind {
	case service.StepPrompt:
		text := fmt.Sprintf("📝 Please enter the following for %s:\n\n%s", step.Operation.Name, step.Prompt)
		return r.showScreen(ctx, evt, menu.Screen{Text: text})
	default:
		if err := r.showScreen(ctx, evt, menu.Screen{Text: MsgProcessing}); err != nil {
			return err
		}
		return r.execute(ctx, evt, step)
	}
}

func (r *Router) handleText(ctx context.Context, evt Event) error {
	unlock := r.locks.Lock(evt.UserID)
	step, err := r.collector.Accept(ctx, evt.UserID, evt.Data)
	unlock()

	if err != nil {
		return r.reportError(ctx, evt, err)
	}

	switch step.Kind {
	case service.StepPrompt:
		return r.channel.SendText(ctx, evt.ChatID, fmt.Sprintf("Please enter %s:", step.Prompt))
	default:
		if err := r.channel.SendText(ctx, evt.ChatID, MsgProcessing); err != nil {
			return err
		}
		return r.execute(ctx, evt, step)
	}
}

func (r *Router) execute(ctx context.Context, evt Event, step *service.Step) error {
	reply := r.executor.Run(ctx, evt.UserID, step.Operation, step.Args)

	if reply.IsDocument {
		return r.channel.SendDocument(ctx, evt.ChatID, reply.FileName, reply.Data, reply.Caption)
	}
	return r.channel.SendText(ctx, evt.ChatID, reply.Text)
}

// showScreen edits the message the click came from, or sends a new one
// when there is nothing to edit.
func (r *Router) showScreen(ctx context.Context, evt Event, screen menu.Screen) error {
	if evt.MessageID == 0 {
		return r.channel.SendScreen(ctx, evt.ChatID, screen)
	}
	return r.channel.EditScreen(ctx, evt.ChatID, evt.MessageID, screen)
}

func (r *Router) reportError(ctx context.Context, evt Event, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoActiveSession):
		return r.channel.SendText(ctx, evt.ChatID, MsgSelectFirst)
	case errors.Is(err, domain.ErrUnknownOperation):
		log.Warn().Err(err).Int64("user_id", int64(evt.UserID)).Msg("selection references unknown operation")
		return r.channel.SendText(ctx, evt.ChatID, service.MsgUnknownOperation)
	default:
		log.Error().Err(err).Int64("user_id", int64(evt.UserID)).Msg("failed to handle event")
		return r.channel.SendText(ctx, evt.ChatID, MsgInternal)
	}
}
