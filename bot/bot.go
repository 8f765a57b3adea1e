package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"

	"ruble-bot/internal/handlers"
	"ruble-bot/internal/metrics"
	telegoapi "ruble-bot/pkg/telegoapi"
)

const (
	defaultRateLimit = 20
	updateTimeout    = 30 * time.Second
)

// HandlerProvider handles the updates the bot routes to it.
type HandlerProvider interface {
	GetCommandHandler(command string) handlers.CommandFunc
	HandleText(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error
	HandleUnknown(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error
	HandleCallbackQuery(ctx context.Context, bot telegoapi.BotAPI, query telego.CallbackQuery) error
}

// Bot runs the update loop: each update is handled in its own goroutine,
// rate limited, with a timeout and panic recovery.
type Bot struct {
	bot         telegoapi.BotAPI
	updatesChan <-chan telego.Update
	handler     HandlerProvider
	ratelimiter ratelimit.Limiter
	log         zerolog.Logger
}

// BotDeps holds the dependencies required by the Bot.
type BotDeps struct {
	Bot         telegoapi.BotAPI
	UpdatesChan <-chan telego.Update
	Handler     HandlerProvider
	// RateLimit is the number of updates processed per second; 0 means 20.
	RateLimit int
	Log       zerolog.Logger
}

// New creates a new Bot instance from its dependencies.
func New(deps BotDeps) (*Bot, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("telego bot (BotAPI) instance cannot be nil")
	}
	if deps.Handler == nil {
		return nil, fmt.Errorf("handler provider cannot be nil")
	}
	if deps.UpdatesChan == nil {
		return nil, fmt.Errorf("updates channel cannot be nil")
	}
	rate := deps.RateLimit
	if rate <= 0 {
		rate = defaultRateLimit
	}

	return &Bot{
		bot:         deps.Bot,
		updatesChan: deps.UpdatesChan,
		handler:     deps.Handler,
		ratelimiter: ratelimit.New(rate),
		log:         deps.Log.With().Str("component", "bot").Logger(),
	}, nil
}

// commandName extracts "start" from "/start@ruble_bot payload".
func commandName(text string) string {
	name := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	return name
}

func (b *Bot) handleCommandUpdate(ctx context.Context, message telego.Message) error {
	command := commandName(message.Text)
	handlerFunc := b.handler.GetCommandHandler(command)
	if handlerFunc == nil {
		b.log.Debug().Str("command", command).Msg("no handler for command")
		return b.handler.HandleUnknown(ctx, b.bot, message)
	}
	return handlerFunc(ctx, b.bot, message)
}

// processUpdate routes incoming updates to the appropriate handlers.
func (b *Bot) processUpdate(ctx context.Context, update telego.Update) {
	b.ratelimiter.Take()

	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("panic recovered in processUpdate")
			sentry.CurrentHub().Recover(r)
			sentry.Flush(2 * time.Second)
		}
	}()

	processingCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	kind, err := b.route(processingCtx, update)
	metrics.UpdatesTotal.WithLabelValues(kind).Inc()
	if err != nil {
		b.log.Error().Err(err).Int("update_id", update.UpdateID).Str("kind", kind).Msg("handler error")
		sentry.CaptureException(fmt.Errorf("%s update %d: %w", kind, update.UpdateID, err))
	}
}

func (b *Bot) route(ctx context.Context, update telego.Update) (string, error) {
	switch {
	case update.Message != nil:
		message := *update.Message
		if message.From == nil {
			b.log.Debug().Int64("chat_id", message.Chat.ID).Msg("ignoring message without sender")
			return "ignored", nil
		}
		b.log.Debug().Int64("user_id", message.From.ID).Int("message_id", message.MessageID).Msg("message received")

		switch {
		case strings.HasPrefix(message.Text, "/"):
			return "command", b.handleCommandUpdate(ctx, message)
		case message.Text != "":
			return "text", b.handler.HandleText(ctx, b.bot, message)
		default:
			return "other", b.handler.HandleUnknown(ctx, b.bot, message)
		}

	case update.CallbackQuery != nil:
		query := *update.CallbackQuery
		b.log.Debug().Int64("user_id", query.From.ID).Str("data", query.Data).Msg("callback query received")
		return "callback", b.handler.HandleCallbackQuery(ctx, b.bot, query)

	default:
		return "ignored", nil
	}
}

// Start processes updates until ctx is done or the updates channel closes,
// then waits for in-flight updates.
func (b *Bot) Start(ctx context.Context) {
	b.log.Info().Msg("listening for updates")

	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		b.log.Info().Msg("all update processing finished")
	}()

	for {
		select {
		case <-ctx.Done():
			b.log.Info().Msg("context done, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				b.log.Info().Msg("updates channel closed")
				return
			}
			wg.Add(1)
			go func(up telego.Update) {
				defer wg.Done()
				b.processUpdate(ctx, up)
			}(update)
		}
	}
}
