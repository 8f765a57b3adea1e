package handlers

import (
	"context"
	"fmt"
	"html"
	"os"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"ruble-bot/internal/locales"
	"ruble-bot/internal/metrics"
	telegoapi "ruble-bot/pkg/telegoapi"
)

// HandleStart handles the /start command by showing the main menu.
// The feedback session, if any, is left as it is.
func (h *MessageHandler) HandleStart(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	localizer := h.getLocalizer(message.From)

	h.RecordUserActivity(ctx, message.From, ActionCommandStart, h.isAdmin(ctx, message.Chat.ID), map[string]interface{}{
		"chat_id": message.Chat.ID,
	})

	return h.sendMainMenu(ctx, bot, message.Chat.ID, localizer)
}

// HandleFeedback handles /feedback the same way as the feedback button.
func (h *MessageHandler) HandleFeedback(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if message.From == nil {
		return nil
	}
	return h.requestFeedback(ctx, bot, message.From, message.Chat.ID)
}

// HandleCancel handles /cancel the same way as the back button.
func (h *MessageHandler) HandleCancel(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if message.From == nil {
		return nil
	}
	return h.cancelFeedback(ctx, bot, message.From, message.Chat.ID)
}

// SetupCommands registers the command list with Telegram, with descriptions
// in the default language.
func (h *MessageHandler) SetupCommands(ctx context.Context, bot telegoapi.BotAPI) error {
	localizer := locales.NewLocalizer(locales.DefaultLanguage().String())

	commands := make([]telego.BotCommand, 0, len(h.commands))
	for _, cmd := range h.commands {
		commands = append(commands, telego.BotCommand{
			Command:     cmd.Command,
			Description: locales.GetMessage(localizer, cmd.Description, nil),
		})
	}

	if err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: commands}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	h.log.Info().Int("count", len(commands)).Msg("bot commands registered")
	return nil
}

// sendMainMenu sends the welcome photo with the menu keyboard. Without a
// readable photo the welcome text is sent on its own.
func (h *MessageHandler) sendMainMenu(ctx context.Context, bot telegoapi.BotAPI, chatID int64, localizer *i18n.Localizer) error {
	caption := locales.GetMessage(localizer, "MsgWelcome", nil)
	keyboard := mainMenuKeyboard(localizer, h.menu)

	photo, err := os.Open(h.welcomePhoto)
	if err != nil {
		h.log.Warn().Err(err).Str("path", h.welcomePhoto).Msg("welcome photo unavailable, sending text menu")
		return h.sendText(ctx, bot, chatID, caption, keyboard)
	}
	defer photo.Close()

	params := tu.Photo(tu.ID(chatID), tu.File(photo)).
		WithCaption(caption).
		WithParseMode(telego.ModeHTML).
		WithReplyMarkup(keyboard)
	if _, err := bot.SendPhoto(ctx, params); err != nil {
		metrics.BotSendErrors.Inc()
		return fmt.Errorf("send main menu to chat %d: %w", chatID, err)
	}
	return nil
}

func (h *MessageHandler) requestFeedback(ctx context.Context, bot telegoapi.BotAPI, user *telego.User, chatID int64) error {
	localizer := h.getLocalizer(user)

	if err := h.feedback.RequestFeedback(ctx, user.ID); err != nil {
		return h.sendError(ctx, bot, chatID, localizer, err)
	}
	h.RecordUserActivity(ctx, user, ActionFeedbackRequested, false, map[string]interface{}{
		"chat_id": chatID,
	})

	prompt := locales.GetMessage(localizer, "MsgFeedbackPrompt", map[string]interface{}{
		"Marker": html.EscapeString(h.marker),
	})
	return h.sendText(ctx, bot, chatID, prompt, cancelKeyboard(localizer))
}

func (h *MessageHandler) cancelFeedback(ctx context.Context, bot telegoapi.BotAPI, user *telego.User, chatID int64) error {
	localizer := h.getLocalizer(user)

	wasAwaiting, err := h.feedback.Cancel(ctx, user.ID)
	if err != nil {
		return h.sendError(ctx, bot, chatID, localizer, err)
	}
	if !wasAwaiting {
		return nil
	}
	h.RecordUserActivity(ctx, user, ActionFeedbackCancelled, false, map[string]interface{}{
		"chat_id": chatID,
	})

	msg := locales.GetMessage(localizer, "MsgReturnToMenu", nil)
	return h.sendText(ctx, bot, chatID, msg, mainMenuKeyboard(localizer, h.menu))
}
