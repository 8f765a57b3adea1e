package handlers

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"ruble-bot/internal/locales"
	"ruble-bot/internal/metrics"
	telegoapi "ruble-bot/pkg/telegoapi"
)

// sendText sends an HTML message, with an optional keyboard.
func (h *MessageHandler) sendText(ctx context.Context, bot telegoapi.BotAPI, chatID int64, text string, markup telego.ReplyMarkup) error {
	params := tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML)
	if markup != nil {
		params = params.WithReplyMarkup(markup)
	}
	if _, err := bot.SendMessage(ctx, params); err != nil {
		metrics.BotSendErrors.Inc()
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// sendError sends a generic localized error message and returns the original
// error so the update loop can report it.
func (h *MessageHandler) sendError(ctx context.Context, bot telegoapi.BotAPI, chatID int64, localizer *i18n.Localizer, originalErr error) error {
	errMsg := locales.GetMessage(localizer, "MsgErrorGeneral", nil)
	if sendErr := h.sendText(ctx, bot, chatID, errMsg, nil); sendErr != nil {
		h.log.Error().Err(sendErr).Int64("chat_id", chatID).Msg("failed to send error message")
	}
	return originalErr
}

// getLocalizer picks the user's Telegram language; unsupported or missing
// languages resolve to the bundle default.
func (h *MessageHandler) getLocalizer(user *telego.User) *i18n.Localizer {
	if user != nil && user.LanguageCode != "" {
		return locales.NewLocalizer(user.LanguageCode)
	}
	return locales.NewLocalizer(locales.DefaultLanguage().String())
}

// RecordUserActivity combines updating user info and logging the action.
// Failures are logged and never interrupt the conversation.
func (h *MessageHandler) RecordUserActivity(ctx context.Context, user *telego.User, action string, isAdmin bool, details map[string]interface{}) {
	if user == nil {
		h.log.Warn().Str("action", action).Msg("attempted to record activity for nil user")
		return
	}

	if err := h.userRepo.UpdateUser(ctx, user.ID, user.Username, user.FirstName, user.LastName, isAdmin, action); err != nil {
		h.log.Error().Err(err).Int64("user_id", user.ID).Str("action", action).Msg("failed to update user")
	}
	if err := h.actionLogger.LogUserAction(user.ID, action, details); err != nil {
		h.log.Error().Err(err).Int64("user_id", user.ID).Str("action", action).Msg("failed to log user action")
	}
}

// isAdmin treats checker errors as "not admin".
func (h *MessageHandler) isAdmin(ctx context.Context, id int64) bool {
	ok, err := h.adminChecker.IsAdmin(ctx, id)
	if err != nil {
		h.log.Warn().Err(err).Int64("id", id).Msg("admin check failed")
		return false
	}
	return ok
}
