package handlers

import (
	"context"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"ruble-bot/internal/feedback"
	"ruble-bot/internal/locales"
	"ruble-bot/internal/metrics"
	telegoapi "ruble-bot/pkg/telegoapi"
)

// HandleCallbackQuery routes inline button presses. Every query is
// acknowledged, including ones nothing can handle.
func (h *MessageHandler) HandleCallbackQuery(ctx context.Context, bot telegoapi.BotAPI, query telego.CallbackQuery) error {
	user := query.From
	localizer := h.getLocalizer(&user)

	switch query.Data {
	case CallbackLeaveFeedback:
		h.answerCallback(ctx, bot, query.ID, "")
		return h.requestFeedback(ctx, bot, &user, user.ID)
	case CallbackCancelFeedback:
		h.answerCallback(ctx, bot, query.ID, "")
		return h.cancelFeedback(ctx, bot, &user, user.ID)
	}

	if userID, ok := feedback.ParseAnswerCallback(query.Data); ok {
		chatID := callbackChatID(query)
		if h.isAdmin(ctx, chatID) {
			h.answerCallback(ctx, bot, query.ID, "")
			h.log.Info().Str("user_id", userID).Msg("admin opened answer prompt")
			prompt := locales.GetMessage(localizer, "MsgAnswerPrompt", map[string]interface{}{
				"UserID": userID,
			})
			return h.sendText(ctx, bot, chatID, prompt, nil)
		}
	}

	h.log.Warn().Str("data", query.Data).Int64("user_id", user.ID).Msg("unhandled callback query")
	h.answerCallback(ctx, bot, query.ID, locales.GetMessage(localizer, "MsgUnknownMessage", nil))
	return nil
}

func (h *MessageHandler) answerCallback(ctx context.Context, bot telegoapi.BotAPI, queryID, text string) {
	params := tu.CallbackQuery(queryID)
	if text != "" {
		params = params.WithText(text)
	}
	if err := bot.AnswerCallbackQuery(ctx, params); err != nil {
		metrics.BotSendErrors.Inc()
		h.log.Error().Err(err).Str("query_id", queryID).Msg("failed to answer callback query")
	}
}

// callbackChatID is the chat the button was pressed in, or the user's
// private chat when the message is no longer accessible.
func callbackChatID(query telego.CallbackQuery) int64 {
	if msg, ok := query.Message.(*telego.Message); ok && msg != nil {
		return msg.Chat.ID
	}
	return query.From.ID
}
