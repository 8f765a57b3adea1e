package handlers

import (
	"context"
	"html"
	"strings"

	"github.com/mymmrac/telego"

	"ruble-bot/internal/feedback"
	"ruble-bot/internal/locales"
	telegoapi "ruble-bot/pkg/telegoapi"
)

// HandleText handles text messages that are not commands.
//
// Text starting with the feedback marker is a submission. Text starting with
// the answer prefix is an admin reply when it comes from the admin chat.
// Anything else gets guidance depending on the user's session.
func (h *MessageHandler) HandleText(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if message.From == nil {
		return nil
	}
	text := message.Text

	if strings.HasPrefix(text, h.marker) {
		return h.submitFeedback(ctx, bot, message)
	}
	if feedback.IsAnswer(text) && h.isAdmin(ctx, message.Chat.ID) {
		return h.handleAdminReply(ctx, bot, message)
	}

	localizer := h.getLocalizer(message.From)
	awaiting, err := h.feedback.IsAwaiting(ctx, message.From.ID)
	if err != nil {
		return h.sendError(ctx, bot, message.Chat.ID, localizer, err)
	}
	if awaiting {
		return h.sendText(ctx, bot, message.Chat.ID, locales.GetMessage(localizer, "MsgUnknownMessage", nil), nil)
	}
	return h.sendText(ctx, bot, message.Chat.ID, locales.GetMessage(localizer, "MsgUseStart", nil),
		mainMenuKeyboard(localizer, h.menu))
}

// HandleUnknown answers messages the bot has no use for, such as stickers,
// photos or unknown commands.
func (h *MessageHandler) HandleUnknown(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	localizer := h.getLocalizer(message.From)
	return h.sendText(ctx, bot, message.Chat.ID, locales.GetMessage(localizer, "MsgUnknownMessage", nil), nil)
}

func (h *MessageHandler) submitFeedback(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	user := message.From
	chatID := message.Chat.ID
	localizer := h.getLocalizer(user)

	outcome, submitErr := h.feedback.Submit(ctx, user.ID, message.Text)
	if outcome == feedback.SubmitNotAwaiting {
		return h.sendText(ctx, bot, chatID, locales.GetMessage(localizer, "MsgUseStart", nil),
			mainMenuKeyboard(localizer, h.menu))
	}

	var msgID string
	switch outcome {
	case feedback.SubmitCreated:
		msgID = "MsgFeedbackSuccess"
	case feedback.SubmitAlreadyExists:
		msgID = "MsgFeedbackExists"
	default:
		msgID = "MsgFeedbackError"
	}

	h.RecordUserActivity(ctx, user, ActionFeedbackSubmitted, false, map[string]interface{}{
		"chat_id": chatID,
		"outcome": string(outcome),
	})

	if err := h.sendText(ctx, bot, chatID, locales.GetMessage(localizer, msgID, nil), mainMenuKeyboard(localizer, h.menu)); err != nil {
		return err
	}
	return submitErr
}

func (h *MessageHandler) handleAdminReply(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	adminChat := message.Chat.ID
	localizer := h.getLocalizer(message.From)

	env, err := feedback.ParseAnswer(message.Text)
	var userChat int64
	if err == nil {
		userChat, err = env.ChatID()
	}
	if err != nil {
		h.log.Warn().Err(err).Msg("malformed admin reply")
		return h.sendText(ctx, bot, adminChat, locales.GetMessage(localizer, "MsgAnswerInvalid", nil), nil)
	}

	outcome := h.feedback.Reply(ctx, env)
	h.RecordUserActivity(ctx, message.From, ActionAdminReply, true, map[string]interface{}{
		"target_user_id": userChat,
		"outcome":        string(outcome),
	})
	data := map[string]interface{}{"UserID": userChat}

	switch outcome {
	case feedback.ReplyDeleted:
		// The user's language is unknown here, so the answer uses the default one.
		userLocalizer := locales.NewLocalizer(locales.DefaultLanguage().String())
		answer := locales.GetMessage(userLocalizer, "MsgSupportAnswer", map[string]interface{}{
			"Answer": html.EscapeString(env.Body),
		})
		if err := h.sendText(ctx, bot, userChat, answer, nil); err != nil {
			h.log.Error().Err(err).Int64("user_id", userChat).Msg("failed to deliver answer")
			_ = h.sendText(ctx, bot, adminChat, locales.GetMessage(localizer, "MsgAnswerDeliveryFailed", data), nil)
			return err
		}
		return h.sendText(ctx, bot, adminChat, locales.GetMessage(localizer, "MsgAnswerSent", data), nil)
	case feedback.ReplyNotFound:
		return h.sendText(ctx, bot, adminChat, locales.GetMessage(localizer, "MsgNoActiveTickets", data), nil)
	default:
		return h.sendText(ctx, bot, adminChat, locales.GetMessage(localizer, "MsgDeleteError", data), nil)
	}
}
