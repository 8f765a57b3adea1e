package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"ruble-bot/internal/locales"
	"ruble-bot/internal/metrics"
	telegoapi "ruble-bot/pkg/telegoapi"
)

// AdminNotifier forwards feedback to the admin chat with an answer button.
type AdminNotifier struct {
	bot     telegoapi.BotAPI
	adminID int64
}

// NewAdminNotifier creates an AdminNotifier for the admin chat adminID.
func NewAdminNotifier(bot telegoapi.BotAPI, adminID int64) *AdminNotifier {
	return &AdminNotifier{bot: bot, adminID: adminID}
}

// NotifyFeedback sends text, as written by userID, to the admin chat.
func (n *AdminNotifier) NotifyFeedback(ctx context.Context, userID int64, text string) error {
	localizer := locales.NewLocalizer(locales.DefaultLanguage().String())
	msg := locales.GetMessage(localizer, "MsgNewFeedback", map[string]interface{}{
		"UserID":  userID,
		"Message": html.EscapeString(text),
	})

	params := tu.Message(tu.ID(n.adminID), msg).
		WithParseMode(telego.ModeHTML).
		WithReplyMarkup(answerKeyboard(localizer, userID))
	if _, err := n.bot.SendMessage(ctx, params); err != nil {
		metrics.BotSendErrors.Inc()
		return fmt.Errorf("notify admin about user %d: %w", userID, err)
	}
	return nil
}
