package handlers

import (
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"ruble-bot/internal/feedback"
	"ruble-bot/internal/locales"
)

func mainMenuKeyboard(localizer *i18n.Localizer, links MenuLinks) *telego.InlineKeyboardMarkup {
	var rows [][]telego.InlineKeyboardButton

	var apps []telego.InlineKeyboardButton
	if links.WebApp != "" {
		apps = append(apps, tu.InlineKeyboardButton(locales.GetMessage(localizer, "BtnWebApp", nil)).
			WithWebApp(tu.WebAppInfo(links.WebApp)))
	}
	if links.Trade != "" {
		apps = append(apps, tu.InlineKeyboardButton(locales.GetMessage(localizer, "BtnTrade", nil)).
			WithWebApp(tu.WebAppInfo(links.Trade)))
	}
	rows = appendRow(rows, apps)

	rows = appendRow(rows, urlButtons(localizer, map[string]string{
		"BtnBuy":      links.Buy,
		"BtnContract": links.Contract,
	}, "BtnBuy", "BtnContract"))
	rows = appendRow(rows, urlButtons(localizer, map[string]string{
		"BtnWebsite": links.Website,
		"BtnX":       links.X,
	}, "BtnWebsite", "BtnX"))

	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(locales.GetMessage(localizer, "BtnFeedback", nil)).
			WithCallbackData(CallbackLeaveFeedback),
	))
	return tu.InlineKeyboard(rows...)
}

func cancelKeyboard(localizer *i18n.Localizer) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(locales.GetMessage(localizer, "BtnBack", nil)).
			WithCallbackData(CallbackCancelFeedback),
	))
}

func answerKeyboard(localizer *i18n.Localizer, userID int64) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(tu.InlineKeyboardRow(
		tu.InlineKeyboardButton(locales.GetMessage(localizer, "BtnAnswer", nil)).
			WithCallbackData(feedback.AnswerCallbackData(userID)),
	))
}

// urlButtons keeps the order of keys and skips empty links.
func urlButtons(localizer *i18n.Localizer, links map[string]string, keys ...string) []telego.InlineKeyboardButton {
	var buttons []telego.InlineKeyboardButton
	for _, key := range keys {
		if links[key] == "" {
			continue
		}
		buttons = append(buttons, tu.InlineKeyboardButton(locales.GetMessage(localizer, key, nil)).WithURL(links[key]))
	}
	return buttons
}

func appendRow(rows [][]telego.InlineKeyboardButton, row []telego.InlineKeyboardButton) [][]telego.InlineKeyboardButton {
	if len(row) == 0 {
		return rows
	}
	return append(rows, row)
}
