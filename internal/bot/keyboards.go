package bot

import (
	"fitbot/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// replyMarkup nil, если у ответа нет кнопок
func replyMarkup(resp service.Response) interface{} {
	if len(resp.Actions) == 0 {
		return nil
	}
	switch resp.Layout {
	case service.LayoutMenu:
		return replyKeyboard(resp.Actions)
	case service.LayoutInline:
		return inlineKeyboard(resp.Actions)
	}
	return nil
}

func replyKeyboard(rows [][]service.Action) tgbotapi.ReplyKeyboardMarkup {
	keyboard := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, a := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(a.Label))
		}
		keyboard = append(keyboard, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(keyboard...)
	markup.ResizeKeyboard = true
	return markup
}

func inlineKeyboard(rows [][]service.Action) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, a := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Token))
		}
		keyboard = append(keyboard, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}
