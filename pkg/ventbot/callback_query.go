package ventbot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (bot *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	switch {
	case query.Data == "togglePreview":
		bot.togglePreview(ctx, query)
	case strings.HasPrefix(query.Data, "replay"):
		text := ""
		if err := bot.sendReplay(query.From.ID, strings.TrimPrefix(query.Data, "replay")); err != nil {
			text = err.Error()
		}
		bot.request(tgbotapi.NewCallbackWithAlert(query.ID, text))
	default:
		bot.request(tgbotapi.NewCallback(query.ID, ""))
	}
}

func (bot *Bot) togglePreview(ctx context.Context, query *tgbotapi.CallbackQuery) {
	shows, err := bot.db.TogglePreview(ctx, query.From.ID)
	if err != nil {
		log.Printf("Toggling preview of %d: %v", query.From.ID, err)
		bot.request(tgbotapi.NewCallbackWithAlert(query.ID, "Solve a map first!"))
		return
	}

	if query.Message != nil {
		edit := tgbotapi.NewEditMessageReplyMarkup(
			query.Message.Chat.ID,
			query.Message.MessageID,
			buildProfileKeyboard(shows),
		)
		bot.request(edit)
	}

	text := "Map previews hidden."
	if shows {
		text = "Map previews shown."
	}
	bot.request(tgbotapi.NewCallback(query.ID, text))
}

func (bot *Bot) request(c tgbotapi.Chattable) {
	if _, err := bot.api.Request(c); err != nil {
		log.Println("Request failed:", err)
	}
}
