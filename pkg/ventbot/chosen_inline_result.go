package ventbot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleChosenInlineResult credits an inline run to the user once they send
// it.
func (bot *Bot) handleChosenInlineResult(ctx context.Context, chosenInlineResult *tgbotapi.ChosenInlineResult) {
	run, err := bot.findRun(chosenInlineResult.ResultID)
	if err != nil {
		log.Printf("Chosen inline result %s: %v", chosenInlineResult.ResultID, err)
		return
	}
	bot.creditRun(ctx, chosenInlineResult.From, run)
}
