package ventbot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleInlineQuery solves the lines typed inline, separated by semicolons.
func (bot *Bot) handleInlineQuery(ctx context.Context, inlineQuery *tgbotapi.InlineQuery) {
	text := strings.ReplaceAll(inlineQuery.Query, ";", "\n")
	if strings.TrimSpace(text) == "" {
		bot.request(tgbotapi.InlineConfig{
			InlineQueryID:     inlineQuery.ID,
			Results:           []interface{}{},
			CacheTime:         0,
			SwitchPMText:      "Type vent lines like 0,9 -> 5,9; 8,0 -> 0,8",
			SwitchPMParameter: "help",
		})
		return
	}

	runID, run, err := bot.solve(ctx, text)
	if err != nil {
		bot.request(tgbotapi.InlineConfig{
			InlineQueryID:     inlineQuery.ID,
			Results:           []interface{}{},
			CacheTime:         0,
			SwitchPMText:      "Malformed vent lines!",
			SwitchPMParameter: "malformed",
		})
		return
	}

	reports := run.reports()
	article := tgbotapi.NewInlineQueryResultArticle(
		runID,
		fmt.Sprintf("Dangerous points: %d / %d", reports[0].DangerousPoints, reports[1].DangerousPoints),
		getReportMsg(run),
	)
	article.Description = "straight only / with diagonals"
	article.ThumbURL = botPic
	keyboard := buildReportKeyboard(runID)
	article.ReplyMarkup = &keyboard

	bot.request(tgbotapi.InlineConfig{
		InlineQueryID: inlineQuery.ID,
		Results:       []interface{}{article},
		CacheTime:     0,
	})
}
