package ventbot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ArminGh02/ventmap/pkg/gifmaker"
	"github.com/ArminGh02/ventmap/pkg/ventmap"
)

// replayCellSize shrinks preferred until the map fits in a replay frame.
func replayCellSize(m *ventmap.Map, preferred int) int {
	lo, hi, ok := m.Coverage().Bounds()
	if !ok {
		return preferred
	}
	side := max(hi.X-lo.X, hi.Y-lo.Y) + 1
	return max(1, min(preferred, gifmaker.MaxFrameSide/side))
}

func getReportMsg(run *runData) string {
	all := run.all().Report()

	var b strings.Builder
	fmt.Fprintf(&b, "🗺 %d vent lines", all.Segments+run.sloped)
	if run.sloped > 0 {
		fmt.Fprintf(&b, " (%d sloped ones ignored)", run.sloped)
	}
	for _, m := range run.maps {
		r := m.Report()
		emoji := "➖"
		if r.Variant == ventmap.All {
			emoji = "✖️"
		}
		fmt.Fprintf(&b, "\n%s %v", emoji, r)
	}
	return b.String()
}

// getPreview draws small maps as an emoji grid.
func getPreview(m *ventmap.Map) (string, bool) {
	min, max, ok := m.Coverage().Bounds()
	if !ok || max.X-min.X+1 > previewLimit || max.Y-min.Y+1 > previewLimit {
		return "", false
	}

	var b strings.Builder
	for i, row := range ventmap.Grid(m.Coverage(), min, max) {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, level := range row {
			b.WriteString(level.Emoji())
		}
	}
	return b.String(), true
}

func buildMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(solveButtonText),
			tgbotapi.NewKeyboardButton(scoreboardButtonText),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(profileButtonText),
			tgbotapi.NewKeyboardButton(helpButtonText),
		),
	)
}

func buildReportKeyboard(runID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎞 Replay", "replay"+runID),
		),
	)
}

func buildProfileKeyboard(showsPreview bool) tgbotapi.InlineKeyboardMarkup {
	text := "Show map previews"
	if showsPreview {
		text = "Hide map previews"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text, "togglePreview"),
		),
	)
}
