package ventbot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ArminGh02/ventmap/pkg/util"
)

func (bot *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		bot.handleCommand(ctx, message)
		return
	}

	if message.Document != nil {
		bot.handleDocument(ctx, message)
		return
	}

	switch message.Text {
	case solveButtonText:
		bot.send(tgbotapi.NewMessage(message.Chat.ID, "Send me your vent lines or upload your input file."))
	case scoreboardButtonText:
		bot.showScoreboard(message)
	case profileButtonText:
		bot.showProfile(ctx, message)
	case helpButtonText:
		bot.send(tgbotapi.NewMessage(message.Chat.ID, helpMsg))
	default:
		bot.solveAndReply(ctx, message, message.Text)
	}
}

func (bot *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch command := message.Command(); command {
	case "start":
		bot.handleStartCommand(ctx, message)
	case "help":
		bot.send(tgbotapi.NewMessage(message.Chat.ID, helpMsg))
	case "stats":
		count, err := bot.db.UsersCount(ctx)
		if err != nil {
			log.Println("Counting users:", err)
		}
		msgText := fmt.Sprintf("🗺 Maps solved today: %d\n"+
			"👋 Users joined today: %d\n"+
			"👥 All solvers: %d",
			atomic.LoadUint64(&bot.runsSolvedToday),
			atomic.LoadUint64(&bot.usersJoinedToday),
			count,
		)
		bot.send(tgbotapi.NewMessage(message.Chat.ID, msgText))
	default:
		msgText := fmt.Sprintf("Sorry! %s is not recognized as a command.", command)
		bot.send(tgbotapi.NewMessage(message.Chat.ID, msgText))
	}
}

func (bot *Bot) handleStartCommand(ctx context.Context, message *tgbotapi.Message) {
	user := message.From

	if arg := message.CommandArguments(); strings.HasPrefix(arg, "replay") {
		if err := bot.sendReplay(message.Chat.ID, strings.TrimPrefix(arg, "replay")); err != nil {
			bot.send(tgbotapi.NewMessage(message.Chat.ID, err.Error()))
		}
		return
	}

	msgText := fmt.Sprintf("Hi %s\\!\n"+
		"I am *Vent Map Bot*\\.\n"+
		"Send me your hydrothermal vent lines and I will tell you\n"+
		"where it is too dangerous to swim\\!", tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, util.FirstNameElseLastName(user)))
	msg := tgbotapi.NewMessage(message.Chat.ID, msgText)
	msg.ReplyMarkup = buildMainKeyboard()
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	bot.send(msg)

	bot.addSolver(ctx, user)

	log.Printf("Bot started by %d.", user.ID)
}

func (bot *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) {
	doc := message.Document
	if doc.FileSize > maxInputSize {
		bot.send(tgbotapi.NewMessage(message.Chat.ID, "That file is too large."))
		return
	}

	text, err := bot.download(ctx, doc.FileID)
	if err != nil {
		log.Printf("Downloading %s: %v", doc.FileID, err)
		bot.send(tgbotapi.NewMessage(message.Chat.ID, "I could not read that file."))
		return
	}
	bot.solveAndReply(ctx, message, text)
}

func (bot *Bot) download(ctx context.Context, fileID string) (string, error) {
	url, err := bot.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxInputSize))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (bot *Bot) solveAndReply(ctx context.Context, message *tgbotapi.Message, text string) {
	runID, run, err := bot.solve(ctx, text)
	if err != nil {
		bot.send(tgbotapi.NewMessage(message.Chat.ID, "❗️ "+err.Error()))
		return
	}

	bot.creditRun(ctx, message.From, run)

	msgText := getReportMsg(run)
	if bot.showsPreview(ctx, message.From.ID) {
		if preview, ok := getPreview(run.all()); ok {
			msgText += "\n\n" + preview
		}
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, msgText)
	msg.ReplyMarkup = buildReportKeyboard(runID)
	bot.send(msg)

	log.Printf("Solved %v for %d.", run.all(), message.From.ID)
}

func (bot *Bot) showsPreview(ctx context.Context, userID int64) bool {
	solver, err := bot.db.Find(ctx, userID)
	if err != nil {
		return true
	}
	return solver.ShowsPreview
}

func (bot *Bot) showScoreboard(message *tgbotapi.Message) {
	bot.scoreboardMutex.Lock()
	text := bot.scoreboard.String(message.From.ID)
	bot.scoreboardMutex.Unlock()

	bot.send(tgbotapi.NewMessage(message.Chat.ID, text))
}

func (bot *Bot) showProfile(ctx context.Context, message *tgbotapi.Message) {
	solver, err := bot.db.Find(ctx, message.From.ID)
	if err != nil {
		bot.send(tgbotapi.NewMessage(message.Chat.ID, "Solve a map first!"))
		return
	}

	bot.scoreboardMutex.Lock()
	rank := bot.scoreboard.RankOf(message.From.ID)
	bot.scoreboardMutex.Unlock()

	msg := tgbotapi.NewMessage(message.Chat.ID, solver.String(rank))
	msg.ReplyMarkup = buildProfileKeyboard(solver.ShowsPreview)
	bot.send(msg)
}

func (bot *Bot) send(c tgbotapi.Chattable) {
	if _, err := bot.api.Send(c); err != nil {
		log.Println("Sending message:", err)
	}
}
