// Package ventbot serves the vent map solver as a Telegram bot.
package ventbot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	cron "github.com/robfig/cron/v3"

	"github.com/ArminGh02/ventmap/pkg/config"
	"github.com/ArminGh02/ventmap/pkg/database"
	"github.com/ArminGh02/ventmap/pkg/gifmaker"
	"github.com/ArminGh02/ventmap/pkg/util"
	"github.com/ArminGh02/ventmap/pkg/ventmap"
)

var (
	errTooOldRun   = errors.New("run is too old")
	errNoSegments  = errors.New("no vent lines found")
	errMapTooLarge = fmt.Errorf("vent lines must fit in a %dx%d map", maxMapSide, maxMapSide)
)

// api is the part of *tgbotapi.BotAPI the bot talks to.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// store is the part of *database.Handler the bot needs.
type store interface {
	AddSolver(ctx context.Context, userID int64, name string) (bool, error)
	Find(ctx context.Context, userID int64) (*database.SolverDoc, error)
	RecordRun(ctx context.Context, userID int64, reports []ventmap.Report, at time.Time) error
	TogglePreview(ctx context.Context, userID int64) (bool, error)
	GetAllSolvers(ctx context.Context) ([]database.SolverDoc, error)
	UsersCount(ctx context.Context) (int64, error)
	Disconnect(ctx context.Context) error
}

// runData is what a replay needs after the answer was sent.
type runData struct {
	maps      []*ventmap.Map
	sloped    int
	createdAt time.Time
}

func (r *runData) reports() []ventmap.Report {
	res := make([]ventmap.Report, len(r.maps))
	for i, m := range r.maps {
		res[i] = m.Report()
	}
	return res
}

// all returns the map with every orientation recorded.
func (r *runData) all() *ventmap.Map {
	return r.maps[len(r.maps)-1]
}

type Bot struct {
	cfg             config.Config
	api             api
	db              store
	now             func() time.Time
	scoreboard      util.Scoreboard
	scoreboardMutex sync.Mutex
	runIDToRun      map[string]*runData
	runIDToRunMutex sync.Mutex

	runsSolvedToday  uint64
	usersJoinedToday uint64
}

func New(ctx context.Context, cfg config.Config) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	db, err := database.New(ctx, cfg.MongoDBURI, cfg.Database)
	if err != nil {
		return nil, err
	}
	return newBot(ctx, cfg, botAPI, db)
}

func newBot(ctx context.Context, cfg config.Config, api api, db store) (*Bot, error) {
	solvers, err := db.GetAllSolvers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading solvers: %w", err)
	}
	return &Bot{
		cfg:        cfg,
		api:        api,
		db:         db,
		now:        time.Now,
		scoreboard: util.NewScoreboard(solvers),
		runIDToRun: make(map[string]*runData),
	}, nil
}

// Run handles updates until ctx is done.
func (bot *Bot) Run(ctx context.Context) error {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := bot.db.Disconnect(ctx); err != nil {
			log.Println("Disconnecting from database:", err)
		}
	}()

	loc, err := bot.cfg.Location()
	if err != nil {
		return err
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(bot.cfg.ResetSchedule, bot.resetDailyStats); err != nil {
		return fmt.Errorf("invalid reset schedule %q: %w", bot.cfg.ResetSchedule, err)
	}
	if _, err := c.AddFunc(purgeSchedule, bot.purgeOldRuns); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	log.Println("Bot started.")

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.api.GetUpdatesChan(updateConfig)
	defer bot.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			log.Println("Bot stopped.")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go bot.handleUpdate(ctx, update)
		}
	}
}

func (bot *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered while handling update", update.UpdateID, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	switch {
	case update.Message != nil:
		bot.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		bot.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.InlineQuery != nil:
		bot.handleInlineQuery(ctx, update.InlineQuery)
	case update.ChosenInlineResult != nil:
		bot.handleChosenInlineResult(ctx, update.ChosenInlineResult)
	}
}

func (bot *Bot) resetDailyStats() {
	atomic.SwapUint64(&bot.runsSolvedToday, 0)
	atomic.SwapUint64(&bot.usersJoinedToday, 0)
}

func (bot *Bot) purgeOldRuns() {
	deadline := bot.now().Add(-bot.cfg.ReplayTTL)

	bot.runIDToRunMutex.Lock()
	defer bot.runIDToRunMutex.Unlock()

	for id, run := range bot.runIDToRun {
		if run.createdAt.Before(deadline) {
			delete(bot.runIDToRun, id)
		}
	}
}

// solve parses text and solves both variants. Sloped lines are dropped and
// counted instead of failing the whole input.
func (bot *Bot) solve(ctx context.Context, text string) (string, *runData, error) {
	segments, err := ventmap.ParseInput(strings.NewReader(text))
	if err != nil {
		return "", nil, err
	}
	if len(segments) == 0 {
		return "", nil, errNoSegments
	}
	kept, sloped := ventmap.DropSloped(segments)
	if lo, hi, ok := ventmap.Extent(kept); ok && (hi.X-lo.X >= maxMapSide || hi.Y-lo.Y >= maxMapSide) {
		return "", nil, errMapTooLarge
	}

	run := &runData{
		sloped:    sloped,
		createdAt: bot.now(),
	}
	for _, v := range ventmap.Variants {
		m, err := ventmap.SolveParallel(ctx, kept, v, bot.cfg.Workers)
		if err != nil {
			return "", nil, err
		}
		run.maps = append(run.maps, m)
	}

	id := run.all().ID()
	bot.runIDToRunMutex.Lock()
	bot.runIDToRun[id] = run
	bot.runIDToRunMutex.Unlock()

	return id, run, nil
}

func (bot *Bot) findRun(id string) (*runData, error) {
	bot.runIDToRunMutex.Lock()
	defer bot.runIDToRunMutex.Unlock()

	run, ok := bot.runIDToRun[id]
	if !ok {
		return nil, errTooOldRun
	}
	return run, nil
}

// addSolver registers the user on first contact.
func (bot *Bot) addSolver(ctx context.Context, user *tgbotapi.User) {
	added, err := bot.db.AddSolver(ctx, user.ID, util.FullNameOf(user))
	if err != nil {
		log.Printf("Adding solver %d: %v", user.ID, err)
		return
	}
	if !added {
		return
	}

	solver, err := bot.db.Find(ctx, user.ID)
	if err != nil {
		log.Printf("Finding solver %d: %v", user.ID, err)
		return
	}

	bot.scoreboardMutex.Lock()
	if !bot.scoreboard.Contains(user.ID) {
		bot.scoreboard.Insert(solver)
	}
	bot.scoreboardMutex.Unlock()

	atomic.AddUint64(&bot.usersJoinedToday, 1)
}

// creditRun stores the reports of a run solved by user.
func (bot *Bot) creditRun(ctx context.Context, user *tgbotapi.User, run *runData) {
	bot.addSolver(ctx, user)

	if err := bot.db.RecordRun(ctx, user.ID, run.reports(), run.createdAt); err != nil {
		log.Printf("Recording run of %d: %v", user.ID, err)
		return
	}

	bot.scoreboardMutex.Lock()
	bot.scoreboard.UpdateRankOf(user.ID, 1)
	bot.scoreboardMutex.Unlock()

	atomic.AddUint64(&bot.runsSolvedToday, 1)
}

func (bot *Bot) sendReplay(chatID int64, runID string) error {
	run, err := bot.findRun(runID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	opts := gifmaker.Options{
		CellSize: replayCellSize(run.all(), bot.cfg.CellSize),
		Delay:    bot.cfg.FrameDelay,
	}
	if err := gifmaker.Encode(&buf, run.all(), opts); err != nil {
		return err
	}

	animation := tgbotapi.NewAnimation(chatID, tgbotapi.FileBytes{
		Name:  runID + ".gif",
		Bytes: buf.Bytes(),
	})
	animation.Caption = getReportMsg(run)
	if _, err := bot.api.Send(animation); err != nil {
		return fmt.Errorf("sending replay: %w", err)
	}
	return nil
}
