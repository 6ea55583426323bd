package ventbot

import (
	"bytes"
	"context"
	"image/gif"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArminGh02/ventmap/pkg/config"
	"github.com/ArminGh02/ventmap/pkg/database"
	"github.com/ArminGh02/ventmap/pkg/ventmap"
)

const sampleInput = `0,9 -> 5,9
8,0 -> 0,8
9,4 -> 3,4
2,2 -> 2,1
7,0 -> 7,4
6,4 -> 2,0
0,9 -> 2,9
3,4 -> 1,4
0,0 -> 8,8
5,5 -> 8,2
`

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	fileURL  string
	updates  chan tgbotapi.Update
}

func (a *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, c)
	return tgbotapi.Message{}, nil
}

func (a *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (a *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return a.fileURL + "/" + fileID, nil
}

func (a *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return a.updates
}

func (a *fakeAPI) StopReceivingUpdates() {}

func (a *fakeAPI) lastSent(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.sent)
	return a.sent[len(a.sent)-1]
}

func (a *fakeAPI) lastRequest(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.requests)
	return a.requests[len(a.requests)-1]
}

func (a *fakeAPI) sentCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sent)
}

type fakeStore struct {
	mu           sync.Mutex
	solvers      map[int64]*database.SolverDoc
	disconnected bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{solvers: make(map[int64]*database.SolverDoc)}
}

func (s *fakeStore) AddSolver(_ context.Context, userID int64, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.solvers[userID]; ok {
		return false, nil
	}
	s.solvers[userID] = &database.SolverDoc{UserID: userID, Name: name, ShowsPreview: true}
	return true, nil
}

func (s *fakeStore) Find(_ context.Context, userID int64) (*database.SolverDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.solvers[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	res := *doc
	return &res, nil
}

func (s *fakeStore) RecordRun(_ context.Context, userID int64, reports []ventmap.Report, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.solvers[userID]
	if !ok {
		return database.ErrNotFound
	}
	doc.Runs++
	doc.LastSolvedAt = at
	for _, r := range reports {
		if r.Variant == ventmap.Straight {
			doc.LastStraight = r.DangerousPoints
		} else {
			doc.LastAll = r.DangerousPoints
		}
	}
	return nil
}

func (s *fakeStore) TogglePreview(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.solvers[userID]
	if !ok {
		return false, database.ErrNotFound
	}
	doc.ShowsPreview = !doc.ShowsPreview
	return doc.ShowsPreview, nil
}

func (s *fakeStore) GetAllSolvers(context.Context) ([]database.SolverDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []database.SolverDoc
	for _, doc := range s.solvers {
		res = append(res, *doc)
	}
	return res, nil
}

func (s *fakeStore) UsersCount(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.solvers)), nil
}

func (s *fakeStore) Disconnect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnected = true
	return nil
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *fakeStore) {
	t.Helper()
	cfg := config.Default()
	cfg.Workers = 2
	api := &fakeAPI{updates: make(chan tgbotapi.Update)}
	db := newFakeStore()
	bot, err := newBot(context.Background(), cfg, api, db)
	require.NoError(t, err)
	return bot, api, db
}

var armin = &tgbotapi.User{ID: 7, FirstName: "Armin"}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 7},
		From: armin,
	}
}

func commandMessage(command string) *tgbotapi.Message {
	msg := textMessage("/" + command)
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command) + 1}}
	return msg
}

func TestSolveSample(t *testing.T) {
	bot, _, _ := newTestBot(t)

	runID, run, err := bot.solve(context.Background(), sampleInput)
	require.NoError(t, err)

	reports := run.reports()
	require.Len(t, reports, 2)
	assert.Equal(t, 5, reports[0].DangerousPoints)
	assert.Equal(t, 12, reports[1].DangerousPoints)

	found, err := bot.findRun(runID)
	require.NoError(t, err)
	assert.Same(t, run, found)
}

func TestSolveErrors(t *testing.T) {
	bot, _, _ := newTestBot(t)

	_, _, err := bot.solve(context.Background(), "  \n")
	assert.ErrorIs(t, err, errNoSegments)

	_, _, err = bot.solve(context.Background(), "1,2 -> nope")
	assert.Error(t, err)
}

func TestSolveRejectsHugeMaps(t *testing.T) {
	bot, _, _ := newTestBot(t)

	for _, input := range []string{
		"0,0 -> 2000000000,0",
		"0,0 -> 0,0\n2000000000,2000000000 -> 2000000000,2000000000",
		"0,0 -> 1000,1000",
	} {
		_, _, err := bot.solve(context.Background(), input)
		assert.ErrorIs(t, err, errMapTooLarge, input)
	}
	assert.Empty(t, bot.runIDToRun)

	_, _, err := bot.solve(context.Background(), "0,0 -> 999,999\n999,0 -> 0,999")
	assert.NoError(t, err)
}

func TestHugeMapMessage(t *testing.T) {
	bot, api, db := newTestBot(t)

	bot.handleMessage(context.Background(), textMessage("0,0 -> 0,0\n2000000000,2000000000 -> 2000000000,2000000000"))

	msg := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, errMapTooLarge.Error())
	_, err := db.Find(context.Background(), armin.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestReplayOfWideMap(t *testing.T) {
	bot, api, _ := newTestBot(t)
	runID, _, err := bot.solve(context.Background(), "0,0 -> 999,0\n500,0 -> 500,3")
	require.NoError(t, err)

	require.NoError(t, bot.sendReplay(7, runID))

	animation := api.lastSent(t).(tgbotapi.AnimationConfig)
	g, err := gif.DecodeAll(bytes.NewReader(animation.File.(tgbotapi.FileBytes).Bytes))
	require.NoError(t, err)
	assert.Equal(t, 4000, g.Image[0].Bounds().Dx())
}

func TestHandleUpdateRecovers(t *testing.T) {
	bot, _, _ := newTestBot(t)
	msg := textMessage(sampleInput)
	msg.From = nil

	assert.NotPanics(t, func() {
		bot.handleUpdate(context.Background(), tgbotapi.Update{UpdateID: 1, Message: msg})
	})
}

func TestTextMessageIsSolved(t *testing.T) {
	bot, api, db := newTestBot(t)

	bot.handleMessage(context.Background(), textMessage(sampleInput))

	msg, ok := api.lastSent(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "10 vent lines")
	assert.Contains(t, msg.Text, "number of dangerous points (straight) 5")
	assert.Contains(t, msg.Text, "number of dangerous points (all) 12")
	assert.Contains(t, msg.Text, "🟥", "small maps come with a preview")

	keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	data := *keyboard.InlineKeyboard[0][0].CallbackData
	assert.Regexp(t, `^replay[0-9a-f-]{36}$`, data)

	solver, err := db.Find(context.Background(), armin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, solver.Runs)
	assert.Equal(t, 5, solver.LastStraight)
	assert.Equal(t, 12, solver.LastAll)
	assert.Equal(t, uint64(1), atomic.LoadUint64(&bot.runsSolvedToday))
	assert.Equal(t, uint64(1), atomic.LoadUint64(&bot.usersJoinedToday))
	assert.Equal(t, 1, bot.scoreboard.RankOf(armin.ID))
}

func TestSlopedLinesAreIgnored(t *testing.T) {
	bot, api, _ := newTestBot(t)

	bot.handleMessage(context.Background(), textMessage("0,0 -> 3,0\n1,1 -> 3,6\n2,0 -> 2,2"))

	msg := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "3 vent lines (1 sloped ones ignored)")
	assert.Contains(t, msg.Text, "number of dangerous points (all) 1")
}

func TestMalformedMessage(t *testing.T) {
	bot, api, db := newTestBot(t)

	bot.handleMessage(context.Background(), textMessage("hello there"))

	msg := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "❗️")
	_, err := db.Find(context.Background(), armin.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestReplayCallback(t *testing.T) {
	bot, api, _ := newTestBot(t)
	runID, _, err := bot.solve(context.Background(), sampleInput)
	require.NoError(t, err)

	bot.handleCallbackQuery(context.Background(), &tgbotapi.CallbackQuery{
		ID:   "q1",
		From: armin,
		Data: "replay" + runID,
	})

	animation, ok := api.lastSent(t).(tgbotapi.AnimationConfig)
	require.True(t, ok)
	file, ok := animation.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, runID+".gif", file.Name)

	g, err := gif.DecodeAll(bytes.NewReader(file.Bytes))
	require.NoError(t, err)
	assert.Len(t, g.Image, 11)

	callback := api.lastRequest(t).(tgbotapi.CallbackConfig)
	assert.Equal(t, "q1", callback.CallbackQueryID)
	assert.Empty(t, callback.Text)
}

func TestReplayOfOldRun(t *testing.T) {
	bot, api, _ := newTestBot(t)
	runID, _, err := bot.solve(context.Background(), sampleInput)
	require.NoError(t, err)

	bot.now = func() time.Time { return time.Now().Add(2 * bot.cfg.ReplayTTL) }
	bot.purgeOldRuns()

	bot.handleCallbackQuery(context.Background(), &tgbotapi.CallbackQuery{
		ID:   "q2",
		From: armin,
		Data: "replay" + runID,
	})

	callback := api.lastRequest(t).(tgbotapi.CallbackConfig)
	assert.Equal(t, errTooOldRun.Error(), callback.Text)
	assert.True(t, callback.ShowAlert)
	assert.Zero(t, api.sentCount())
}

func TestPurgeKeepsFreshRuns(t *testing.T) {
	bot, _, _ := newTestBot(t)
	runID, _, err := bot.solve(context.Background(), sampleInput)
	require.NoError(t, err)

	bot.purgeOldRuns()

	_, err = bot.findRun(runID)
	assert.NoError(t, err)
}

func TestTogglePreview(t *testing.T) {
	bot, api, db := newTestBot(t)
	bot.handleMessage(context.Background(), textMessage("0,0 -> 2,2"))

	bot.handleCallbackQuery(context.Background(), &tgbotapi.CallbackQuery{
		ID:   "q3",
		From: armin,
		Data: "togglePreview",
	})
	callback := api.lastRequest(t).(tgbotapi.CallbackConfig)
	assert.Equal(t, "Map previews hidden.", callback.Text)

	solver, err := db.Find(context.Background(), armin.ID)
	require.NoError(t, err)
	assert.False(t, solver.ShowsPreview)

	bot.handleMessage(context.Background(), textMessage("0,0 -> 2,2"))
	msg := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.NotContains(t, msg.Text, "🟨")
}

func TestDocumentUpload(t *testing.T) {
	bot, api, _ := newTestBot(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/input-file" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleInput))
	}))
	defer server.Close()
	api.fileURL = server.URL

	msg := textMessage("")
	msg.Document = &tgbotapi.Document{FileID: "input-file", FileSize: 200}
	bot.handleMessage(context.Background(), msg)

	reply := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.Contains(t, reply.Text, "number of dangerous points (all) 12")

	msg.Document = &tgbotapi.Document{FileID: "missing"}
	bot.handleMessage(context.Background(), msg)
	reply = api.lastSent(t).(tgbotapi.MessageConfig)
	assert.Equal(t, "I could not read that file.", reply.Text)
}

func TestCommands(t *testing.T) {
	bot, api, _ := newTestBot(t)

	bot.handleMessage(context.Background(), commandMessage("start"))
	start := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.Contains(t, start.Text, "Vent Map Bot")
	assert.Equal(t, tgbotapi.ModeMarkdownV2, start.ParseMode)

	bot.handleMessage(context.Background(), commandMessage("stats"))
	stats := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.Contains(t, stats.Text, "Users joined today: 1")
	assert.Contains(t, stats.Text, "All solvers: 1")

	bot.handleMessage(context.Background(), commandMessage("fly"))
	unknown := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.Equal(t, "Sorry! fly is not recognized as a command.", unknown.Text)
}

func TestStartWithoutFirstName(t *testing.T) {
	bot, api, _ := newTestBot(t)
	msg := commandMessage("start")
	msg.From = &tgbotapi.User{ID: 8, LastName: "Gh"}

	bot.handleMessage(context.Background(), msg)

	start := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.True(t, strings.HasPrefix(start.Text, "Hi Gh\\!"), start.Text)
}

func TestProfileAndScoreboard(t *testing.T) {
	bot, api, _ := newTestBot(t)

	bot.handleMessage(context.Background(), textMessage(profileButtonText))
	assert.Equal(t, "Solve a map first!", api.lastSent(t).(tgbotapi.MessageConfig).Text)

	bot.handleMessage(context.Background(), textMessage(sampleInput))

	bot.handleMessage(context.Background(), textMessage(profileButtonText))
	profile := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.Contains(t, profile.Text, "Rank: 1")
	assert.Contains(t, profile.Text, "Maps solved: 1")

	bot.handleMessage(context.Background(), textMessage(scoreboardButtonText))
	board := api.lastSent(t).(tgbotapi.MessageConfig)
	assert.Contains(t, board.Text, "1. Armin: 1")
}

func TestInlineQueryAndChosenResult(t *testing.T) {
	bot, api, db := newTestBot(t)

	bot.handleInlineQuery(context.Background(), &tgbotapi.InlineQuery{
		ID:    "iq",
		From:  armin,
		Query: "1,2 -> 1,4; 1,3 -> 4,3",
	})

	inline := api.lastRequest(t).(tgbotapi.InlineConfig)
	require.Len(t, inline.Results, 1)
	article := inline.Results[0].(tgbotapi.InlineQueryResultArticle)
	assert.Equal(t, "Dangerous points: 1 / 1", article.Title)

	bot.runIDToRunMutex.Lock()
	assert.Len(t, bot.runIDToRun, 1)
	_, stored := bot.runIDToRun[article.ID]
	bot.runIDToRunMutex.Unlock()
	assert.True(t, stored)

	bot.handleChosenInlineResult(context.Background(), &tgbotapi.ChosenInlineResult{
		ResultID: article.ID,
		From:     armin,
		Query:    "1,2 -> 1,4; 1,3 -> 4,3",
	})
	solver, err := db.Find(context.Background(), armin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, solver.Runs)
}

func TestMalformedInlineQuery(t *testing.T) {
	bot, api, _ := newTestBot(t)

	bot.handleInlineQuery(context.Background(), &tgbotapi.InlineQuery{ID: "iq", From: armin, Query: "1,2 ->"})

	inline := api.lastRequest(t).(tgbotapi.InlineConfig)
	assert.Empty(t, inline.Results)
	assert.Equal(t, "malformed", inline.SwitchPMParameter)
}

func TestPreviewLimit(t *testing.T) {
	bot, _, _ := newTestBot(t)

	_, small, err := bot.solve(context.Background(), "0,0 -> 1,0\n1,0 -> 1,1")
	require.NoError(t, err)
	preview, ok := getPreview(small.all())
	require.True(t, ok)
	assert.Equal(t, "🟨🟥\n⬜️🟨", preview)

	_, big, err := bot.solve(context.Background(), "0,0 -> 40,40")
	require.NoError(t, err)
	_, ok = getPreview(big.all())
	assert.False(t, ok)
}

func TestRunStopsWithContext(t *testing.T) {
	bot, api, db := newTestBot(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- bot.Run(ctx) }()

	api.updates <- tgbotapi.Update{Message: textMessage(helpButtonText)}
	assert.Eventually(t, func() bool { return api.sentCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	assert.True(t, db.disconnected)
}

func TestResetDailyStats(t *testing.T) {
	bot, _, _ := newTestBot(t)
	bot.handleMessage(context.Background(), textMessage(sampleInput))

	bot.resetDailyStats()

	assert.Zero(t, atomic.LoadUint64(&bot.runsSolvedToday))
	assert.Zero(t, atomic.LoadUint64(&bot.usersJoinedToday))
}
