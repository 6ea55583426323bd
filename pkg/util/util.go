package util

import (
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ArminGh02/ventmap/pkg/database"
)

func FullNameOf(user *tgbotapi.User) string {
	if user.LastName == "" {
		return user.FirstName
	}
	return user.FirstName + " " + user.LastName
}

func FirstNameElseLastName(user *tgbotapi.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	return user.LastName
}

type byScore []database.SolverDoc

func (b byScore) Len() int {
	return len(b)
}

func (b byScore) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

func (b byScore) Less(i, j int) bool {
	return b[i].Score() > b[j].Score()
}

// Scoreboard keeps solvers ordered by the number of maps they solved. It is
// not safe for concurrent use.
type Scoreboard struct {
	scoreboard []database.SolverDoc
}

func NewScoreboard(solvers []database.SolverDoc) Scoreboard {
	sort.Stable(byScore(solvers))
	return Scoreboard{
		scoreboard: solvers,
	}
}

func (s *Scoreboard) Contains(userID int64) bool {
	return s.indexOf(userID) >= 0
}

func (s *Scoreboard) Insert(solver *database.SolverDoc) {
	score := solver.Score()
	i := len(s.scoreboard)
	for i-1 >= 0 && score > s.scoreboard[i-1].Score() {
		i--
	}
	s.scoreboard = append(s.scoreboard, database.SolverDoc{})
	copy(s.scoreboard[i+1:], s.scoreboard[i:])
	s.scoreboard[i] = *solver
}

// UpdateRankOf adds runsDelta to the solver's runs and moves it to its new
// place. Unknown users are ignored.
func (s *Scoreboard) UpdateRankOf(userID int64, runsDelta int) {
	i := s.indexOf(userID)
	if i < 0 {
		return
	}
	solver := &s.scoreboard[i]
	solver.Runs += runsDelta

	score := solver.Score()

	for ; i-1 >= 0 && score > s.scoreboard[i-1].Score(); i-- {
		s.scoreboard[i], s.scoreboard[i-1] = s.scoreboard[i-1], s.scoreboard[i]
	}

	for ; i+1 < len(s.scoreboard) && score < s.scoreboard[i+1].Score(); i++ {
		s.scoreboard[i], s.scoreboard[i+1] = s.scoreboard[i+1], s.scoreboard[i]
	}
}

func (s *Scoreboard) indexOf(userID int64) int {
	for i := range s.scoreboard {
		if s.scoreboard[i].UserID == userID {
			return i
		}
	}
	return -1
}

// RankOf returns the dense rank of the user, solvers with equal scores
// sharing a rank. It returns 0 for unknown users.
func (s *Scoreboard) RankOf(userID int64) int {
	rank := 0
	lastScore := -1
	for i := range s.scoreboard {
		if score := s.scoreboard[i].Score(); score != lastScore {
			rank++
			lastScore = score
		}
		if s.scoreboard[i].UserID == userID {
			return rank
		}
	}
	return 0
}

// String lists the top ten solvers and, if ranked lower, the user asking.
func (s *Scoreboard) String(userID int64) string {
	if len(s.scoreboard) == 0 {
		return "Nobody has solved a map yet."
	}

	var b strings.Builder
	b.WriteString("🏆 Scoreboard\n")
	rank := 0
	lastScore := -1
	for i := range s.scoreboard {
		if i == 10 {
			break
		}
		solver := &s.scoreboard[i]
		if score := solver.Score(); score != lastScore {
			rank++
			lastScore = score
		}
		fmt.Fprintf(&b, "\n%d. %s: %d", rank, solver.Name, solver.Score())
	}
	if i := s.indexOf(userID); i >= 10 {
		solver := &s.scoreboard[i]
		fmt.Fprintf(&b, "\n...\n%d. %s: %d", s.RankOf(userID), solver.Name, solver.Score())
	}
	return b.String()
}
