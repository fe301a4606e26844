package game

import (
	"slices"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/gamification"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/words"
)

type GameMode string

const (
	OnePlayer GameMode = "1-player"
	TwoPlayer GameMode = "2-player"
)

func (m GameMode) playersCount() int {
	if m == OnePlayer {
		return 1
	}
	return 2
}

type FeedbackType string

const (
	FeedbackNone    FeedbackType = "none"
	FeedbackCorrect FeedbackType = "correct"
	FeedbackWrong   FeedbackType = "wrong"
	FeedbackTimeout FeedbackType = "timeout"
)

const (
	DefaultTotalRounds = 10
	DefaultTurnSeconds = 10
)

var defaultAvatars = []string{
	"https://images.pexels.com/photos/1222271/pexels-photo-1222271.jpeg?auto=compress&cs=tinysrgb&w=150",
	"https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=150",
}

// Round is the question currently on screen. It is recreated for every turn.
type Round struct {
	// Seq identifies the round across the whole session and never goes back,
	// so scheduled actions aimed at an older round can be recognised and dropped.
	Seq            uint64       `json:"seq"`
	CurrentWord    *words.Word  `json:"currentWord"`
	Options        []string     `json:"options"`
	CorrectAnswer  string       `json:"correctAnswer"`
	SelectedAnswer string       `json:"selectedAnswer,omitempty"`
	Hint           string       `json:"hint,omitempty"`
	TimerActive    bool         `json:"timerActive"`
	TimeLeft       int          `json:"timeLeft"`
	ShowFeedback   bool         `json:"showFeedback"`
	FeedbackType   FeedbackType `json:"feedbackType"`
}

func (r Round) inProgress() bool {
	return r.TimerActive && !r.ShowFeedback
}

type State struct {
	Players                 []domain.Player `json:"players"`
	Round                   Round           `json:"round"`
	CurrentPlayerIndex      int             `json:"currentPlayerIndex"`
	CurrentRound            int             `json:"currentRound"`
	TotalRounds             int             `json:"totalRounds"`
	ConfigurableTotalRounds int             `json:"configurableTotalRounds"`
	GameMode                GameMode        `json:"gameMode"`
	GameActive              bool            `json:"gameActive"`
	GameOver                bool            `json:"gameOver"`
	IsTimerFrozen           bool            `json:"isTimerFrozen"`
	RemovedOption           string          `json:"removedOption,omitempty"`
	Badges                  []domain.Badge  `json:"badges"`
}

type Config struct {
	Mode        GameMode
	TotalRounds int
}

// NewState returns an idle session state.
func NewState(cfg Config) State {
	if cfg.Mode == "" {
		cfg.Mode = TwoPlayer
	}
	if cfg.TotalRounds < 1 {
		cfg.TotalRounds = DefaultTotalRounds
	}
	return State{
		Players:                 DefaultPlayers()[:cfg.Mode.playersCount()],
		Round:                   Round{FeedbackType: FeedbackNone},
		TotalRounds:             cfg.TotalRounds,
		ConfigurableTotalRounds: cfg.TotalRounds,
		GameMode:                cfg.Mode,
		Badges:                  gamification.DefaultBadges(),
	}
}

func DefaultPlayers() []domain.Player {
	return []domain.Player{
		{ID: 1, Name: "Player 1", Avatar: defaultAvatars[0], Language: domain.English},
		{ID: 2, Name: "Player 2", Avatar: defaultAvatars[1], Language: domain.English},
	}
}

// Clone deep-copies the state so snapshots handed out never alias the session's own state.
func (s State) Clone() State {
	players := make([]domain.Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = p.Clone()
	}
	s.Players = players
	s.Round.Options = slices.Clone(s.Round.Options)
	s.Badges = slices.Clone(s.Badges)
	return s
}

// CurrentPlayer returns the player whose turn it is.
func (s State) CurrentPlayer() domain.Player {
	return s.Players[s.CurrentPlayerIndex]
}

func (s State) playerIndex(id int) (int, bool) {
	for i, p := range s.Players {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}
