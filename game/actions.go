package game

import "github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"

// Action is everything the reducer accepts. The set is closed: only types in this
// file implement it.
//
// Timed actions carry the Seq of the round they target. Seq 0 means the current round.
type Action interface {
	actionName() string
}

type (
	StartGame    struct{}
	EndGame      struct{}
	ResetGame    struct{}
	HideFeedback struct{}
)

type SelectAnswer struct {
	Option string
}

type TimerTimeout struct {
	Seq uint64
}

type TimerTick struct {
	Seq uint64
}

type SwitchTurn struct {
	Seq uint64
}

type UnfreezeTimer struct {
	Seq uint64
}

type SetPlayerName struct {
	PlayerID int
	Name     string
}

type SetPlayerLanguage struct {
	PlayerID int
	Language domain.Language
}

type SetGameMode struct {
	Mode GameMode
}

type SetConfigurableTotalRounds struct {
	Rounds int
}

type UsePowerUp struct {
	PlayerID int
	Type     domain.PowerUpType
}

func (StartGame) actionName() string { return "start-game" }
func (EndGame) actionName() string { return "end-game" }
func (ResetGame) actionName() string { return "reset-game" }
func (SelectAnswer) actionName() string { return "select-answer" }
func (TimerTimeout) actionName() string { return "timer-timeout" }
func (TimerTick) actionName() string { return "timer-tick" }
func (HideFeedback) actionName() string { return "hide-feedback" }
func (SwitchTurn) actionName() string { return "switch-turn" }
func (UnfreezeTimer) actionName() string { return "unfreeze-timer" }
func (SetPlayerName) actionName() string { return "set-player-name" }
func (SetPlayerLanguage) actionName() string { return "set-player-language" }
func (SetGameMode) actionName() string { return "set-game-mode" }
func (SetConfigurableTotalRounds) actionName() string { return "set-configurable-total-rounds" }
func (UsePowerUp) actionName() string { return "use-power-up" }

func staleSeq(seq uint64, s State) bool {
	return seq != 0 && seq != s.Round.Seq
}
