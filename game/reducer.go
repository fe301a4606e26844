package game

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/gamification"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/words"
)

const PointsPerCorrect = 3

// Reducer applies actions to a State. It never mutates the state it is given.
type Reducer struct {
	bank        []words.Word
	generator   *words.Generator
	turnSeconds int
	now         func() time.Time
}

func NewReducer(bank []words.Word, generator *words.Generator, turnSeconds int) *Reducer {
	if turnSeconds < 1 {
		turnSeconds = DefaultTurnSeconds
	}
	return &Reducer{
		bank:        bank,
		generator:   generator,
		turnSeconds: turnSeconds,
		now:         time.Now,
	}
}

// Reduce returns the state that results from applying action to s.
// When an error is returned the returned state is s, unchanged.
func (r *Reducer) Reduce(s State, action Action) (State, error) {
	next := s.Clone()

	var err error
	switch a := action.(type) {
	case StartGame:
		err = r.startGame(&next)
	case EndGame:
		if next.GameActive {
			r.endGame(&next, false)
		}
	case ResetGame:
		r.resetGame(&next)
	case SelectAnswer:
		err = r.selectAnswer(&next, a.Option)
	case TimerTimeout:
		if !staleSeq(a.Seq, next) && next.GameActive && next.Round.inProgress() {
			r.timeout(&next)
		}
	case TimerTick:
		r.tick(&next, a.Seq)
	case HideFeedback:
		next.Round.ShowFeedback = false
		next.Round.FeedbackType = FeedbackNone
	case SwitchTurn:
		err = r.switchTurn(&next, a.Seq)
	case UnfreezeTimer:
		if !staleSeq(a.Seq, next) {
			next.IsTimerFrozen = false
		}
	case SetPlayerName:
		err = r.setPlayerName(&next, a.PlayerID, a.Name)
	case SetPlayerLanguage:
		err = r.setPlayerLanguage(&next, a.PlayerID, a.Language)
	case SetGameMode:
		err = r.setGameMode(&next, a.Mode)
	case SetConfigurableTotalRounds:
		if a.Rounds < 1 {
			err = fmt.Errorf("%w: %d", domain.ErrInvalidRounds, a.Rounds)
		} else {
			next.ConfigurableTotalRounds = a.Rounds
		}
	case UsePowerUp:
		err = r.usePowerUp(&next, a.PlayerID, a.Type)
	default:
		err = fmt.Errorf("%w: %T", domain.ErrUnknownAction, action)
	}

	if err != nil {
		return s, err
	}
	return next, nil
}

func (r *Reducer) startGame(s *State) error {
	if s.GameActive {
		return domain.ErrGameInProgress
	}

	defaults := DefaultPlayers()
	players := make([]domain.Player, s.GameMode.playersCount())
	for i := range players {
		p := defaults[i]
		if i < len(s.Players) {
			p = s.Players[i]
		}
		p.Score, p.Streak = 0, 0
		p.Mistakes, p.Answered, p.MaxDeficit = 0, 0, 0
		p = gamification.CheckDailyStreak(p, r.now())
		p = gamification.RefillPowerUps(p)
		players[i] = p
	}

	s.Players = players
	s.GameActive = true
	s.GameOver = false
	s.CurrentRound = 0
	s.CurrentPlayerIndex = 0
	s.TotalRounds = s.ConfigurableTotalRounds
	s.Round.ShowFeedback = false
	s.Round.FeedbackType = FeedbackNone

	return r.nextRound(s)
}

// nextRound generates the question for the current player and starts the countdown.
func (r *Reducer) nextRound(s *State) error {
	p := &s.Players[s.CurrentPlayerIndex]

	exclude := ""
	if s.Round.CurrentWord != nil {
		exclude = s.Round.CurrentWord.Text
	}
	q, err := r.generator.Generate(r.bank, p.Language, exclude)
	if err != nil {
		return err
	}

	s.Round = Round{
		Seq:           s.Round.Seq + 1,
		CurrentWord:   &q.Word,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		TimerActive:   true,
		TimeLeft:      r.turnSeconds,
		FeedbackType:  FeedbackNone,
	}
	s.CurrentRound++
	s.RemovedOption = ""
	s.IsTimerFrozen = false
	*p = gamification.RecordLanguage(*p, p.Language)
	return nil
}

func (r *Reducer) selectAnswer(s *State, option string) error {
	if !s.GameActive || !s.Round.inProgress() {
		return domain.ErrNoActiveRound
	}

	correct := option == s.Round.CorrectAnswer
	p := &s.Players[s.CurrentPlayerIndex]
	p.Answered++
	p.Streak = gamification.UpdateStreak(*p, correct)

	increment := 0
	if correct {
		increment = 1
		p.Score += PointsPerCorrect
		p.XP += gamification.CalculateXP(1, p.Streak)
		p.Level = gamification.CalculateLevel(p.XP)
	} else {
		p.Mistakes++
	}

	s.Badges = gamification.CheckBadgeProgress(*p, increment, s.Round.TimeLeft, s.Badges)
	*p = gamification.UnlockPowerUps(*p)
	trackDeficits(s)

	s.Round.SelectedAnswer = option
	if correct {
		showFeedback(s, FeedbackCorrect)
	} else {
		showFeedback(s, FeedbackWrong)
	}
	return nil
}

func (r *Reducer) timeout(s *State) {
	p := &s.Players[s.CurrentPlayerIndex]
	p.Answered++
	p.Mistakes++
	p.Streak = gamification.UpdateStreak(*p, false)
	trackDeficits(s)

	s.Round.TimeLeft = 0
	showFeedback(s, FeedbackTimeout)
}

func (r *Reducer) tick(s *State, seq uint64) {
	if staleSeq(seq, *s) || !s.GameActive || !s.Round.inProgress() || s.IsTimerFrozen {
		return
	}
	s.Round.TimeLeft--
	if s.Round.TimeLeft <= 0 {
		r.timeout(s)
	}
}

func (r *Reducer) switchTurn(s *State, seq uint64) error {
	if staleSeq(seq, *s) || !s.GameActive || s.Round.inProgress() {
		return nil
	}

	s.Round.ShowFeedback = false
	s.Round.FeedbackType = FeedbackNone

	if s.GameMode == OnePlayer {
		if s.CurrentRound >= s.TotalRounds {
			r.endGame(s, true)
			return nil
		}
		return r.nextRound(s)
	}

	s.CurrentPlayerIndex = (s.CurrentPlayerIndex + 1) % len(s.Players)
	if s.CurrentRound >= s.TotalRounds && s.CurrentPlayerIndex == 0 {
		r.endGame(s, true)
		return nil
	}
	return r.nextRound(s)
}

// endGame finishes the game. completed is true when every round was played.
func (r *Reducer) endGame(s *State, completed bool) {
	s.GameActive = false
	s.GameOver = true
	s.Round.TimerActive = false
	s.IsTimerFrozen = false

	for i, p := range s.Players {
		s.Badges = gamification.CheckGameEndBadges(gamification.GameSummary{Player: p, Won: isWinner(s.Players, i), Completed: completed}, s.Badges)
	}
}

func (r *Reducer) resetGame(s *State) {
	fresh := NewState(Config{Mode: s.GameMode, TotalRounds: s.ConfigurableTotalRounds})
	for i := range fresh.Players {
		if i >= len(s.Players) {
			continue
		}
		p := s.Players[i].Clone()
		p.Score, p.Streak = 0, 0
		p.Mistakes, p.Answered, p.MaxDeficit = 0, 0, 0
		fresh.Players[i] = p
	}
	fresh.Badges = s.Badges
	fresh.Round.Seq = s.Round.Seq + 1
	*s = fresh
}

func (r *Reducer) setPlayerName(s *State, playerID int, name string) error {
	idx, ok := s.playerIndex(playerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidPlayerName
	}
	s.Players[idx].Name = name
	return nil
}

func (r *Reducer) setPlayerLanguage(s *State, playerID int, lang domain.Language) error {
	idx, ok := s.playerIndex(playerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	if !lang.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, lang)
	}
	s.Players[idx].Language = lang
	return nil
}

func (r *Reducer) setGameMode(s *State, mode GameMode) error {
	if s.GameActive {
		return domain.ErrGameInProgress
	}
	if mode != OnePlayer && mode != TwoPlayer {
		return fmt.Errorf("%w: %q", domain.ErrInvalidGameMode, mode)
	}

	n := mode.playersCount()
	if len(s.Players) > n {
		s.Players = s.Players[:n]
	}
	if len(s.Players) < n {
		s.Players = append(s.Players, DefaultPlayers()[len(s.Players):n]...)
	}
	s.GameMode = mode
	s.CurrentPlayerIndex = 0
	return nil
}

func (r *Reducer) usePowerUp(s *State, playerID int, t domain.PowerUpType) error {
	idx, ok := s.playerIndex(playerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	if !s.GameActive || !s.Round.inProgress() {
		return domain.ErrNoActiveRound
	}
	if idx != s.CurrentPlayerIndex {
		return domain.ErrNotPlayersTurn
	}

	p := &s.Players[idx]
	switch t {
	case domain.PowerUpFiftyFifty, domain.PowerUpFreezeTime, domain.PowerUpHint:
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownPowerUp, t)
	}
	if !p.PowerUps.Available(t) {
		return domain.ErrPowerUpUnavailable
	}
	p.PowerUps = p.PowerUps.Consume(t)

	switch t {
	case domain.PowerUpFiftyFifty:
		s.RemovedOption = r.generator.PickDistractor(s.Round.Options, s.Round.CorrectAnswer)
	case domain.PowerUpFreezeTime:
		s.IsTimerFrozen = true
	case domain.PowerUpHint:
		if first, size := utf8.DecodeRuneInString(s.Round.CorrectAnswer); size > 0 {
			s.Round.Hint = string(first)
		}
	}
	return nil
}

func showFeedback(s *State, feedback FeedbackType) {
	s.Round.TimerActive = false
	s.Round.ShowFeedback = true
	s.Round.FeedbackType = feedback
	s.IsTimerFrozen = false
}

// trackDeficits records, for every player, the largest gap to the leading opponent.
func trackDeficits(s *State) {
	for i := range s.Players {
		for j, other := range s.Players {
			if i == j {
				continue
			}
			if d := other.Score - s.Players[i].Score; d > s.Players[i].MaxDeficit {
				s.Players[i].MaxDeficit = d
			}
		}
	}
}

func isWinner(players []domain.Player, idx int) bool {
	if len(players) < 2 {
		return false
	}
	for i, p := range players {
		if i != idx && p.Score >= players[idx].Score {
			return false
		}
	}
	return true
}
