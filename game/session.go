package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
)

const (
	DefaultFeedbackDelay  = 1500 * time.Millisecond
	DefaultFreezeDuration = 5 * time.Second

	tickInterval = time.Second

	keyTick     = "tick"
	keySwitch   = "switch-turn"
	keyUnfreeze = "unfreeze"
)

// ScoreRecorder persists the outcome of a finished game.
type ScoreRecorder interface {
	Record(ctx context.Context, s State) error
}

type SessionConfig struct {
	Game           Config
	FeedbackDelay  time.Duration
	FreezeDuration time.Duration
	// DispatchRate and DispatchBurst bound how fast UI actions are accepted.
	DispatchRate  rate.Limit
	DispatchBurst int
}

type envelope struct {
	action Action
	reply  chan dispatchResult
}

type dispatchResult struct {
	state State
	err   error
}

// Session owns one game. All state changes happen on the goroutine running Run,
// so the reducer never sees two actions at once.
type Session struct {
	id        string
	reducer   *Reducer
	scheduler *Scheduler
	recorder  ScoreRecorder
	limiter   *rate.Limiter
	cfg       SessionConfig

	state       State
	subscribers map[chan State]struct{}

	inbox         chan envelope
	snapshotReqs  chan chan State
	subscribeReqs chan chan State
	unsubscribe   chan chan State
	quit          chan struct{}
	closeOnce     sync.Once
	lastActive    atomic.Int64
}

func NewSession(id string, reducer *Reducer, scheduler *Scheduler, recorder ScoreRecorder, cfg SessionConfig) *Session {
	if cfg.FeedbackDelay <= 0 {
		cfg.FeedbackDelay = DefaultFeedbackDelay
	}
	if cfg.FreezeDuration <= 0 {
		cfg.FreezeDuration = DefaultFreezeDuration
	}
	if cfg.DispatchRate <= 0 {
		cfg.DispatchRate = 20
	}
	if cfg.DispatchBurst <= 0 {
		cfg.DispatchBurst = 40
	}

	s := &Session{
		id:            id,
		reducer:       reducer,
		scheduler:     scheduler,
		recorder:      recorder,
		limiter:       rate.NewLimiter(cfg.DispatchRate, cfg.DispatchBurst),
		cfg:           cfg,
		state:         NewState(cfg.Game),
		subscribers:   map[chan State]struct{}{},
		inbox:         make(chan envelope, 64),
		snapshotReqs:  make(chan chan State, 16),
		subscribeReqs: make(chan chan State), // unbuffered: never holds a request Run will not serve
		unsubscribe:   make(chan chan State, 16),
		quit:          make(chan struct{}),
	}
	s.touch()
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(s.scheduler.Now().UnixNano())
}

// Dispatch applies a UI action and returns the resulting snapshot.
func (s *Session) Dispatch(ctx context.Context, action Action) (State, error) {
	if s.closed() {
		return State{}, domain.ErrSessionClosed
	}
	if !s.limiter.Allow() {
		return State{}, domain.ErrRateLimited
	}
	s.touch()

	reply := make(chan dispatchResult, 1)
	select {
	case s.inbox <- envelope{action: action, reply: reply}:
	case <-s.quit:
		return State{}, domain.ErrSessionClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.state, res.err
	case <-s.quit:
		return State{}, domain.ErrSessionClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

func (s *Session) Snapshot(ctx context.Context) (State, error) {
	if s.closed() {
		return State{}, domain.ErrSessionClosed
	}
	s.touch()
	resp := make(chan State, 1)
	select {
	case s.snapshotReqs <- resp:
	case <-s.quit:
		return State{}, domain.ErrSessionClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}

	select {
	case snap := <-resp:
		return snap, nil
	case <-s.quit:
		return State{}, domain.ErrSessionClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Subscribe returns a channel that receives the current snapshot and then one
// snapshot per transition. Slow subscribers miss intermediate snapshots.
// The channel is closed when the session closes or cancel is called.
func (s *Session) Subscribe(ctx context.Context) (<-chan State, func(), error) {
	if s.closed() {
		return nil, nil, domain.ErrSessionClosed
	}
	updates := make(chan State, 8)
	select {
	case s.subscribeReqs <- updates:
	case <-s.quit:
		return nil, nil, domain.ErrSessionClosed
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	cancel := func() {
		select {
		case s.unsubscribe <- updates:
		case <-s.quit:
		}
	}
	return updates, cancel, nil
}

func (s *Session) closed() bool {
	select {
	case <-s.quit:
		return true
	default:
		return false
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
}

// post delivers a scheduled action. It gives up once the session is closed.
func (s *Session) post(action Action) {
	select {
	case s.inbox <- envelope{action: action}:
	case <-s.quit:
	}
}

func (s *Session) Run(started chan struct{}) {
	close(started)

	for {
		select {
		case env := <-s.inbox:
			snap, err := s.apply(env.action)
			if env.reply != nil {
				env.reply <- dispatchResult{state: snap, err: err}
			}

		case resp := <-s.snapshotReqs:
			resp <- s.state.Clone()

		case sub := <-s.subscribeReqs:
			s.subscribers[sub] = struct{}{}
			sub <- s.state.Clone()

		case sub := <-s.unsubscribe:
			if _, ok := s.subscribers[sub]; ok {
				delete(s.subscribers, sub)
				close(sub)
			}

		case <-s.quit:
			s.scheduler.CancelAll()
			for sub := range s.subscribers {
				close(sub)
			}
			s.subscribers = nil
			log.Debug().Str("session", s.id).Msg("session closed")
			return
		}
	}
}

func (s *Session) apply(action Action) (State, error) {
	prev := s.state
	next, err := s.reducer.Reduce(prev, action)

	if err != nil {
		if !errors.Is(err, domain.ErrGenerationFailed) || !prev.GameActive {
			return prev.Clone(), err
		}
		// The round cannot be built: finish the game instead of leaving it stuck on feedback.
		log.Error().Err(err).Str("session", s.id).Msg("ending game after question generation failure")
		next, _ = s.reducer.Reduce(prev, EndGame{})
	}

	s.state = next
	s.afterTransition(prev)
	s.publish()
	return s.state.Clone(), err
}

// afterTransition keeps the scheduled work in line with the new state.
func (s *Session) afterTransition(prev State) {
	cur := s.state

	if cur.GameOver && !prev.GameOver {
		s.recordScore()
	}
	if !cur.GameActive {
		s.scheduler.CancelAll()
		return
	}
	if cur.Round.Seq != prev.Round.Seq {
		s.scheduler.CancelAll()
	}

	seq := cur.Round.Seq
	if cur.Round.inProgress() {
		if !s.scheduler.Pending(keyTick) {
			s.scheduler.Schedule(keyTick, tickInterval, func() { s.post(TimerTick{Seq: seq}) })
		}
	} else {
		s.scheduler.Cancel(keyTick)
	}

	if prev.Round.Seq == seq && prev.Round.inProgress() && !cur.Round.inProgress() {
		s.scheduler.Schedule(keySwitch, s.cfg.FeedbackDelay, func() { s.post(SwitchTurn{Seq: seq}) })
	}

	if cur.IsTimerFrozen && !prev.IsTimerFrozen {
		s.scheduler.Schedule(keyUnfreeze, s.cfg.FreezeDuration, func() { s.post(UnfreezeTimer{Seq: seq}) })
	} else if !cur.IsTimerFrozen {
		s.scheduler.Cancel(keyUnfreeze)
	}
}

func (s *Session) recordScore() {
	if s.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.recorder.Record(ctx, s.state.Clone()); err != nil {
		log.Error().Err(err).Str("session", s.id).Msg("failed to record high score")
	}
}

func (s *Session) publish() {
	for sub := range s.subscribers {
		select {
		case sub <- s.state.Clone():
		default:
		}
	}
}
