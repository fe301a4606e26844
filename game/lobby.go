package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
)

const (
	DefaultSessionTTL = 2 * time.Hour
	sweepInterval     = time.Minute
)

// NewSessionFunc builds a session that is not running yet.
type NewSessionFunc func(id string, cfg Config) *Session

type createRequest struct {
	cfg  Config
	resp chan *Session
}

type removeRequest struct {
	id   string
	done chan struct{}
}

type getRequest struct {
	id   string
	resp chan *Session
}

// Lobby is the registry of live sessions. Only LobbyActor touches the map.
type Lobby struct {
	sessions      map[string]*Session
	idGenerator   UniqueIdGenerator
	tickerCreator PeriodicTickerChannelCreator
	newSession    NewSessionFunc
	ttl           time.Duration

	createReqs chan createRequest
	getReqs    chan getRequest
	removeReqs chan removeRequest
	countReqs  chan chan int
	quit       chan struct{}
	stopOnce   sync.Once
}

func NewLobby(idgen UniqueIdGenerator, tickerCreator PeriodicTickerChannelCreator, newSession NewSessionFunc, ttl time.Duration) *Lobby {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Lobby{
		sessions:      map[string]*Session{},
		idGenerator:   idgen,
		tickerCreator: tickerCreator,
		newSession:    newSession,
		ttl:           ttl,
		createReqs:    make(chan createRequest, 32),
		getReqs:       make(chan getRequest, 256),
		removeReqs:    make(chan removeRequest, 32),
		countReqs:     make(chan chan int, 8),
		quit:          make(chan struct{}),
	}
}

func (l *Lobby) Create(ctx context.Context, cfg Config) (*Session, error) {
	resp := make(chan *Session, 1)
	select {
	case l.createReqs <- createRequest{cfg: cfg, resp: resp}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case s := <-resp:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Lobby) Get(ctx context.Context, id string) (*Session, error) {
	resp := make(chan *Session, 1)
	select {
	case l.getReqs <- getRequest{id: id, resp: resp}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case s := <-resp:
		if s == nil {
			return nil, domain.ErrSessionNotFound
		}
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Remove closes the session and returns once it is gone from the registry.
func (l *Lobby) Remove(id string) {
	req := removeRequest{id: id, done: make(chan struct{})}
	select {
	case l.removeReqs <- req:
	case <-l.quit:
		return
	}
	select {
	case <-req.done:
	case <-l.quit:
	}
}

func (l *Lobby) Count(ctx context.Context) int {
	resp := make(chan int, 1)
	select {
	case l.countReqs <- resp:
		select {
		case n := <-resp:
			return n
		case <-ctx.Done():
			return 0
		}
	case <-ctx.Done():
		return 0
	}
}

// Stop closes every session and ends the actor. Calling it again does nothing.
func (l *Lobby) Stop() {
	l.stopOnce.Do(func() { close(l.quit) })
}

func (l *Lobby) LobbyActor(started chan struct{}) {
	sweep, stopSweep := l.tickerCreator.Create(sweepInterval)
	defer stopSweep()

	close(started)

	for {
		select {
		case now := <-sweep:
			l.handleSweep(now)

		case req := <-l.createReqs:
			req.resp <- l.handleCreate(req.cfg)

		case req := <-l.getReqs:
			req.resp <- l.sessions[req.id]

		case req := <-l.removeReqs:
			l.handleRemove(req.id)
			close(req.done)

		case resp := <-l.countReqs:
			resp <- len(l.sessions)

		case <-l.quit:
			for id := range l.sessions {
				l.handleRemove(id)
			}
			return
		}
	}
}

func (l *Lobby) handleCreate(cfg Config) *Session {
	id := l.idGenerator.Generate()
	s := l.newSession(id, cfg)

	started := make(chan struct{})
	go s.Run(started)
	<-started

	l.sessions[id] = s
	log.Debug().Str("session", id).Msg("session created")
	return s
}

func (l *Lobby) handleRemove(id string) {
	s, ok := l.sessions[id]
	if !ok {
		return
	}
	delete(l.sessions, id)
	s.Close()
}

func (l *Lobby) handleSweep(now time.Time) {
	for id, s := range l.sessions {
		if now.Sub(s.LastActive()) > l.ttl {
			log.Info().Str("session", id).Msg("evicting idle session")
			l.handleRemove(id)
		}
	}
}
