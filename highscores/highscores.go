package highscores

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/game"
)

const (
	StorageKey = "tamazightHighScores"
	MaxEntries = 5

	dateLayout = "2006-01-02"
)

type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}

// BuildEntry summarises a finished game. Two-player games produce one combined entry.
func BuildEntry(s game.State, id string, now time.Time) domain.HighScoreEntry {
	entry := domain.HighScoreEntry{ID: id, Date: now.UTC().Format(dateLayout)}

	if s.GameMode == game.OnePlayer && len(s.Players) > 0 {
		p := s.Players[0]
		entry.Names = p.Name
		entry.CombinedScore = p.Score
		entry.XP = p.XP
		entry.Level = p.Level
		return entry
	}

	names := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		names = append(names, p.Name)
		entry.CombinedScore += p.Score
		entry.XP += p.XP
		entry.Level = max(entry.Level, p.Level)
	}
	entry.Names = strings.Join(names, " & ")
	return entry
}

// Recorder keeps the leaderboard: the MaxEntries best games, best first.
type Recorder struct {
	store Store
	mu    sync.Mutex
	newID func() string
	now   func() time.Time
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{
		store: store,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

func (r *Recorder) List(ctx context.Context) ([]domain.HighScoreEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Submit inserts entry and returns the resulting leaderboard.
func (r *Recorder) Submit(ctx context.Context, entry domain.HighScoreEntry) ([]domain.HighScoreEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	entries = append(entries, entry)
	slices.SortStableFunc(entries, func(a, b domain.HighScoreEntry) int {
		return cmp.Compare(b.CombinedScore, a.CombinedScore)
	})
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx, StorageKey, raw); err != nil {
		return nil, err
	}
	return entries, nil
}

// Record submits the outcome of a finished game.
func (r *Recorder) Record(ctx context.Context, s game.State) error {
	entry := BuildEntry(s, r.newID(), r.now())
	_, err := r.Submit(ctx, entry)
	if err == nil {
		log.Info().Str("names", entry.Names).Int("score", entry.CombinedScore).Msg("high score recorded")
	}
	return err
}

func (r *Recorder) load(ctx context.Context) ([]domain.HighScoreEntry, error) {
	raw, ok, err := r.store.Load(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.HighScoreEntry{}, nil
	}

	var entries []domain.HighScoreEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Warn().Err(err).Msg("malformed leaderboard, starting over")
		return []domain.HighScoreEntry{}, nil
	}
	if entries == nil {
		entries = []domain.HighScoreEntry{}
	}
	return entries, nil
}
