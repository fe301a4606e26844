package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
)

const (
	KeySound  = "tamazightSoundEnabled"
	KeyMusic  = "tamazightMusicEnabled"
	KeyTheme  = "theme"
	KeyRounds = "configurableTotalRounds"

	DefaultRounds = 10
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var ErrInvalidTheme = errors.New("invalid-theme")

type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}

type Preferences struct {
	SoundEnabled            bool  `json:"soundEnabled"`
	MusicEnabled            bool  `json:"musicEnabled"`
	Theme                   Theme `json:"theme"`
	ConfigurableTotalRounds int   `json:"configurableTotalRounds"`
}

func Defaults() Preferences {
	return Preferences{
		SoundEnabled:            true,
		MusicEnabled:            true,
		Theme:                   ThemeLight,
		ConfigurableTotalRounds: DefaultRounds,
	}
}

func (p Preferences) Validate() error {
	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, p.Theme)
	}
	if p.ConfigurableTotalRounds < 1 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidRounds, p.ConfigurableTotalRounds)
	}
	return nil
}

// Service persists preferences one key per setting.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Load returns the stored preferences. Missing or unreadable values fall back to their default.
func (s *Service) Load(ctx context.Context) (Preferences, error) {
	p := Defaults()

	if err := s.loadKey(ctx, KeySound, &p.SoundEnabled); err != nil {
		return Defaults(), err
	}
	if err := s.loadKey(ctx, KeyMusic, &p.MusicEnabled); err != nil {
		return Defaults(), err
	}
	if err := s.loadKey(ctx, KeyTheme, &p.Theme); err != nil {
		return Defaults(), err
	}
	if err := s.loadKey(ctx, KeyRounds, &p.ConfigurableTotalRounds); err != nil {
		return Defaults(), err
	}

	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		log.Warn().Str("theme", string(p.Theme)).Msg("unknown theme stored, using default")
		p.Theme = ThemeLight
	}
	if p.ConfigurableTotalRounds < 1 {
		log.Warn().Int("rounds", p.ConfigurableTotalRounds).Msg("invalid round count stored, using default")
		p.ConfigurableTotalRounds = DefaultRounds
	}
	return p, nil
}

func (s *Service) Save(ctx context.Context, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.saveKey(ctx, KeySound, p.SoundEnabled); err != nil {
		return err
	}
	if err := s.saveKey(ctx, KeyMusic, p.MusicEnabled); err != nil {
		return err
	}
	if err := s.saveKey(ctx, KeyTheme, p.Theme); err != nil {
		return err
	}
	return s.saveKey(ctx, KeyRounds, p.ConfigurableTotalRounds)
}

func (s *Service) ToggleTheme(ctx context.Context) (Preferences, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return Preferences{}, err
	}
	if p.Theme == ThemeDark {
		p.Theme = ThemeLight
	} else {
		p.Theme = ThemeDark
	}
	if err := s.saveKey(ctx, KeyTheme, p.Theme); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

// LoadRounds returns the configured round count, or DefaultRounds alongside any error.
func (s *Service) LoadRounds(ctx context.Context) (int, error) {
	rounds := DefaultRounds
	if err := s.loadKey(ctx, KeyRounds, &rounds); err != nil {
		return DefaultRounds, err
	}
	if rounds < 1 {
		return DefaultRounds, nil
	}
	return rounds, nil
}

func (s *Service) SaveRounds(ctx context.Context, rounds int) error {
	if rounds < 1 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidRounds, rounds)
	}
	return s.saveKey(ctx, KeyRounds, rounds)
}

// loadKey decodes the value under key into dst, leaving dst untouched when the
// key is absent or its value is malformed.
func (s *Service) loadKey(ctx context.Context, key string, dst any) error {
	raw, ok, err := s.store.Load(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("malformed preference, using default")
	}
	return nil
}

func (s *Service) saveKey(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, key, raw)
}
