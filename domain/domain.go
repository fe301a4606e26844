package domain

import "slices"

type Language string

const (
	English   Language = "english"
	German    Language = "german"
	French    Language = "french"
	Spanish   Language = "spanish"
	Italian   Language = "italian"
	Hungarian Language = "hungarian"
	Finnish   Language = "finland"
	Arabic    Language = "arabic"
)

// Languages lists every language the word bank carries a translation for.
var Languages = []Language{English, German, French, Spanish, Italian, Hungarian, Finnish, Arabic}

func (l Language) Valid() bool {
	return slices.Contains(Languages, l)
}

type PowerUpType string

const (
	PowerUpFiftyFifty PowerUpType = "50-50"
	PowerUpFreezeTime PowerUpType = "freeze"
	PowerUpHint       PowerUpType = "hint"
)

type PowerUps struct {
	FiftyFifty bool `json:"fiftyFifty"`
	FreezeTime bool `json:"freezeTime"`
	Hint       bool `json:"hint"`
}

// Available reports whether the power-up of type t can still be used.
func (p PowerUps) Available(t PowerUpType) bool {
	switch t {
	case PowerUpFiftyFifty:
		return p.FiftyFifty
	case PowerUpFreezeTime:
		return p.FreezeTime
	case PowerUpHint:
		return p.Hint
	}
	return false
}

// Consume returns a copy with the power-up of type t marked as used.
func (p PowerUps) Consume(t PowerUpType) PowerUps {
	switch t {
	case PowerUpFiftyFifty:
		p.FiftyFifty = false
	case PowerUpFreezeTime:
		p.FreezeTime = false
	case PowerUpHint:
		p.Hint = false
	}
	return p
}

type Player struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Avatar          string     `json:"avatar"`
	Score           int        `json:"score"`
	Language        Language   `json:"language"`
	Streak          int        `json:"streak"`
	XP              int        `json:"xp"`
	Level           int        `json:"level"`
	PowerUps        PowerUps   `json:"powerUps"`
	PowerUpsGranted bool       `json:"powerUpsGranted"`
	DailyStreak     int        `json:"dailyStreak"`
	LastPlayedDate  string     `json:"lastPlayedDate"`
	Mistakes        int        `json:"mistakes"`
	Answered        int        `json:"answered"`
	MaxDeficit      int        `json:"maxDeficit"`
	LanguagesPlayed []Language `json:"languagesPlayed"`
}

// Clone copies the player, including its slice fields.
func (p Player) Clone() Player {
	p.LanguagesPlayed = slices.Clone(p.LanguagesPlayed)
	return p
}

type Badge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Progress    int    `json:"progress"`
	Requirement int    `json:"requirement"`
}

type HighScoreEntry struct {
	ID            string `json:"id"`
	Names         string `json:"names"`
	CombinedScore int    `json:"combinedScore"`
	Date          string `json:"date"`
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
}
