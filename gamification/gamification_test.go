package gamification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/gamification"
)

func TestCalculateXP(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		correct, streak, expected int
	}{
		{3, 0, 30},
		{3, 7, 50},
		{3, 5, 40},
		{0, 0, 0},
		{1, 4, 10},
		{1, 6, 20},
		{1, 12, 30},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, gamification.CalculateXP(tc.correct, tc.streak), "CalculateXP(%d, %d)", tc.correct, tc.streak)
	}
}

func TestCalculateLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2, gamification.CalculateLevel(250))
	assert.Equal(t, 0, gamification.CalculateLevel(99))
	assert.Equal(t, 1, gamification.CalculateLevel(100))
	assert.Equal(t, 1, gamification.CalculateLevel(199))
	assert.Equal(t, 0, gamification.CalculateLevel(-40))
}

func TestUpdateStreak(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 3, gamification.UpdateStreak(domain.Player{Streak: 2}, true))
	assert.Equal(t, 0, gamification.UpdateStreak(domain.Player{Streak: 4}, false))
}

func TestUnlockPowerUps(t *testing.T) {
	t.Parallel()

	t.Run("below threshold", func(t *testing.T) {
		p := gamification.UnlockPowerUps(domain.Player{Level: 2})
		assert.False(t, p.PowerUpsGranted)
		assert.Equal(t, domain.PowerUps{}, p.PowerUps)
	})

	t.Run("crossing threshold", func(t *testing.T) {
		p := gamification.UnlockPowerUps(domain.Player{Level: 3})
		assert.True(t, p.PowerUpsGranted)
		assert.Equal(t, domain.PowerUps{FiftyFifty: true, FreezeTime: true, Hint: true}, p.PowerUps)
	})

	t.Run("idempotent once granted", func(t *testing.T) {
		used := domain.Player{Level: 5, PowerUpsGranted: true, PowerUps: domain.PowerUps{Hint: true}}
		p := gamification.UnlockPowerUps(used)
		assert.Equal(t, used, p)
	})
}

func TestRefillPowerUps(t *testing.T) {
	t.Parallel()
	p := gamification.RefillPowerUps(domain.Player{PowerUpsGranted: true})
	assert.Equal(t, domain.PowerUps{FiftyFifty: true, FreezeTime: true, Hint: true}, p.PowerUps)

	p = gamification.RefillPowerUps(domain.Player{})
	assert.Equal(t, domain.PowerUps{}, p.PowerUps)
}

func TestCheckDailyStreak(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		lastPlayed     string
		dailyStreak    int
		expectedStreak int
	}{
		{"first time", "", 0, 1},
		{"consecutive day", "2026-03-09", 4, 5},
		{"already played today", "2026-03-10", 4, 4},
		{"missed a day", "2026-03-07", 4, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := gamification.CheckDailyStreak(domain.Player{LastPlayedDate: tc.lastPlayed, DailyStreak: tc.dailyStreak}, now)
			assert.Equal(t, tc.expectedStreak, p.DailyStreak)
			assert.Equal(t, "2026-03-10", p.LastPlayedDate)
		})
	}
}

func TestRecordLanguage(t *testing.T) {
	t.Parallel()
	p := gamification.RecordLanguage(domain.Player{}, domain.French)
	p = gamification.RecordLanguage(p, domain.French)
	p = gamification.RecordLanguage(p, domain.Arabic)
	assert.Equal(t, []domain.Language{domain.French, domain.Arabic}, p.LanguagesPlayed)
}
