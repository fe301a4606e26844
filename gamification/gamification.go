package gamification

import (
	"slices"
	"time"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
)

const (
	XPPerCorrect     = 10
	XPPerLevel       = 100
	PowerUpMinLevel  = 3
	SpeedsterMinLeft = 5

	dateLayout = "2006-01-02"
)

// CalculateXP returns the XP earned for correctCount answers given the player's streak.
func CalculateXP(correctCount, streak int) int {
	xp := correctCount * XPPerCorrect

	switch {
	case streak >= 7:
		xp += 20
	case streak >= 5:
		xp += 10
	}
	return xp
}

// CalculateLevel is zero-indexed: level 0 below 100 XP, level 1 from 100 to 199, and so on.
func CalculateLevel(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp / XPPerLevel
}

func UpdateStreak(player domain.Player, isCorrect bool) int {
	if !isCorrect {
		return 0
	}
	return player.Streak + 1
}

// UnlockPowerUps grants every power-up the first time the player reaches PowerUpMinLevel.
func UnlockPowerUps(player domain.Player) domain.Player {
	if player.Level < PowerUpMinLevel || player.PowerUpsGranted {
		return player
	}
	player.PowerUpsGranted = true
	player.PowerUps = domain.PowerUps{FiftyFifty: true, FreezeTime: true, Hint: true}
	return player
}

// RefillPowerUps makes power-ups available again for a new game, for players who were granted them.
func RefillPowerUps(player domain.Player) domain.Player {
	if player.PowerUpsGranted {
		player.PowerUps = domain.PowerUps{FiftyFifty: true, FreezeTime: true, Hint: true}
	}
	return player
}

// CheckDailyStreak compares the last played date with now (UTC calendar days).
func CheckDailyStreak(player domain.Player, now time.Time) domain.Player {
	today := now.UTC().Format(dateLayout)
	yesterday := now.UTC().AddDate(0, 0, -1).Format(dateLayout)

	switch player.LastPlayedDate {
	case "":
		player.DailyStreak = 1
	case yesterday:
		player.DailyStreak++
	case today:
	default:
		player.DailyStreak = 1
	}

	player.LastPlayedDate = today
	return player
}

// RecordLanguage adds lang to the languages the player has played, once.
func RecordLanguage(player domain.Player, lang domain.Language) domain.Player {
	if slices.Contains(player.LanguagesPlayed, lang) {
		return player
	}
	player.LanguagesPlayed = append(slices.Clone(player.LanguagesPlayed), lang)
	return player
}
