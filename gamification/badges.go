package gamification

import "github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"

const (
	BadgeWordWizard   = "word-wizard"
	BadgeSpeedster    = "speedster"
	BadgePerfectRound = "perfect-round"
	BadgeComeback     = "comeback"
	BadgePolyglot     = "polyglot"

	ComebackDeficit = 6
)

// DefaultBadges returns a fresh copy of the badge catalog.
func DefaultBadges() []domain.Badge {
	return []domain.Badge{
		{ID: BadgeWordWizard, Title: "Word Wizard", Description: "Get 10 correct answers in one language", Requirement: 10},
		{ID: BadgeSpeedster, Title: "Speedster", Description: "Answer correctly with >5s remaining 5 times", Requirement: 5},
		{ID: BadgePerfectRound, Title: "Perfect Round", Description: "Complete a game with no mistakes", Requirement: 1},
		{ID: BadgeComeback, Title: "Comeback King/Queen", Description: "Win after trailing by 6+ points", Requirement: 1},
		{ID: BadgePolyglot, Title: "Polyglot Beginner", Description: "Play in 3 different languages", Requirement: 3},
	}
}

// CheckBadgeProgress applies one answer to the per-answer badges.
// Unlocked badges never change again and unknown ids pass through untouched.
func CheckBadgeProgress(player domain.Player, correctIncrement, timeLeft int, badges []domain.Badge) []domain.Badge {
	updated := make([]domain.Badge, len(badges))
	copy(updated, badges)

	for i := range updated {
		b := &updated[i]
		if b.Unlocked {
			continue
		}
		switch b.ID {
		case BadgeWordWizard:
			if correctIncrement > 0 {
				advance(b, 1)
			}
		case BadgeSpeedster:
			if correctIncrement > 0 && timeLeft > SpeedsterMinLeft {
				advance(b, 1)
			}
		}
	}
	return updated
}

// GameSummary is what a single player achieved in a finished game.
type GameSummary struct {
	Player domain.Player
	Won    bool
	// Completed is false when the game was stopped before its last round.
	Completed bool
}

// CheckGameEndBadges evaluates the badges that can only be decided once a game is over.
func CheckGameEndBadges(summary GameSummary, badges []domain.Badge) []domain.Badge {
	updated := make([]domain.Badge, len(badges))
	copy(updated, badges)
	p := summary.Player

	for i := range updated {
		b := &updated[i]
		if b.Unlocked {
			continue
		}
		switch b.ID {
		case BadgePerfectRound:
			if summary.Completed && p.Answered > 0 && p.Mistakes == 0 {
				advance(b, 1)
			}
		case BadgeComeback:
			if summary.Won && p.MaxDeficit >= ComebackDeficit {
				advance(b, 1)
			}
		case BadgePolyglot:
			if n := len(p.LanguagesPlayed); n > b.Progress {
				advance(b, n-b.Progress)
			}
		}
	}
	return updated
}

func advance(b *domain.Badge, by int) {
	b.Progress += by
	if b.Progress >= b.Requirement {
		b.Unlocked = true
	}
}
