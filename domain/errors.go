package domain

import "errors"

// Game errors
var (
	ErrPlayerNotFound     = errors.New("player-not-found")
	ErrNotPlayersTurn     = errors.New("not-players-turn")
	ErrPowerUpUnavailable = errors.New("power-up-unavailable")
	ErrUnknownPowerUp     = errors.New("unknown-power-up")
	ErrNoActiveRound      = errors.New("no-active-round")
	ErrGameInProgress     = errors.New("game-in-progress")
	ErrInvalidRounds      = errors.New("invalid-rounds")
	ErrInvalidGameMode    = errors.New("invalid-game-mode")
	ErrInvalidLanguage    = errors.New("invalid-language")
	ErrInvalidPlayerName  = errors.New("invalid-player-name")
	ErrUnknownAction      = errors.New("unknown-action")
)

// ErrGenerationFailed means the word bank cannot produce a valid question.
// It is the only error that signals corrupt input data rather than a rejected action.
var ErrGenerationFailed = errors.New("question-generation-failed")

// Session errors
var (
	ErrSessionNotFound = errors.New("session-not-found")
	ErrSessionClosed   = errors.New("session-closed")
	ErrRateLimited     = errors.New("rate-limited")
)

var (
	UnexpectedDatabaseError = errors.New("unexpected-database-error")
	ErrUnsupportedEngine    = errors.New("unsupported-store-engine")
)

// Token errors
var (
	ErrInvalidSigningAlg             = errors.New("invalid-signing-alg")
	ErrExpiredToken                  = errors.New("expired-token")
	ErrInvalidTokenSignature         = errors.New("invalid-token-signature")
	ErrCorruptedToken                = errors.New("corrupted-token")
	UnexpectedTokenGenerationError   = errors.New("unexpected-token-generation-error")
	UnexpectedTokenVerificationError = errors.New("unexpected-token-verification-error")
)
