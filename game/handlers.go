package game

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
)

var (
	ErrMissingTokenStr         = "missing-token"
	ErrExpiredTokenStr         = "expired-token"
	ErrInvalidTokenStr         = "invalid-token"
	ErrForbiddenSessionStr     = "forbidden-session"
	ErrInvalidRequestFormatStr = "bad-request-format"
	ErrServerTimeoutStr        = "server-timeout"
	ErrUnknownStr              = "unknown-error"
)

type TokenManager interface {
	Generate(id string, now time.Time) (string, error)
	Verify(token string) (string, error)
}

// RoundsPreference is where the configured round count survives between sessions.
type RoundsPreference interface {
	LoadRounds(ctx context.Context) (int, error)
	SaveRounds(ctx context.Context, rounds int) error
}

type GameHandler struct {
	lobby         *Lobby
	tokens        TokenManager
	rounds        RoundsPreference
	tickerCreator PeriodicTickerChannelCreator
	upgrader      websocket.Upgrader
}

func NewGameHandler(lobby *Lobby, tokens TokenManager, rounds RoundsPreference, tickerCreator PeriodicTickerChannelCreator) *GameHandler {
	return &GameHandler{
		lobby:         lobby,
		tokens:        tokens,
		rounds:        rounds,
		tickerCreator: tickerCreator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are already filtered by the server middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Register mounts every session route on group.
func (h *GameHandler) Register(group *gin.RouterGroup) {
	group.POST("/sessions", h.CreateSessionHandler)

	s := group.Group("/sessions/:id", h.RequireSessionTokenMiddleware())
	s.GET("", h.SnapshotHandler)
	s.GET("/ws", h.StreamHandler)
	s.POST("/start", h.actionHandler(func(*gin.Context) (Action, bool) { return StartGame{}, true }))
	s.POST("/end", h.actionHandler(func(*gin.Context) (Action, bool) { return EndGame{}, true }))
	s.POST("/reset", h.actionHandler(func(*gin.Context) (Action, bool) { return ResetGame{}, true }))
	s.POST("/timeout", h.actionHandler(func(*gin.Context) (Action, bool) { return TimerTimeout{}, true }))
	s.POST("/feedback/hide", h.actionHandler(func(*gin.Context) (Action, bool) { return HideFeedback{}, true }))
	s.POST("/answer", h.actionHandler(bindAnswer))
	s.POST("/powerups", h.actionHandler(bindPowerUp))
	s.POST("/language", h.actionHandler(bindLanguage))
	s.POST("/name", h.actionHandler(bindName))
	s.POST("/mode", h.actionHandler(bindMode))
	s.POST("/rounds", h.RoundsHandler)
}

func (h *GameHandler) RequireSessionTokenMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.Query("token")
		if bearer, ok := strings.CutPrefix(ctx.GetHeader("Authorization"), "Bearer "); ok {
			token = bearer
		}
		if token == "" {
			ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
			ctx.Abort()
			return
		}

		id, err := h.tokens.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrExpiredToken):
				ctx.String(http.StatusUnauthorized, ErrExpiredTokenStr)
			case errors.Is(err, domain.ErrInvalidSigningAlg), errors.Is(err, domain.ErrInvalidTokenSignature), errors.Is(err, domain.ErrCorruptedToken):
				ctx.String(http.StatusUnauthorized, ErrInvalidTokenStr)
			default:
				log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("token verification failed")
				ctx.String(http.StatusInternalServerError, ErrUnknownStr)
			}
			ctx.Abort()
			return
		}

		if id != ctx.Param("id") {
			ctx.String(http.StatusForbidden, ErrForbiddenSessionStr)
			ctx.Abort()
			return
		}

		session, err := h.lobby.Get(ctx.Request.Context(), id)
		if err != nil {
			writeError(ctx, err)
			ctx.Abort()
			return
		}

		ctx.Set("session", session)
		ctx.Next()
	}
}

func (h *GameHandler) CreateSessionHandler(ctx *gin.Context) {
	var body struct {
		Mode GameMode `json:"mode"`
	}
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
			return
		}
	}
	if body.Mode != "" && body.Mode != OnePlayer && body.Mode != TwoPlayer {
		writeError(ctx, domain.ErrInvalidGameMode)
		return
	}

	reqCtx := ctx.Request.Context()
	cfg := Config{Mode: body.Mode}
	if h.rounds != nil {
		rounds, err := h.rounds.LoadRounds(reqCtx)
		if err != nil {
			log.Warn().Err(err).Msg("using default round count")
		}
		cfg.TotalRounds = rounds
	}

	session, err := h.lobby.Create(reqCtx, cfg)
	if err != nil {
		writeError(ctx, err)
		return
	}

	token, err := h.tokens.Generate(session.ID(), time.Now())
	if err != nil {
		h.lobby.Remove(session.ID())
		writeError(ctx, err)
		return
	}

	snap, err := session.Snapshot(reqCtx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": session.ID(), "token": token, "state": snap})
}

func (h *GameHandler) SnapshotHandler(ctx *gin.Context) {
	snap, err := sessionFrom(ctx).Snapshot(ctx.Request.Context())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (h *GameHandler) RoundsHandler(ctx *gin.Context) {
	var body struct {
		Rounds int `json:"rounds"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		return
	}

	reqCtx := ctx.Request.Context()
	snap, err := sessionFrom(ctx).Dispatch(reqCtx, SetConfigurableTotalRounds{Rounds: body.Rounds})
	if err != nil {
		writeError(ctx, err)
		return
	}

	if h.rounds != nil {
		if err := h.rounds.SaveRounds(reqCtx, body.Rounds); err != nil {
			log.Error().Err(err).Int("rounds", body.Rounds).Msg("failed to persist round count")
		}
	}
	ctx.JSON(http.StatusOK, snap)
}

func (h *GameHandler) StreamHandler(ctx *gin.Context) {
	session := sessionFrom(ctx)

	updates, cancel, err := session.Subscribe(ctx.Request.Context())
	if err != nil {
		writeError(ctx, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("session", session.ID()).Msg("websocket upgrade failed")
		return
	}

	pings, stopPings := h.tickerCreator.Create(pingInterval)
	defer stopPings()

	streamSnapshots(ctx.Request.Context(), NewWebsocketConnection(conn), updates, pings)
}

func (h *GameHandler) actionHandler(bind func(*gin.Context) (Action, bool)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		action, ok := bind(ctx)
		if !ok {
			ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
			return
		}

		snap, err := sessionFrom(ctx).Dispatch(ctx.Request.Context(), action)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, snap)
	}
}

func bindAnswer(ctx *gin.Context) (Action, bool) {
	var body struct {
		Option string `json:"option" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, false
	}
	return SelectAnswer{Option: body.Option}, true
}

func bindPowerUp(ctx *gin.Context) (Action, bool) {
	var body struct {
		PlayerID int                `json:"playerId" binding:"required"`
		Type     domain.PowerUpType `json:"type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, false
	}
	return UsePowerUp{PlayerID: body.PlayerID, Type: body.Type}, true
}

func bindLanguage(ctx *gin.Context) (Action, bool) {
	var body struct {
		PlayerID int             `json:"playerId" binding:"required"`
		Language domain.Language `json:"language" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, false
	}
	return SetPlayerLanguage{PlayerID: body.PlayerID, Language: body.Language}, true
}

func bindName(ctx *gin.Context) (Action, bool) {
	var body struct {
		PlayerID int    `json:"playerId" binding:"required"`
		Name     string `json:"name"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, false
	}
	return SetPlayerName{PlayerID: body.PlayerID, Name: body.Name}, true
}

func bindMode(ctx *gin.Context) (Action, bool) {
	var body struct {
		Mode GameMode `json:"mode" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, false
	}
	return SetGameMode{Mode: body.Mode}, true
}

func sessionFrom(ctx *gin.Context) *Session {
	return ctx.MustGet("session").(*Session)
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrSessionNotFound, http.StatusNotFound},
	{domain.ErrPlayerNotFound, http.StatusNotFound},
	{domain.ErrSessionClosed, http.StatusGone},
	{domain.ErrRateLimited, http.StatusTooManyRequests},
	{domain.ErrNotPlayersTurn, http.StatusConflict},
	{domain.ErrPowerUpUnavailable, http.StatusConflict},
	{domain.ErrNoActiveRound, http.StatusConflict},
	{domain.ErrGameInProgress, http.StatusConflict},
	{domain.ErrUnknownPowerUp, http.StatusBadRequest},
	{domain.ErrInvalidRounds, http.StatusBadRequest},
	{domain.ErrInvalidGameMode, http.StatusBadRequest},
	{domain.ErrInvalidLanguage, http.StatusBadRequest},
	{domain.ErrInvalidPlayerName, http.StatusBadRequest},
	{domain.ErrUnknownAction, http.StatusBadRequest},
	{domain.ErrGenerationFailed, http.StatusInternalServerError},
}

func writeError(ctx *gin.Context, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			ctx.String(e.status, e.err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)
	case errors.Is(err, context.Canceled):
		ctx.Status(499)
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("unexpected error")
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
	}
}
