package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/config"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/crypto"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/game"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/highscores"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/logger"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/settings"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/storage"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/words"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		// non-browser clients send no Origin
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func loadBank(path string) ([]words.Word, error) {
	if path == "" {
		return words.DefaultBank()
	}
	return words.LoadFile(path)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Setup(false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Dependencies
	store, err := storage.NewByEngine(ctx, cfg.StoreEngine, storage.Options{
		SQLitePath:  cfg.SQLitePath,
		PostgresURL: cfg.PostgresURL,
	})
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.StoreEngine).Msg("cannot open store")
	}
	defer store.Close()

	bank, err := loadBank(cfg.WordBankPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load word bank")
	}
	log.Info().Int("words", len(bank)).Str("engine", cfg.StoreEngine).Msg("dependencies ready")

	settingsService := settings.NewService(store)
	recorder := highscores.NewRecorder(store)
	tokenManager := crypto.NewJWTManager(cfg.JWTKey, cfg.TokenAge)

	idGen := game.NewIdGen()
	tickerGen := game.NewTickerGen()

	newSession := func(id string, gameCfg game.Config) *game.Session {
		reducer := game.NewReducer(bank, words.NewGenerator(nil), cfg.TurnSeconds)
		return game.NewSession(id, reducer, game.NewScheduler(nil), recorder, game.SessionConfig{
			Game:           gameCfg,
			FeedbackDelay:  cfg.FeedbackDelay,
			FreezeDuration: cfg.FreezeDuration,
		})
	}

	lobby := game.NewLobby(idGen, &tickerGen, newSession, cfg.SessionTTL)
	lobbyStarted := make(chan struct{})
	go lobby.LobbyActor(lobbyStarted)
	<-lobbyStarted
	defer lobby.Stop()

	r := CreateServer(cfg.AllowedOrigins)

	game.NewGameHandler(lobby, tokenManager, settingsService, &tickerGen).Register(r.Group("/game"))
	r.GET("/highscores", highscores.NewHandler(recorder).ListHandler)
	settings.NewHandler(settingsService).Register(r.Group("/settings"))

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
