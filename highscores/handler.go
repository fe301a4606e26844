package highscores

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	recorder *Recorder
}

func NewHandler(recorder *Recorder) *Handler {
	return &Handler{recorder: recorder}
}

func (h *Handler) ListHandler(ctx *gin.Context) {
	entries, err := h.recorder.List(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load leaderboard")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}
	ctx.JSON(http.StatusOK, entries)
}
