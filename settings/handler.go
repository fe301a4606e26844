package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("", h.GetHandler)
	group.PUT("", h.PutHandler)
	group.POST("/theme/toggle", h.ToggleThemeHandler)
}

func (h *Handler) GetHandler(ctx *gin.Context) {
	p, err := h.service.Load(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load preferences")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}
	ctx.JSON(http.StatusOK, p)
}

// PutHandler updates the fields present in the body. Omitted fields keep their stored value.
func (h *Handler) PutHandler(ctx *gin.Context) {
	p, err := h.service.Load(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load preferences")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}
	if err := ctx.ShouldBindJSON(&p); err != nil {
		ctx.String(http.StatusBadRequest, "bad-request-format")
		return
	}

	if err := h.service.Save(ctx.Request.Context(), p); err != nil {
		switch {
		case errors.Is(err, ErrInvalidTheme):
			ctx.String(http.StatusBadRequest, ErrInvalidTheme.Error())
		case errors.Is(err, domain.ErrInvalidRounds):
			ctx.String(http.StatusBadRequest, domain.ErrInvalidRounds.Error())
		default:
			log.Error().Err(err).Msg("failed to save preferences")
			ctx.String(http.StatusInternalServerError, "unknown-error")
		}
		return
	}
	ctx.JSON(http.StatusOK, p)
}

func (h *Handler) ToggleThemeHandler(ctx *gin.Context) {
	p, err := h.service.ToggleTheme(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to toggle theme")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}
	ctx.JSON(http.StatusOK, p)
}
