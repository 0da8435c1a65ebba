package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/pkg/apperror"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

type RevalidateHandler struct {
	requestUseCase *profilepage.RequestRevalidationUseCase
	logger         logger.Logger
}

func NewRevalidateHandler(uc *profilepage.RequestRevalidationUseCase, log logger.Logger) *RevalidateHandler {
	return &RevalidateHandler{requestUseCase: uc, logger: log}
}

func (h *RevalidateHandler) Revalidate(c *gin.Context) {
	var uri UsernameURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.Error(apperror.NewInvalidInput("invalid username", err))
		return
	}

	out, err := h.requestUseCase.Execute(c.Request.Context(), uri.Username)
	if err != nil {
		c.Error(err)
		return
	}

	operator, _ := GetOperatorFromGinContext(c)
	h.logger.Info("Revalidation requested",
		zap.String("username", uri.Username),
		zap.String("operator", operator),
		zap.Bool("queued", out.Queued),
	)

	c.JSON(http.StatusAccepted, RevalidateResponse{Username: uri.Username, Queued: out.Queued})
}
