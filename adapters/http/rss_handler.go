package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/pkg/apperror"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

type RSSHandler struct {
	feedUseCase *profilepage.FeedUseCase
	logger      logger.Logger
}

func NewRSSHandler(uc *profilepage.FeedUseCase, log logger.Logger) *RSSHandler {
	return &RSSHandler{
		feedUseCase: uc,
		logger:      log,
	}
}

func (h *RSSHandler) GenerateRSS(c *gin.Context) {
	var uri UsernameURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.Error(apperror.NewInvalidInput("invalid username", err))
		return
	}

	feed, err := h.feedUseCase.Execute(c.Request.Context(), uri.Username)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")

	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err, zap.String("username", uri.Username))
	}
}
