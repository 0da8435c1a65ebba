package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/pkg/apperror"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

type PageHandler struct {
	serveUseCase *profilepage.ServePageUseCase
	cacheControl string
	logger       logger.Logger
	now          func() time.Time
}

func NewPageHandler(uc *profilepage.ServePageUseCase, revalidate time.Duration, log logger.Logger) *PageHandler {
	seconds := int(revalidate / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return &PageHandler{
		serveUseCase: uc,
		cacheControl: fmt.Sprintf("s-maxage=%d, stale-while-revalidate", seconds),
		logger:       log,
		now:          time.Now,
	}
}

func (h *PageHandler) GetPage(c *gin.Context) {
	var uri UsernameURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.Error(apperror.NewInvalidInput("invalid username", err))
		return
	}

	out, err := h.serveUseCase.Execute(c.Request.Context(), profilepage.ServePageInput{Username: uri.Username})
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("X-Cache", string(out.Cache))
	switch {
	case out.Cache == profilepage.CacheFallback, out.Page.Status != http.StatusOK:
		c.Header("Cache-Control", "no-store")
	default:
		c.Header("Cache-Control", h.cacheControl)
		c.Header("Age", strconv.Itoa(out.Page.Age(h.now())))
	}

	c.Data(out.Page.Status, "text/html; charset=utf-8", out.Page.HTML)
}
