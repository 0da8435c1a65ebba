package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/profile-pages/internal/application/usecase/profilepage"
	"github.com/khoahotran/profile-pages/pkg/apperror"
)

// BookingHandler exposes the upstream query the profile page is built from.
type BookingHandler struct {
	fetcher *profilepage.Fetcher
}

func NewBookingHandler(fetcher *profilepage.Fetcher) *BookingHandler {
	return &BookingHandler{fetcher: fetcher}
}

func (h *BookingHandler) GetUserAndEventTypes(c *gin.Context) {
	var uri UsernameURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.Error(apperror.NewInvalidInput("invalid username", err))
		return
	}

	res := h.fetcher.Fetch(c.Request.Context(), uri.Username)
	if res.IsError() {
		c.Error(apperror.NewInternal("failed to load user and event types", res.Err))
		return
	}
	if res.Data == nil || res.Data.User == nil {
		c.Error(apperror.NewNotFound("user", uri.Username))
		return
	}

	c.JSON(http.StatusOK, ToUserAndEventTypesDTO(res.Data))
}
