package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/profile-pages/pkg/auth"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

type Handlers struct {
	Page       *PageHandler
	Booking    *BookingHandler
	RSS        *RSSHandler
	Revalidate *RevalidateHandler
}

// NewRouter mounts the public pages at the root and the JSON API under /api.
func NewRouter(h Handlers, jwtSvc *auth.JWTService, log logger.Logger, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	router.Use(ErrorMiddleware(log))

	api := router.Group("/api")
	{
		admin := api.Group("/admin")
		admin.Use(AuthMiddleware(jwtSvc, auth.ScopeRevalidate, log))
		{
			admin.POST("/revalidate/:username", h.Revalidate.Revalidate)
		}

		public := api.Group("/")
		{
			public.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
			public.GET("/booking/user-and-event-types/:username", h.Booking.GetUserAndEventTypes)
		}
	}

	router.GET("/:username", h.Page.GetPage)
	router.GET("/:username/feed.rss", h.RSS.GenerateRSS)

	return router
}
