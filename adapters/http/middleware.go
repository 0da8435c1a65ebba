package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-pages/pkg/apperror"
	"github.com/khoahotran/profile-pages/pkg/auth"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

const (
	GinContextKeyOperator = "operator"
)

// AuthMiddleware admits requests whose bearer token grants scope.
func AuthMiddleware(jwtSvc *auth.JWTService, scope string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.RequireScope(tokenString, scope)
		if err != nil {
			if errors.Is(err, auth.ErrMissingScope) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token does not grant " + scope})
				return
			}
			log.Warn("Rejected admin token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyOperator, claims.Subject)

		c.Next()
	}
}

func GetOperatorFromGinContext(c *gin.Context) (string, bool) {
	operator, ok := c.Get(GinContextKeyOperator)
	if !ok {
		return "", false
	}
	s, ok := operator.(string)
	return s, ok
}

// ErrorMiddleware writes the last error a handler pushed with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status := apperror.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, zap.String("method", c.Request.Method), zap.String("path", c.Request.URL.Path))
		} else {
			log.Debug("Request rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(status, apperror.ToJSON(err))
	}
}
