package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/openquest/zklogin/core"
	"github.com/openquest/zklogin/service"
)

// SessionRequired rejects requests arriving without an authenticated
// session.
func SessionRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.CurrentSession()
		if session == nil || !session.IsAuthenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": core.ErrNotAuthenticated.Error()})
			return
		}

		c.Set("address", session.Address)
		c.Next()
	}
}

// RequestLogger logs each request with method, path, status and latency.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
