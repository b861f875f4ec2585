package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/openquest/zklogin/service"
)

// SetupRouter sets up the Gin router.
func SetupRouter(auth *service.AuthService, tx *service.TxService, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))

	handlers := NewHandlers(auth, tx)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login/begin", handlers.BeginLogin)
		authGroup.POST("/login/callback", handlers.CompleteLogin)
		authGroup.GET("/session", handlers.Session)
		authGroup.POST("/logout", handlers.Logout)
	}

	txGroup := router.Group("/tx")
	txGroup.Use(SessionRequired(auth))
	{
		txGroup.POST("/execute", handlers.Execute)
	}

	return router
}
