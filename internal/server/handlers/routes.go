package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the REST API used by the terminal client and the web app.
func NewRouter(store Store, authHandler *AuthHandler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := router.Group("/api/auth")
	authRoutes.POST("/register/", authHandler.Register)
	authRoutes.POST("/login/", authHandler.Login)
	authRoutes.GET("/me/", authHandler.RequireAuth(), authHandler.Me)

	messages := NewMessageHandler(store)
	messageRoutes := router.Group("/api/messages", authHandler.RequireAuth())
	messageRoutes.GET("/", messages.List)
	messageRoutes.GET("/conversation/:userId/", messages.Conversation)
	messageRoutes.POST("/create/", messages.Create)

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}
