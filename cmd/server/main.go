package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/werewolf-game/server/internal/config"
	"github.com/werewolf-game/server/internal/game"
	"github.com/werewolf-game/server/internal/handlers"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg := config.Load()

	hub := handlers.NewHub()
	gameManager := game.NewGameManager(hub)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if cfg.AllowedOrigin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.AllowedOrigin}
	}
	corsConfig.AllowCredentials = cfg.AllowedOrigin != "*"
	router.Use(cors.New(corsConfig))

	// Read-only REST surface; the game itself is played over /ws
	api := router.Group("/api")
	{
		api.GET("/rooms/:code", handlers.GetRoom(gameManager))
		api.GET("/rooms/:code/qr", handlers.RoomQR(gameManager, cfg.ClientURL))
	}

	router.GET("/ws", handlers.HandleWebSocket(hub, gameManager))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Info().Str("port", cfg.Port).Msg("werewolf game server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
