package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the server configuration, read from the environment with an
// optional .env file on top.
type Config struct {
	Port          string // HTTP listen port
	AllowedOrigin string // CORS origin; "*" in development
	ClientURL     string // base URL of the web client, used for join links
}

// Load reads a .env file when present and layers environment variables
// over the defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	return Config{
		Port:          getenv("PORT", "8080"),
		AllowedOrigin: getenv("ALLOWED_ORIGIN", "*"),
		ClientURL:     getenv("CLIENT_URL", "http://localhost:3000"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
