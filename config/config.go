package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr   string
	DatabasePath string
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to defaults.
func Load() Config {
	godotenv.Load()

	return Config{
		ListenAddr:   getenv("LISTEN_ADDR", ":3000"),
		DatabasePath: getenv("DATABASE_PATH", "database.db"),
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
