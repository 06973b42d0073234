package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/joy095/salon/logger"
)

// LoadEnv loads variables from a .env file when one is present. Deployed
// environments provide real env vars, so a missing file is not an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if logger.InfoLogger != nil {
			logger.InfoLogger.Info("No .env file found, using environment variables")
		}
	}
}

// Getenv returns the value of key or def when unset/empty.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
