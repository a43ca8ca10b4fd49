package utils

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadEnv loads a .env file from the working directory if one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, continuing")
	}
}

// GetDatabaseURL prefers the DATABASE_URL environment variable over the
// database_url key of the config file.
func GetDatabaseURL() (string, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = viper.GetString("database_url")
	}
	if url == "" {
		return "", fmt.Errorf("DATABASE_URL not set (in .env, environment or config file)")
	}
	return url, nil
}
