package config

import (
	"fmt"
	"os"
	"time"

	"huludl/models"

	"github.com/joho/godotenv"
)

var Env = GetDefaultConfig()

// LoadEnv reads .env (if present) and the process environment into Env.
// It runs before the logger is set up, so it does not log.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	if value := os.Getenv("HULU_CONFIG"); value != "" {
		Env.ConfigPath = value
	}
	if value := os.Getenv("COOKIES_FILE"); value != "" {
		Env.CookiesFile = value
	}
	if value := os.Getenv("HTTP_PROXY"); value != "" {
		Env.HTTPProxy = value
	}
	if value := os.Getenv("HTTPS_PROXY"); value != "" {
		Env.HTTPSProxy = value
	}
	if value := os.Getenv("NO_PROXY"); value != "" {
		Env.NoProxy = value
	}
	if value := os.Getenv("HTTP_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("HTTP_TIMEOUT env is not a valid duration: %w", err)
		}
		Env.HTTPTimeout = timeout
	}
	if value := os.Getenv("LOG_LEVEL"); value != "" {
		Env.LogLevel = value
	}
	return nil
}

func GetDefaultConfig() *models.EnvConfig {
	return &models.EnvConfig{
		ConfigPath: "hulu.yaml",
		LogLevel:   "info",
	}
}
