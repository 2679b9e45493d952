// Package config provides environment-aware configuration management
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
)

// EnvFile is the dotenv file read at startup and rewritten by init.
const EnvFile = ".env"

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseURL string

	// Logging
	LogLevel  string
	LogFormat string

	// Web
	ListenAddr string
	// ServerSecret seals admin session cookies. Generated by init.
	ServerSecret string
}

// Load reads the environment, merging in EnvFile when present. Only
// DATABASE_URL is required; everything else has a default.
func Load() (*Config, error) {
	// A missing .env file is fine; the variables may be set directly.
	_ = godotenv.Load(EnvFile)

	cfg := &Config{
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		ListenAddr:   getEnv("LISTEN_ADDR", ":8420"),
		ServerSecret: strings.TrimSpace(os.Getenv("SERVER_SECRET")),
	}

	if cfg.DatabaseURL == "" {
		return nil, cerr.Misconfiguration("DATABASE_URL environment variable must be set; run init first")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// SetEnvVariable rewrites one variable in EnvFile, preserving every other
// line, creating the file if needed.
func SetEnvVariable(variable, value string) error {
	var lines []string
	replaced := false

	if raw, err := os.ReadFile(EnvFile); err == nil {
		for _, line := range strings.Split(strings.TrimRight(string(raw), "\n"), "\n") {
			if strings.HasPrefix(line, variable+"=") {
				lines = append(lines, fmt.Sprintf("%s=%s", variable, value))
				replaced = true
			} else {
				lines = append(lines, line)
			}
		}
	}

	if !replaced {
		lines = append(lines, fmt.Sprintf("%s=%s", variable, value))
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(EnvFile, []byte(content), 0o600); err != nil {
		return cerr.LibraryError("write "+EnvFile, err)
	}
	return nil
}
