package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	APIBaseURL     string        // Root of the MeetYou REST API, e.g. http://localhost:8080/api
	APITimeout     time.Duration // Per-request limit for calls to the API
	DatabasePath   string
	RosterSyncSpec string // Cron spec for refreshing the cached user list
	NoticeSecret   string // HMAC key for notice cookies
	AllowedOrigins []string
	LogLevel       string
	Production     bool
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "3000"))
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(getEnv("API_TIMEOUT", "10s"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:     port,
		APIBaseURL:     strings.TrimRight(getEnv("MEETYOU_API_URL", "http://localhost:8080/api"), "/"),
		APITimeout:     timeout,
		DatabasePath:   getEnv("DATABASE_PATH", "./meetyou-web.db"),
		RosterSyncSpec: getEnv("ROSTER_SYNC_SPEC", "@every 1m"),
		NoticeSecret:   getEnv("NOTICE_SECRET", uuid.New().String()),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Production:     getEnv("APP_ENV", "") == "production",
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
