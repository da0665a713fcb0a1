package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        int
	DatabaseURL string
	NatsURL     string
	NatsToken   string
	LogLevel    string
	APIToken    string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	CompletionMaxRetries int
	CompletionRetryDelay time.Duration

	ContentCacheSize int
	FetchTimeout     time.Duration
}

func Load() Config {
	return Config{
		Port:        envInt("KNOWJI_PORT", 8780),
		DatabaseURL: envStr("DATABASE_URL", ""),
		NatsURL:     envStr("NATS_URL", "nats://localhost:4222"),
		NatsToken:   envStr("NATS_TOKEN", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		APIToken:    envStr("KNOWJI_API_TOKEN", ""),

		GeminiAPIKey:  envStr("GEMINI_API_KEY", ""),
		GeminiModel:   envStr("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: envStr("GEMINI_BASE_URL", ""),
		GeminiTimeout: envDuration("GEMINI_TIMEOUT", 120*time.Second),

		CompletionMaxRetries: envInt("COMPLETION_MAX_RETRIES", 3),
		CompletionRetryDelay: envDuration("COMPLETION_RETRY_DELAY", time.Second),

		ContentCacheSize: envInt("CONTENT_CACHE_SIZE", 128),
		FetchTimeout:     envDuration("FETCH_TIMEOUT", 30*time.Second),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
