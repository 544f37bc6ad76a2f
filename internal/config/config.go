// Package config provides environment configuration for the messaging core.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Responder settings
	ResponderProvider string
	ResponderMinDelay time.Duration
	ResponderMaxDelay time.Duration
	OpenAIAPIKey      string

	// Presence storage
	PresenceDBPath string

	// Observability
	LogLevel        string
	MetricsAddr     string
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from the environment, after loading a local
// .env file when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Responder
		ResponderProvider: getEnv("RESPONDER_PROVIDER", "canned"),
		ResponderMinDelay: getDurationEnv("RESPONDER_MIN_DELAY", 1*time.Second),
		ResponderMaxDelay: getDurationEnv("RESPONDER_MAX_DELAY", 3*time.Second),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),

		// Presence
		PresenceDBPath: getEnv("PRESENCE_DB_PATH", "linkup.db"),

		// Observability
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MetricsAddr:     getEnv("METRICS_ADDR", ""),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
