package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Catalog backend
	BackendURL     string
	BackendToken   string
	RequestTimeout time.Duration

	// Session behavior
	DebounceDelay time.Duration
	WorkspaceTTL  time.Duration

	// Command surface
	RateLimitPerMinute int
	FrontendURL        string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		BackendURL:         mustGetEnv("BACKEND_URL"),
		BackendToken:       getEnvOrDefault("BACKEND_TOKEN", ""),
		RequestTimeout:     time.Duration(getEnvAsIntOrDefault("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		DebounceDelay:      time.Duration(getEnvAsIntOrDefault("DEBOUNCE_MS", 500)) * time.Millisecond,
		WorkspaceTTL:       time.Duration(getEnvAsIntOrDefault("WORKSPACE_TTL_MINUTES", 30)) * time.Minute,
		RateLimitPerMinute: getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 120),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
