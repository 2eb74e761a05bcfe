package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	ListenAddr  string
	DatabaseURL string
	LogLevel    string
	SeedDemo    bool

	RatingProviderURL   string
	RatingProviderToken string
	MockMinLatency      time.Duration
	MockMaxLatency      time.Duration
	MockFailureRate     float64

	RatingWorkers         int
	RatingRefreshInterval time.Duration
	RatingMaxAge          time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads .env (if present) and the environment. An empty DATABASE_URL
// selects the in-memory store.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Env:                   getenv("APP_ENV", "development"),
		ListenAddr:            getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		LogLevel:              getenv("LOG_LEVEL", "info"),
		SeedDemo:              getenvBool("SEED_DEMO_DATA", false),
		RatingProviderURL:     os.Getenv("RATING_PROVIDER_URL"),
		RatingProviderToken:   os.Getenv("RATING_PROVIDER_TOKEN"),
		MockMinLatency:        getenvDuration("RATING_MOCK_MIN_LATENCY", time.Second),
		MockMaxLatency:        getenvDuration("RATING_MOCK_MAX_LATENCY", 2*time.Second),
		MockFailureRate:       getenvFloat("RATING_MOCK_FAILURE_RATE", 0.1),
		RatingWorkers:         getenvInt("RATING_WORKERS", 0),
		RatingRefreshInterval: getenvDuration("RATING_REFRESH_INTERVAL", time.Hour),
		RatingMaxAge:          getenvDuration("RATING_MAX_AGE", 7*24*time.Hour),
	}
	if cfg.MockFailureRate < 0 || cfg.MockFailureRate > 1 {
		return cfg, fmt.Errorf("RATING_MOCK_FAILURE_RATE must be within [0,1], got %v", cfg.MockFailureRate)
	}
	if cfg.MockMaxLatency < cfg.MockMinLatency {
		return cfg, fmt.Errorf("RATING_MOCK_MAX_LATENCY (%s) is below RATING_MOCK_MIN_LATENCY (%s)", cfg.MockMaxLatency, cfg.MockMinLatency)
	}
	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(v); err == nil {
			return out
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.ParseFloat(v, 64); err == nil {
			return out
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.ParseBool(v); err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if out, err := time.ParseDuration(v); err == nil {
			return out
		}
	}
	return def
}
