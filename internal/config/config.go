package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	MinSessionSeconds = 1
	MaxSessionSeconds = 600
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	SessionSeconds     int
	PersistWorkerCount int
	PersistQueueSize   int
	LeaderboardLimit   int
	// SessionRetention is how long a finished session stays readable by handle.
	SessionRetention time.Duration
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or malformed.
func Load() Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:kukudrill.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		SessionSeconds:     envIntOr("SESSION_SECONDS", 40),
		PersistWorkerCount: envIntOr("PERSIST_WORKER_COUNT", 2),
		PersistQueueSize:   envIntOr("PERSIST_QUEUE_SIZE", 256),
		LeaderboardLimit:   envIntOr("LEADERBOARD_LIMIT", 50),
		SessionRetention:   envDurationOr("SESSION_RETENTION", 10*time.Minute),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.SessionSeconds < MinSessionSeconds || c.SessionSeconds > MaxSessionSeconds {
		errs = append(errs, fmt.Errorf("SESSION_SECONDS must be between %d and %d (got %d)",
			MinSessionSeconds, MaxSessionSeconds, c.SessionSeconds))
	}
	if c.PersistWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("PERSIST_WORKER_COUNT must be at least 1 (got %d)", c.PersistWorkerCount))
	}
	if c.PersistQueueSize < 1 {
		errs = append(errs, fmt.Errorf("PERSIST_QUEUE_SIZE must be at least 1 (got %d)", c.PersistQueueSize))
	}
	if c.LeaderboardLimit < 1 {
		errs = append(errs, fmt.Errorf("LEADERBOARD_LIMIT must be at least 1 (got %d)", c.LeaderboardLimit))
	}
	if c.SessionRetention < 0 {
		errs = append(errs, fmt.Errorf("SESSION_RETENTION cannot be negative (got %s)", c.SessionRetention))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
