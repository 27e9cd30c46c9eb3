package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseDSN      string
	JWTSecret        string
	GraphBaseURL     string
	GraphAccessToken string

	CacheTimeout     time.Duration
	InitialWeeks     int
	MaxWeeks         int
	BackfillDelay    time.Duration
	NotifyEveryWeeks int
	PageSize         int
	BatchSize        int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseDSN:      getEnv("DATABASE_DSN", ""),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		GraphBaseURL:     getEnv("GRAPH_BASE_URL", ""),
		GraphAccessToken: getEnv("GRAPH_ACCESS_TOKEN", ""),
		CacheTimeout:     getEnvDuration("CACHE_TIMEOUT", 30*time.Minute),
		InitialWeeks:     getEnvInt("INITIAL_WEEKS", 2),
		MaxWeeks:         getEnvInt("MAX_WEEKS", 26),
		BackfillDelay:    getEnvDuration("BACKFILL_DELAY", 500*time.Millisecond),
		NotifyEveryWeeks: getEnvInt("NOTIFY_EVERY_WEEKS", 3),
		PageSize:         getEnvInt("PAGE_SIZE", 200),
		BatchSize:        getEnvInt("BATCH_SIZE", 50),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
