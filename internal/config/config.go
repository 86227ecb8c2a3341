package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	DatabaseURL     string        // Empty selects the in-memory repository
	RedisURL        string        // Empty selects the in-memory cache
	CacheTTL        time.Duration // Default TTL for cached users
	CacheMaxEntries int           // Upper bound for the in-memory cache
	RateLimitRPS    float64       // Requests per second per client IP
	RateLimitBurst  int           // Burst size for rate limiting
	ShutdownTimeout time.Duration
	ConnectRetries  int // Attempts when connecting to Postgres or Redis at startup
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:            getEnv("PORT", "3000"),
		GinMode:         getEnv("GIN_MODE", "release"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 10000),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 20),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		ConnectRetries:  getEnvInt("CONNECT_RETRIES", 5),
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
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
