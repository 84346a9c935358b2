// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the order service configuration. Empty DatabaseURL, RedisAddr
// or KafkaBrokers disable the corresponding backend: the service falls back
// to the in-memory store, no cache and the no-op publisher.
type Config struct {
	HTTPPort      string
	GRPCPort      string
	DatabaseURL   string
	RedisAddr     string
	KafkaBrokers  []string
	KafkaTopic    string
	OrderCacheTTL time.Duration
}

// Load reads configuration from environment variables, honoring a .env file
// when one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8081"),
		GRPCPort:      getEnv("GRPC_PORT", "50051"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "order-events"),
		OrderCacheTTL: getDuration("ORDER_CACHE_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
