package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration. Values come from the
// environment so main stays lean.
type Config struct {
	Addr string

	// CompaniesHouse holds upstream registry API settings.
	CompaniesHouse CompaniesHouseConfig

	// Redis backs the durable cache tier and the request rate limiter.
	// An empty URL disables both; memory fallbacks are used.
	Redis RedisConfig

	// PostgresURL backs snapshots, presets and stats. Empty disables
	// persistence and in-memory stores are used instead.
	PostgresURL string

	// KafkaBrokers receive search audit events. Empty disables publishing.
	KafkaBrokers []string
	KafkaTopic   string

	RateLimit RateLimitConfig
}

// CompaniesHouseConfig configures the upstream registry client.
type CompaniesHouseConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// RedisConfig mirrors the connection knobs we actually tune.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RateLimitConfig bounds client request rates on the /api surface.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("CHSEARCH_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	baseURL := os.Getenv("CH_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.company-information.service.gov.uk"
	}

	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "chsearch.search-events"
	}

	return Config{
		Addr: addr,
		CompaniesHouse: CompaniesHouseConfig{
			BaseURL: baseURL,
			APIKey:  os.Getenv("CH_API_KEY"),
			Timeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		PostgresURL:  os.Getenv("DATABASE_URL"),
		KafkaBrokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   topic,
		RateLimit: RateLimitConfig{
			Requests: envInt("RATE_LIMIT_MAX_REQUESTS", 100),
			Window:   time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func splitNonEmpty(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
