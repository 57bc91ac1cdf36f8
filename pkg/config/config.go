package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	AppEnv        string
	BaseURL       string
	PoolSize      int
	CacheBackend  string
	CacheTTL      time.Duration
	MemcacheAddrs []string
	ClickTimeout  time.Duration
	StatsSchedule string
}

// Load reads the environment once at process start.
func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		AppEnv:        getEnv("APP_ENV", "local"),
		BaseURL:       strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		PoolSize:      getEnvInt("PG_MAX_CLIENTS", 6),
		CacheBackend:  getEnv("CACHE_BACKEND", "none"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		MemcacheAddrs: splitList(getEnv("MEMCACHED_ADDR", "127.0.0.1:11211")),
		ClickTimeout:  getEnvDuration("CLICK_TIMEOUT", 5*time.Second),
		StatsSchedule: getEnv("STATS_SCHEDULE", "0 * * * * *"),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
		return d
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
