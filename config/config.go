package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig is everything main needs to wire the service, read from env.
type AppConfig struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	DB DBConfig

	SessionStore  string // "db" or "redis"
	SessionTTL    time.Duration
	SessionPrefix string

	EventsEnabled bool
	RabbitMQURL   string

	LogLevel  string
	LogFormat string
}

func Load() AppConfig {
	return AppConfig{
		Port:        envOrDefault("PORT", "8080"),
		GinMode:     envOrDefault("GIN_MODE", "release"),
		CORSOrigins: parseCorsOrigins(os.Getenv("CORS_ORIGINS")),

		DB: LoadDBConfig(),

		SessionStore:  strings.ToLower(envOrDefault("SESSION_STORE", "db")),
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),
		SessionPrefix: envOrDefault("SESSION_PREFIX", "booking_session"),

		EventsEnabled: envBool("EVENTS_ENABLED", false),
		RabbitMQURL:   firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),
	}
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
