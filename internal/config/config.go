package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Remote LAMF services. Collateral endpoints live behind their own
	// base URL and are configured independently of the core service.
	LAMFAPIURL       string
	CollateralAPIURL string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Sessions (flash messages and active view filters)
	SessionTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Operator login. Empty AdminPasswordHash leaves the console open.
	AdminUser         string
	AdminPasswordHash string
	JWTSecret         string
	JWTSessionTTL     time.Duration
	CookieSecure      bool
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LAMFAPIURL:       getEnv("LAMF_API_URL", "http://localhost:5000"),
		CollateralAPIURL: getEnv("COLLATERAL_API_URL", "http://localhost:5000"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 15*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 2),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 32),

		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         getEnv("JWT_SECRET", "lamf-default-dev-secret-change-me"),
		JWTSessionTTL:     getEnvDuration("JWT_SESSION_TTL", 8*time.Hour),
		CookieSecure:      getEnv("COOKIE_SECURE", "false") == "true",
	}
}

// AuthEnabled reports whether operator login is required.
func (c *Config) AuthEnabled() bool {
	return c.AdminPasswordHash != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
