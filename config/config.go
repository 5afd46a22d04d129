package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr        = ":3000"
	defaultDatabaseURL     = "sqlite://salesdash.db"
	defaultECINamespace    = "http://tempuri.org/"
	defaultBranch          = "MAIN"
	defaultGeminiModel     = "gemini-2.5-flash-lite"
	defaultLogLevel        = "info"
	defaultEnvironment     = "development"
	defaultTimezone        = "UTC"
	defaultLowInventory    = 10
	defaultSchedule        = "0 2 * * *"
	defaultSummaryCacheTTL = 5 * time.Minute
	defaultBrandCacheTTL   = time.Hour
)

// Config holds application configuration values.
type Config struct {
	HTTPAddr    string
	DatabaseURL string

	ECIEndpoint  string
	ECIAPIKey    string
	ECINamespace string
	Branch       string

	JWTSecret    string
	GeminiAPIKey string
	GeminiModel  string

	LogLevel    string
	Environment string

	Location              *time.Location
	LowInventoryThreshold float64
	CollectionSchedule    string
	SummaryCacheTTL       time.Duration
	BrandCacheTTL         time.Duration

	// Warnings lists values that were rejected in favor of a default. They are
	// reported once the logger exists.
	Warnings []string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	cfg := Config{
		HTTPAddr:           getEnv("HTTP_ADDR", defaultHTTPAddr),
		DatabaseURL:        getEnv("DATABASE_URL", defaultDatabaseURL),
		ECIEndpoint:        os.Getenv("ECI_API_ENDPOINT"),
		ECIAPIKey:          os.Getenv("ECI_API_KEY"),
		ECINamespace:       getEnv("ECI_API_NAMESPACE", defaultECINamespace),
		Branch:             getEnv("DEFAULT_BRANCH", defaultBranch),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", defaultGeminiModel),
		LogLevel:           getEnv("LOG_LEVEL", defaultLogLevel),
		Environment:        getEnv("ENVIRONMENT", defaultEnvironment),
		CollectionSchedule: getEnv("COLLECTION_SCHEDULE", defaultSchedule),
	}

	tz := getEnv("REPORT_TIMEZONE", defaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		cfg.warn("invalid REPORT_TIMEZONE value %q, defaulting to %s", tz, defaultTimezone)
		loc = time.UTC
	}
	cfg.Location = loc

	cfg.LowInventoryThreshold = cfg.float("LOW_INVENTORY_THRESHOLD", defaultLowInventory)
	cfg.SummaryCacheTTL = cfg.duration("CACHE_SUMMARY_TTL", defaultSummaryCacheTTL)
	cfg.BrandCacheTTL = cfg.duration("CACHE_BRAND_TTL", defaultBrandCacheTTL)

	return cfg
}

// ECIConfigured reports whether the vendor API can be called.
func (c Config) ECIConfigured() bool {
	return c.ECIEndpoint != "" && c.ECIAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Config) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func (c *Config) float(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		c.warn("invalid %s value %q, defaulting to %g", key, raw, fallback)
		return fallback
	}
	return v
}

func (c *Config) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		c.warn("invalid %s value %q, defaulting to %s", key, raw, fallback)
		return fallback
	}
	return v
}
