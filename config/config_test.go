package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "DATABASE_URL", "ECI_API_ENDPOINT", "ECI_API_KEY", "ECI_API_NAMESPACE",
		"DEFAULT_BRANCH", "JWT_SECRET", "GEMINI_API_KEY", "GEMINI_MODEL", "LOG_LEVEL", "ENVIRONMENT",
		"REPORT_TIMEZONE", "LOW_INVENTORY_THRESHOLD", "COLLECTION_SCHEDULE", "CACHE_SUMMARY_TTL", "CACHE_BRAND_TTL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, "sqlite://salesdash.db", cfg.DatabaseURL)
	assert.Equal(t, "http://tempuri.org/", cfg.ECINamespace)
	assert.Equal(t, "MAIN", cfg.Branch)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GeminiModel)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 10.0, cfg.LowInventoryThreshold)
	assert.Equal(t, "0 2 * * *", cfg.CollectionSchedule)
	assert.Equal(t, 5*time.Minute, cfg.SummaryCacheTTL)
	assert.Equal(t, time.Hour, cfg.BrandCacheTTL)
	assert.False(t, cfg.ECIConfigured())
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/sales")
	t.Setenv("ECI_API_ENDPOINT", "https://eci.example.com/api.asmx")
	t.Setenv("ECI_API_KEY", "key")
	t.Setenv("LOW_INVENTORY_THRESHOLD", "25")
	t.Setenv("CACHE_SUMMARY_TTL", "30s")

	cfg := Load()

	assert.Equal(t, "postgres://localhost/sales", cfg.DatabaseURL)
	assert.Equal(t, 25.0, cfg.LowInventoryThreshold)
	assert.Equal(t, 30*time.Second, cfg.SummaryCacheTTL)
	assert.True(t, cfg.ECIConfigured())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("LOW_INVENTORY_THRESHOLD", "lots")
	t.Setenv("CACHE_BRAND_TTL", "-1h")
	t.Setenv("REPORT_TIMEZONE", "Mars/Olympus")

	cfg := Load()

	assert.Equal(t, 10.0, cfg.LowInventoryThreshold)
	assert.Equal(t, time.Hour, cfg.BrandCacheTTL)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Len(t, cfg.Warnings, 3)
}
