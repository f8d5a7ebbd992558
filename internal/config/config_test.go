package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturas/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "openai", cfg.OCR.Primary.Provider)
	assert.InDelta(t, 0.95, cfg.OCR.ConfidenceThreshold, 1e-9)
	assert.Equal(t, "spa", cfg.OCR.Language)
	assert.InDelta(t, 0.1, cfg.OCR.Temperature, 1e-9)
	assert.Equal(t, int64(10), cfg.OCR.MaxImageSizeMB)
	assert.Equal(t, "memory", cfg.Drafts.Store)
	assert.Equal(t, 24*time.Hour, cfg.Drafts.TTL)
	assert.Nil(t, cfg.OCR.SecondaryConfig())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FACTURAS_OCR_SECONDARY_PROVIDER", "google")
	t.Setenv("FACTURAS_OCR_SECONDARY_API_KEY", "g-key")
	t.Setenv("FACTURAS_DRAFTS_STORE", "redis")
	t.Setenv("FACTURAS_REDIS_ADDR", "cache:6379")
	t.Setenv("FACTURAS_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := config.Load()
	require.NoError(t, err)

	secondary := cfg.OCR.SecondaryConfig()
	require.NotNil(t, secondary)
	assert.Equal(t, "google", secondary.Provider)
	assert.Equal(t, "g-key", secondary.APIKey)
	assert.Equal(t, "redis", cfg.Drafts.Store)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FACTURAS_SERVER_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)
}

func TestLoad_UnknownDraftStore(t *testing.T) {
	t.Setenv("FACTURAS_DRAFTS_STORE", "disk")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", db.DSN())
}
