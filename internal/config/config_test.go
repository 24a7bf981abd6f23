package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 150*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, int64(50<<20), cfg.Server.MaxUploadBytes())
	assert.Equal(t, "tesseract", cfg.OCR.Engine)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.InDelta(t, 0.1, cfg.Dispatch.Temperature, 1e-9)
	assert.Equal(t, 90*time.Second, cfg.Dispatch.Timeout())
	assert.Equal(t, 4000, cfg.Dispatch.MaxTokens)
	assert.False(t, cfg.Extraction.SkipEmptyText)
	assert.False(t, cfg.S3.Enabled())

	require.Len(t, cfg.Providers, 3)
	assert.Equal(t, "openai", cfg.Providers[0].ID)
	assert.Equal(t, "gpt-4o", cfg.Providers[0].Model)
	assert.Equal(t, "deepseek", cfg.Providers[1].ID)
	assert.Equal(t, "openai", cfg.Providers[1].Kind)
	assert.Equal(t, "deepseek/DeepSeek-V3-0324", cfg.Providers[1].Model)
	assert.Equal(t, "anthropic", cfg.Providers[2].ID)
	assert.Equal(t, "claude-3-5-sonnet-20240620", cfg.Providers[2].Model)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DOCEXTRACT_SERVER_MAX_UPLOAD_MB", "10")
	t.Setenv("DOCEXTRACT_CORS_ALLOWED_ORIGINS", "https://app.example.com, *")
	t.Setenv("DOCEXTRACT_EXTRACTION_SKIP_EMPTY_TEXT", "true")
	t.Setenv("DOCEXTRACT_OCR_ENGINE", "Azure")
	t.Setenv("DOCEXTRACT_PROVIDERS_ENABLED", "anthropic,gemini,mistral")
	t.Setenv("DOCEXTRACT_PROVIDERS_ANTHROPIC_MAX_RETRIES", "2")
	t.Setenv("DOCEXTRACT_PROVIDERS_GEMINI_API_KEY", "g-key")
	t.Setenv("DOCEXTRACT_PROVIDERS_MISTRAL_KIND", "openai")
	t.Setenv("DOCEXTRACT_PROVIDERS_MISTRAL_BASE_URL", "https://api.mistral.ai/v1")
	t.Setenv("DOCEXTRACT_S3_BUCKET", "invoices")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes())
	assert.Equal(t, []string{"https://app.example.com", "*"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Extraction.SkipEmptyText)
	assert.Equal(t, "azure", cfg.OCR.Engine)
	assert.True(t, cfg.S3.Enabled())

	require.Len(t, cfg.Providers, 3)
	assert.Equal(t, 2, cfg.Providers[0].MaxRetries)
	assert.Equal(t, "gemini", cfg.Providers[1].Kind)
	assert.Equal(t, "g-key", cfg.Providers[1].ResolvedAPIKey())
	assert.Equal(t, "openai", cfg.Providers[2].Kind)
	assert.Equal(t, "https://api.mistral.ai/v1", cfg.Providers[2].BaseURL)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)
}

func TestLoad_DuplicateProvider(t *testing.T) {
	t.Setenv("DOCEXTRACT_PROVIDERS_ENABLED", "openai,OpenAI")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestProviderConfig_ResolvedAPIKey(t *testing.T) {
	t.Setenv("TEST_PROVIDER_TOKEN", "from-env")

	assert.Equal(t, "explicit", (&config.ProviderConfig{APIKey: "explicit", APIKeyEnv: "TEST_PROVIDER_TOKEN"}).ResolvedAPIKey())
	assert.Equal(t, "from-env", (&config.ProviderConfig{APIKeyEnv: "TEST_PROVIDER_TOKEN"}).ResolvedAPIKey())
	assert.Empty(t, (&config.ProviderConfig{}).ResolvedAPIKey())
}
