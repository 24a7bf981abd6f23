package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Extraction ExtractionConfig
	OCR        OCRConfig
	Dispatch   DispatchConfig
	Providers  []ProviderConfig
	S3         S3Config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (s *ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB * 1024 * 1024
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractionConfig controls the pipeline around the provider calls.
type ExtractionConfig struct {
	StagingDir    string `mapstructure:"staging_dir"`
	SkipEmptyText bool   `mapstructure:"skip_empty_text"`
}

// OCRConfig holds settings for the scanned-document fallback.
type OCRConfig struct {
	Engine        string `mapstructure:"engine"` // tesseract | azure | none
	Pdftoppm      string `mapstructure:"pdftoppm"`
	Tesseract     string `mapstructure:"tesseract"`
	Lang          string `mapstructure:"lang"`
	TessdataDir   string `mapstructure:"tessdata_dir"`
	DPI           int    `mapstructure:"dpi"`
	MaxPages      int    `mapstructure:"max_pages"`
	Enhance       bool   `mapstructure:"enhance"`
	AzureEndpoint string `mapstructure:"azure_endpoint"`
	AzureKey      string `mapstructure:"azure_key"`
	TimeoutSecs   int    `mapstructure:"timeout_secs"`
}

// DispatchConfig holds the call parameters shared by every provider.
type DispatchConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Concurrency int     `mapstructure:"concurrency"`
}

// Timeout returns the per-call deadline.
func (d *DispatchConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSecs) * time.Second
}

// ProviderConfig holds settings for a single completion provider.
// ID is the key used in results; Kind selects the adapter.
type ProviderConfig struct {
	ID          string `mapstructure:"id"`
	Kind        string `mapstructure:"kind"`
	APIKey      string `mapstructure:"api_key"`
	APIKeyEnv   string `mapstructure:"api_key_env"`
	Model       string `mapstructure:"model"`
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	MaxRetries  int    `mapstructure:"max_retries"`
	MaxTokens   int    `mapstructure:"max_tokens"`
}

// ResolvedAPIKey returns APIKey, falling back to the variable named by APIKeyEnv.
func (p *ProviderConfig) ResolvedAPIKey() string {
	if p.APIKey != "" {
		return p.APIKey
	}
	if p.APIKeyEnv != "" {
		return os.Getenv(p.APIKeyEnv)
	}
	return ""
}

// S3Config holds AWS S3 settings for fetching documents by key.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Enabled reports whether object storage is configured.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// providerFields are the per-provider keys bound from the environment.
var providerFields = []string{"kind", "api_key", "api_key_env", "model", "base_url", "timeout_secs", "max_retries", "max_tokens"}

// Load reads configuration from an optional .env file and environment
// variables with the DOCEXTRACT_ prefix.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("DOCEXTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults. Write timeout must outlast the provider deadline.
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "150s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 50)

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	v.SetDefault("extraction.staging_dir", "")
	v.SetDefault("extraction.skip_empty_text", false)

	// OCR defaults
	v.SetDefault("ocr.engine", "tesseract")
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.lang", "eng")
	v.SetDefault("ocr.tessdata_dir", "")
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.max_pages", 0)
	v.SetDefault("ocr.enhance", false)
	v.SetDefault("ocr.azure_endpoint", "")
	v.SetDefault("ocr.azure_key", "")
	v.SetDefault("ocr.timeout_secs", 120)

	// Dispatch defaults
	v.SetDefault("dispatch.temperature", 0.1)
	v.SetDefault("dispatch.timeout_secs", 90)
	v.SetDefault("dispatch.max_tokens", 4000)
	v.SetDefault("dispatch.concurrency", 0)

	// Provider defaults
	v.SetDefault("providers.enabled", "openai,deepseek,anthropic")
	v.SetDefault("providers.openai.kind", "openai")
	v.SetDefault("providers.openai.model", "gpt-4o")
	v.SetDefault("providers.openai.base_url", "https://models.inference.ai.azure.com")
	v.SetDefault("providers.openai.api_key_env", "GITHUB_TOKEN")
	v.SetDefault("providers.deepseek.kind", "openai")
	v.SetDefault("providers.deepseek.model", "deepseek/DeepSeek-V3-0324")
	v.SetDefault("providers.deepseek.base_url", "https://models.github.ai/inference")
	v.SetDefault("providers.deepseek.api_key_env", "GITHUB_TOKEN")
	v.SetDefault("providers.anthropic.kind", "anthropic")
	v.SetDefault("providers.anthropic.model", "claude-3-5-sonnet-20240620")
	v.SetDefault("providers.anthropic.api_key_env", "ANTHROPIC_API_KEY")
	v.SetDefault("providers.gemini.kind", "gemini")
	v.SetDefault("providers.gemini.model", "gemini-2.0-flash")
	v.SetDefault("providers.gemini.api_key_env", "GEMINI_API_KEY")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "DOCEXTRACT_SERVER_PORT",
		"server.read_timeout":        "DOCEXTRACT_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "DOCEXTRACT_SERVER_WRITE_TIMEOUT",
		"server.environment":         "DOCEXTRACT_SERVER_ENVIRONMENT",
		"server.max_upload_mb":       "DOCEXTRACT_SERVER_MAX_UPLOAD_MB",
		"cors.allowed_origins":       "DOCEXTRACT_CORS_ALLOWED_ORIGINS",
		"extraction.staging_dir":     "DOCEXTRACT_EXTRACTION_STAGING_DIR",
		"extraction.skip_empty_text": "DOCEXTRACT_EXTRACTION_SKIP_EMPTY_TEXT",
		"ocr.engine":                 "DOCEXTRACT_OCR_ENGINE",
		"ocr.pdftoppm":               "DOCEXTRACT_OCR_PDFTOPPM",
		"ocr.tesseract":              "DOCEXTRACT_OCR_TESSERACT",
		"ocr.lang":                   "DOCEXTRACT_OCR_LANG",
		"ocr.tessdata_dir":           "DOCEXTRACT_OCR_TESSDATA_DIR",
		"ocr.dpi":                    "DOCEXTRACT_OCR_DPI",
		"ocr.max_pages":              "DOCEXTRACT_OCR_MAX_PAGES",
		"ocr.enhance":                "DOCEXTRACT_OCR_ENHANCE",
		"ocr.azure_endpoint":         "DOCEXTRACT_OCR_AZURE_ENDPOINT",
		"ocr.azure_key":              "DOCEXTRACT_OCR_AZURE_KEY",
		"ocr.timeout_secs":           "DOCEXTRACT_OCR_TIMEOUT_SECS",
		"dispatch.temperature":       "DOCEXTRACT_DISPATCH_TEMPERATURE",
		"dispatch.timeout_secs":      "DOCEXTRACT_DISPATCH_TIMEOUT_SECS",
		"dispatch.max_tokens":        "DOCEXTRACT_DISPATCH_MAX_TOKENS",
		"dispatch.concurrency":       "DOCEXTRACT_DISPATCH_CONCURRENCY",
		"providers.enabled":          "DOCEXTRACT_PROVIDERS_ENABLED",
		"s3.region":                  "DOCEXTRACT_S3_REGION",
		"s3.bucket":                  "DOCEXTRACT_S3_BUCKET",
		"s3.endpoint":                "DOCEXTRACT_S3_ENDPOINT",
		"s3.access_key":              "DOCEXTRACT_S3_ACCESS_KEY",
		"s3.secret_key":              "DOCEXTRACT_S3_SECRET_KEY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DOCEXTRACT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCEXTRACT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Extraction = ExtractionConfig{
		StagingDir:    v.GetString("extraction.staging_dir"),
		SkipEmptyText: v.GetBool("extraction.skip_empty_text"),
	}
	cfg.OCR = OCRConfig{
		Engine:        strings.ToLower(v.GetString("ocr.engine")),
		Pdftoppm:      v.GetString("ocr.pdftoppm"),
		Tesseract:     v.GetString("ocr.tesseract"),
		Lang:          v.GetString("ocr.lang"),
		TessdataDir:   v.GetString("ocr.tessdata_dir"),
		DPI:           v.GetInt("ocr.dpi"),
		MaxPages:      v.GetInt("ocr.max_pages"),
		Enhance:       v.GetBool("ocr.enhance"),
		AzureEndpoint: v.GetString("ocr.azure_endpoint"),
		AzureKey:      v.GetString("ocr.azure_key"),
		TimeoutSecs:   v.GetInt("ocr.timeout_secs"),
	}
	cfg.Dispatch = DispatchConfig{
		Temperature: v.GetFloat64("dispatch.temperature"),
		TimeoutSecs: v.GetInt("dispatch.timeout_secs"),
		MaxTokens:   v.GetInt("dispatch.max_tokens"),
		Concurrency: v.GetInt("dispatch.concurrency"),
	}

	providers, err := loadProviders(v)
	if err != nil {
		return nil, err
	}
	cfg.Providers = providers

	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}

	return cfg, nil
}

// loadProviders reads the providers.enabled list and each provider's section,
// preserving the configured order.
func loadProviders(v *viper.Viper) ([]ProviderConfig, error) {
	ids := splitList(v.GetString("providers.enabled"))
	seen := make(map[string]bool, len(ids))
	out := make([]ProviderConfig, 0, len(ids))

	for _, id := range ids {
		id = strings.ToLower(id)
		if seen[id] {
			return nil, fmt.Errorf("provider %q listed more than once", id)
		}
		seen[id] = true

		prefix := "providers." + id + "."
		for _, field := range providerFields {
			_ = v.BindEnv(prefix+field, "DOCEXTRACT_PROVIDERS_"+strings.ToUpper(id)+"_"+strings.ToUpper(field))
		}

		kind := v.GetString(prefix + "kind")
		if kind == "" {
			// Unlisted ids default to an adapter of the same name.
			kind = id
		}

		out = append(out, ProviderConfig{
			ID:          id,
			Kind:        kind,
			APIKey:      v.GetString(prefix + "api_key"),
			APIKeyEnv:   v.GetString(prefix + "api_key_env"),
			Model:       v.GetString(prefix + "model"),
			BaseURL:     v.GetString(prefix + "base_url"),
			TimeoutSecs: v.GetInt(prefix + "timeout_secs"),
			MaxRetries:  v.GetInt(prefix + "max_retries"),
			MaxTokens:   v.GetInt(prefix + "max_tokens"),
		})
	}
	return out, nil
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
