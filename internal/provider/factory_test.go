package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"docextract/internal/config"
	"docextract/internal/port"
	"docextract/internal/provider"
)

func TestFactory_RegisterAndCreate(t *testing.T) {
	provider.RegisterProvider("test-provider", func(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
		return &stubProvider{model: cfg.Model}, nil
	})

	p, err := provider.NewProvider(&config.ProviderConfig{
		ID:    "stub",
		Kind:  "test-provider",
		Model: "test-model",
	})

	assert.NoError(t, err)
	assert.NotNil(t, p)
	assert.Contains(t, provider.RegisteredKinds(), "test-provider")
}

func TestFactory_UnknownProvider(t *testing.T) {
	p, err := provider.NewProvider(&config.ProviderConfig{
		ID:   "mystery",
		Kind: "nonexistent-provider-xyz",
	})

	assert.Nil(t, p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider kind")
}

// stubProvider is a minimal CompletionProvider for testing the factory.
type stubProvider struct {
	model string
}

func (s *stubProvider) Complete(_ context.Context, _ port.CompletionRequest) (*port.Completion, error) {
	return &port.Completion{Text: "{}", Model: s.model}, nil
}
