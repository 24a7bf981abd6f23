package provider

import (
	"fmt"
	"sort"

	"docextract/internal/config"
	"docextract/internal/port"
)

// Factory creates a CompletionProvider from a provider config.
type Factory func(cfg *config.ProviderConfig) (port.CompletionProvider, error)

// registry of provider factories keyed by adapter kind, populated by init()
// in each adapter package or explicitly via RegisterProvider.
var factories = map[string]Factory{}

// RegisterProvider registers a provider factory by kind.
func RegisterProvider(kind string, factory Factory) {
	factories[kind] = factory
}

// NewProvider creates a CompletionProvider using the factory registered for cfg.Kind.
func NewProvider(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
	factory, ok := factories[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown provider kind %q for provider %q", cfg.Kind, cfg.ID)
	}
	return factory(cfg)
}

// RegisteredKinds lists the registered adapter kinds, sorted.
func RegisteredKinds() []string {
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
