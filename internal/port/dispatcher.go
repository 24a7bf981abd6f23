package port

import (
	"context"

	"docextract/internal/domain"
)

// CompletionDispatcher sends one prompt to every configured provider.
type CompletionDispatcher interface {
	// Dispatch returns one response per provider, in ProviderIDs order.
	Dispatch(ctx context.Context, prompt domain.PromptPair) []domain.ProviderResponse
	ProviderIDs() []string
}
